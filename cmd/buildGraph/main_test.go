package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSessions() []FullReport {
	return []FullReport{{
		SessionTime: "2026-01-01T00:00:00Z",
		Benchmarks: []BenchmarkResult{
			{Implementation: "FIFOQueue", RosterSize: 4, MaxTurns: 5, NumDispatched: 1000, ActualElapsed: "1ms"},
			{Implementation: "FIFOQueue", RosterSize: 16, MaxTurns: 5, NumDispatched: 500, ActualElapsed: "1ms"},
			{Implementation: "TurnScheduler", RosterSize: 4, MaxTurns: 0, NumDispatched: 100, ActualElapsed: "1ms"},
			{Implementation: "Broken", RosterSize: 4, MaxTurns: 5, NumDispatched: 0, ActualElapsed: "1ms"},
			{Implementation: "Garbled", RosterSize: 4, MaxTurns: 5, NumDispatched: 10, ActualElapsed: "soon"},
		},
	}}
}

func TestGroupPoints(t *testing.T) {
	points := groupPoints(sampleSessions())

	require.Len(t, points, 2)
	assert.Equal(t, []float64{1000}, points[5]["FIFOQueue"][4]) // 1ms / 1000 dispatches
	assert.Equal(t, []float64{2000}, points[5]["FIFOQueue"][16])
	assert.Equal(t, []float64{10000}, points[0]["TurnScheduler"][4])
	assert.NotContains(t, points[5], "Broken")
	assert.NotContains(t, points[5], "Garbled")
}

func TestBuildStats(t *testing.T) {
	stats := buildStats(map[float64][]float64{
		8: {5, 1, 3},
		9: {},
	})
	require.Len(t, stats, 1)
	assert.Equal(t, 8.0, stats[0].orig)
	assert.Equal(t, 3.0, stats[0].median)
	// Three samples are too few for a 5% slice, so both ends fall back to the median.
	assert.Equal(t, 3.0, stats[0].min)
	assert.Equal(t, 3.0, stats[0].max)
}

func TestAverageOfRange(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	assert.Equal(t, 2.0, averageOfRange(vals, 0, 0.05))
	assert.Equal(t, 97.0, averageOfRange(vals, 0.95, 1.0))
	assert.Equal(t, 0.0, averageOfRange(nil, 0, 1))

	// Fewer than 20 samples leave no full 5% slice at either end.
	few := []float64{1, 3, 5}
	assert.Equal(t, 3.0, averageOfRange(few, 0, 0.05))
	assert.Equal(t, 3.0, averageOfRange(few, 0.95, 1.0))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}

func TestFormatNs(t *testing.T) {
	assert.Equal(t, "999ns", formatNs(999))
	assert.Equal(t, "1.5µs", formatNs(1500))
	assert.Equal(t, "2.0ms", formatNs(2e6))
	assert.Equal(t, "3.00s", formatNs(3e9))
}

func TestLogTicks(t *testing.T) {
	ticks := logTicks(10, 1e6)
	require.NotEmpty(t, ticks)
	assert.InDelta(t, 10, ticks[0].Value, 1e-6)
	last := ticks[len(ticks)-1].Value
	assert.Greater(t, last, 1e5)
	assert.LessOrEqual(t, last, 1e6+1)

	assert.Len(t, logTicks(0, 0), 1)
}

func TestRenderPlot(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "test-results.json")
	data, err := json.Marshal(sampleSessions())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonFile, data, 0o644))

	sessions, err := loadSessions(jsonFile)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	out := filepath.Join(dir, "graph.png")
	require.NoError(t, renderPlot(logger, groupPoints(sessions)[5], 5, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Empty(t, hook.AllEntries())
}

func TestLoadSessionsErrors(t *testing.T) {
	_, err := loadSessions(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = loadSessions(bad)
	assert.Error(t, err)
}
