package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BenchmarkResult holds one benchmark result as written by cmd/bench.
type BenchmarkResult struct {
	Implementation string  `json:"implementation"`
	RosterSize     int     `json:"roster_size"`
	MaxTurns       int     `json:"max_turns"`
	PriorityLevels int     `json:"priority_levels"`
	NumLoaded      int64   `json:"num_loaded"`
	NumDispatched  int64   `json:"num_dispatched"`
	TestDuration   string  `json:"test_duration"`
	ActualElapsed  string  `json:"actual_elapsed"`
	Throughput     float64 `json:"throughput_ops_sec"`
	Timestamp      int64   `json:"timestamp"`
	GoVersion      string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// rosterStats holds "5%-avg-min", median, and "5%-avg-max" for each roster size.
type rosterStats struct {
	x      float64 // category index plus offset
	orig   float64 // original roster size
	min    float64 // "average of bottom 5%"
	median float64
	max    float64 // "average of top 5%"
}

// statsPoints implements XYer and YErrorer for rosterStats, so we can plot lines + error bars.
type statsPoints []rosterStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	low = s[i].median - s[i].min
	high = s[i].max - s[i].median
	return low, high
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => labels for roster sizes.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// pointsByTurns groups ns/op samples by max turns -> implementation -> roster size.
type pointsByTurns map[int]map[string]map[float64][]float64

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	logger := log.New()

	sessions, err := loadSessions(*jsonFile)
	if err != nil {
		logger.Fatal(err)
	}

	for maxTurns, implMap := range groupPoints(sessions) {
		filename := fmt.Sprintf("%s_turns%d.png", *outputPrefix, maxTurns)
		if err := renderPlot(logger, implMap, maxTurns, filename); err != nil {
			logger.WithField("max_turns", maxTurns).Error(err)
			continue
		}
		fmt.Printf("Graph for max turns %d saved to %s\n", maxTurns, filename)
	}
}

func loadSessions(jsonFile string) ([]FullReport, error) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading JSON file")
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrap(err, "unmarshalling JSON")
	}
	return sessions, nil
}

// groupPoints converts every result into time per dispatched entry.
// Results without dispatches or with an unparsable duration are dropped.
func groupPoints(sessions []FullReport) pointsByTurns {
	points := make(pointsByTurns)
	for _, session := range sessions {
		for _, b := range session.Benchmarks {
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumDispatched == 0 {
				continue
			}
			nsPerOp := float64(dur.Nanoseconds()) / float64(b.NumDispatched)

			implMap, ok := points[b.MaxTurns]
			if !ok {
				implMap = make(map[string]map[float64][]float64)
				points[b.MaxTurns] = implMap
			}
			if _, ok := implMap[b.Implementation]; !ok {
				implMap[b.Implementation] = make(map[float64][]float64)
			}
			x := float64(b.RosterSize)
			implMap[b.Implementation][x] = append(implMap[b.Implementation][x], nsPerOp)
		}
	}
	return points
}

func renderPlot(logger log.FieldLogger, implMap map[string]map[float64][]float64, maxTurns int, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Time per dispatch (5%%-avg-min / Median / 5%%-avg-max) vs. roster size, max turns %d", maxTurns)
	p.X.Label.Text = "Roster size"
	p.Y.Label.Text = "Time per op (ns) [log scale]"

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white

	p.Y.Tick.Marker = plot.TickerFunc(logTicks)
	p.Add(plotter.NewGrid())

	// Build union of roster sizes.
	rosterSet := make(map[float64]struct{})
	for _, implData := range implMap {
		for size := range implData {
			rosterSet[size] = struct{}{}
		}
	}
	var sizes []float64
	for val := range rosterSet {
		sizes = append(sizes, val)
	}
	sort.Float64s(sizes)

	// Map roster size => category index.
	sizeMapping := make(map[float64]float64)
	var positions []float64
	var labels []string
	for i, val := range sizes {
		sizeMapping[val] = float64(i)
		positions = append(positions, float64(i))
		labels = append(labels, strconv.FormatFloat(val, 'f', -1, 64))
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	// Sort implementations alphabetically for consistent legend ordering.
	var implNames []string
	for implName := range implMap {
		implNames = append(implNames, implName)
	}
	sort.Strings(implNames)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Slight offset so each implementation is visually separated.
	offsetRange := 0.4
	offsetStep := offsetRange / float64(max(len(implNames), 1))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, impl := range implNames {
		stats := buildStats(implMap[impl])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].x = sizeMapping[stats[j].orig] + startOffset + float64(i)*offsetStep
		}
		sort.Slice(stats, func(a, b int) bool {
			return stats[a].x < stats[b].x
		})
		sp := statsPoints(stats)

		line, err := plotter.NewLine(sp)
		if err != nil {
			logger.WithField("implementation", impl).Warn(errors.Wrap(err, "creating line"))
			continue
		}
		line.Color = colors[i%len(colors)]

		points, err := plotter.NewScatter(sp)
		if err != nil {
			logger.WithField("implementation", impl).Warn(errors.Wrap(err, "creating scatter"))
			continue
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = colors[i%len(colors)]
		points.Shape = shapes[i%len(shapes)]

		yErrBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			logger.WithField("implementation", impl).Warn(errors.Wrap(err, "creating error bars"))
			continue
		}
		yErrBars.Color = colors[i%len(colors)]

		p.Add(line, points, yErrBars)
		p.Legend.Add(impl, line, points)
	}

	if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "saving plot %s", filename)
	}
	return nil
}

// logTicks spreads roughly one labelled tick every 30px over a 9 inch axis.
func logTicks(min, max float64) []plot.Tick {
	const pxHeight = 648.0
	const pxSpacing = 30.0
	nTicks := pxHeight / pxSpacing

	// log10(0) is invalid.
	if min <= 0 {
		min = 1e-9
	}
	if max <= min {
		return []plot.Tick{{Value: min, Label: formatNs(min)}}
	}
	start := math.Log10(min)
	end := math.Log10(max)
	step := (end - start) / nTicks

	var ticks []plot.Tick
	for i := 0.0; i <= nTicks; i++ {
		y := math.Pow(10, start+i*step)
		ticks = append(ticks, plot.Tick{Value: y, Label: formatNs(y)})
	}
	return ticks
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%".
func buildStats(sizeMap map[float64][]float64) []rosterStats {
	var out []rosterStats
	for x, vals := range sizeMap {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, rosterStats{
			x:      x,
			orig:   x,
			min:    averageOfRange(vals, 0.0, 0.05),
			median: median(vals),
			max:    averageOfRange(vals, 0.95, 1.0),
		})
	}
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac] of its length.
// E.g. averageOfRange(vals, 0, 0.05) is the average of the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	// fallback to median if the slice holds less than one sample, on either end
	if int(float64(n)*(endFrac-startFrac)) < 1 {
		return median(sortedVals)
	}
	startIndex := int(float64(n) * startFrac)
	endIndex := int(float64(n) * endFrac)
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > n {
		endIndex = n
	}
	if startIndex >= endIndex {
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
