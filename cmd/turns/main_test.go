package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	root := newRootCommand(logger)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// dispatchedNames pulls the participant names out of "n: Name (Turns:x)" lines.
func dispatchedNames(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		_, rest, ok := strings.Cut(line, ": ")
		if !ok || strings.HasPrefix(line, "remaining") {
			continue
		}
		name, _, _ := strings.Cut(rest, " (")
		names = append(names, name)
	}
	return names
}

func TestRunFiniteRoster(t *testing.T) {
	out, err := execute(t, "run", "-p", "Bob:2", "-p", "Tim:5", "-p", "Sue:3")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Bob", "Tim", "Sue", "Bob", "Tim", "Sue", "Tim", "Sue", "Tim", "Tim"},
		dispatchedNames(out))
	assert.Contains(t, out, "remaining: []")
}

func TestRunAddAfter(t *testing.T) {
	out, err := execute(t, "run", "-p", "Bob:2", "-p", "Tim:5", "-p", "Sue:3", "--add-after", "5", "--add", "George:3")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Bob", "Tim", "Sue", "Bob", "Tim", "Sue", "Tim", "George", "Sue", "Tim", "George", "Tim", "George"},
		dispatchedNames(out))
}

func TestRunInfiniteStopsAtMax(t *testing.T) {
	out, err := execute(t, "run", "-p", "Bob:2", "-p", "Tim:0", "-p", "Sue:3", "--max", "11")
	require.NoError(t, err)

	names := dispatchedNames(out)
	require.Len(t, names, 11)
	assert.Equal(t, "Tim", names[10])
	assert.Contains(t, out, "11: Tim (Turns:0)")
	assert.Contains(t, out, "remaining: [Tim (Turns:forever)]")
}

func TestRunLineEmptiesBeforeLateJoin(t *testing.T) {
	_, err := execute(t, "run", "-p", "Bob:1", "--add-after", "5", "--add", "George:1")
	require.Error(t, err)
	assert.True(t, queueerr.Is(err))
}

func TestRunLateJoinBeyondMax(t *testing.T) {
	out, err := execute(t, "run", "-p", "Tim:0", "--max", "3", "--add-after", "5", "--add", "George:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--add-after 5 is beyond --max 3")
	assert.Empty(t, out)

	// Joining exactly at the last dispatch is still reachable.
	out, err = execute(t, "run", "-p", "Tim:0", "--max", "3", "--add-after", "3", "--add", "George:1")
	require.NoError(t, err)
	assert.Contains(t, out, "remaining: [Tim (Turns:forever), George (Turns:1)]")
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)

	_, err = execute(t, "run", "-p", "Bob")
	assert.Error(t, err)

	_, err = execute(t, "run", "-p", "Bob:many")
	assert.Error(t, err)
}

func TestPriority(t *testing.T) {
	for _, args := range [][]string{
		{"priority"},
		{"priority", "--heap"},
	} {
		args := append(args, "-e", "Apple:5", "-e", "Banana:1", "-e", "Orange:5", "-e", "Grape:3")
		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Equal(t, "1: Apple\n2: Orange\n3: Grape\n4: Banana\n", out, "args %v", args)
	}

	_, err := execute(t, "priority")
	assert.Error(t, err)
}

func TestParsePair(t *testing.T) {
	name, n, err := parsePair("Bob:2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)
	assert.Equal(t, 2, n)

	name, n, err = parsePair("a:b:-3")
	require.NoError(t, err)
	assert.Equal(t, "a:b", name)
	assert.Equal(t, -3, n)

	for _, bad := range []string{"", ":1", "Bob:", "Bob"} {
		_, _, err := parsePair(bad)
		assert.Error(t, err, bad)
	}
}
