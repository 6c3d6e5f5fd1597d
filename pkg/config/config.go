package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/i5heu/GoTurnQueue/internal/testbench"
)

// Config is an alias for testbench.Config. This allows other programs to import
// the benchmark configuration without pulling in the entire testbench package.
type Config = testbench.Config

// Environment variables read by Load.
const (
	EnvIterations     = "TURNQ_ITER"
	EnvRosterSizes    = "TURNQ_ROSTER"
	EnvMaxTurns       = "TURNQ_MAX_TURNS"
	EnvPriorityLevels = "TURNQ_PRIORITY_LEVELS"
	EnvDuration       = "TURNQ_DURATION"
)

// Settings is everything a benchmark session needs.
type Settings struct {
	Iterations     int
	RosterSizes    []int
	MaxTurns       int
	PriorityLevels int
	Duration       time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Iterations:     5,
		RosterSizes:    []int{4, 16, 64, 256},
		MaxTurns:       5,
		PriorityLevels: 8,
		Duration:       time.Second,
	}
}

// Configs expands the settings into one Config per roster size.
func (s Settings) Configs() []Config {
	cfgs := make([]Config, 0, len(s.RosterSizes))
	for _, size := range s.RosterSizes {
		cfgs = append(cfgs, Config{
			RosterSize:     size,
			MaxTurns:       s.MaxTurns,
			PriorityLevels: s.PriorityLevels,
		})
	}
	return cfgs
}

// Load reads an optional .env file from the given paths (the working
// directory's .env when none are given) and overlays any TURNQ_* variables
// onto Default. A missing .env file is not an error.
func Load(envFiles ...string) (Settings, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, errors.Wrap(err, "config: loading .env")
	}

	s := Default()
	var err error
	if s.Iterations, err = envInt(EnvIterations, s.Iterations); err != nil {
		return Settings{}, err
	}
	if s.MaxTurns, err = envInt(EnvMaxTurns, s.MaxTurns); err != nil {
		return Settings{}, err
	}
	if s.PriorityLevels, err = envInt(EnvPriorityLevels, s.PriorityLevels); err != nil {
		return Settings{}, err
	}
	if v := os.Getenv(EnvDuration); v != "" {
		if s.Duration, err = time.ParseDuration(v); err != nil {
			return Settings{}, errors.Wrapf(err, "config: %s", EnvDuration)
		}
	}
	if v := os.Getenv(EnvRosterSizes); v != "" {
		if s.RosterSizes, err = ParseIntList(v); err != nil {
			return Settings{}, errors.Wrapf(err, "config: %s", EnvRosterSizes)
		}
	}
	return s, nil
}

// ParseIntList parses a comma separated list of positive integers such as "4,16,64".
func ParseIntList(v string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(v, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", field)
		}
		if n < 1 {
			return nil, errors.Errorf("value %d must be positive", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no values in %q", v)
	}
	return out, nil
}

// envInt reads an integer from an environment variable with a default value.
func envInt(name string, defaultVal int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", name)
	}
	return i, nil
}
