package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	log "github.com/sirupsen/logrus"

	"github.com/i5heu/GoTurnQueue/internal/testbench"
	"github.com/i5heu/GoTurnQueue/pkg/config"
	"github.com/i5heu/GoTurnQueue/pkg/fifo"
	"github.com/i5heu/GoTurnQueue/pkg/priority"
	"github.com/i5heu/GoTurnQueue/pkg/priorityheap"
	"github.com/i5heu/GoTurnQueue/pkg/turns"
)

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Implementation string  `json:"implementation"`
	RosterSize     int     `json:"roster_size"`
	MaxTurns       int     `json:"max_turns"`
	PriorityLevels int     `json:"priority_levels"`
	NumLoaded      int64   `json:"num_loaded"`     // entries put into the container
	NumDispatched  int64   `json:"num_dispatched"` // entries taken out
	TestDuration   string  `json:"test_duration"`  // e.g. "1s"
	ActualElapsed  string  `json:"actual_elapsed"` // measured time
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

// Implementation represents one benchmarked container.
type Implementation struct {
	name        string
	description string
	pkgName     string
	features    []string
	newWorkload func(cfg testbench.Config) testbench.Workload
}

// outputMarkdownTable loads the JSON file and prints a Markdown table of the last session.
func outputMarkdownTable(jsonFile string) error {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return errors.Wrapf(err, "reading JSON file %q", jsonFile)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return errors.Wrap(err, "unmarshalling JSON")
	}
	if len(sessions) == 0 {
		return errors.New("no sessions found in JSON")
	}
	// Use the last session for the table.
	lastSession := sessions[len(sessions)-1]

	implMetaMap := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMetaMap[impl.name] = impl
	}

	type tableRow struct {
		implementation string
		pkgName        string
		features       string
		rosterSize     int
		throughput     float64
	}
	var rows []tableRow
	for _, bench := range lastSession.Benchmarks {
		meta := implMetaMap[bench.Implementation]
		rows = append(rows, tableRow{
			implementation: bench.Implementation,
			pkgName:        meta.pkgName,
			features:       strings.Join(meta.features, ", "),
			rosterSize:     bench.RosterSize,
			throughput:     bench.Throughput,
		})
	}
	// Sort rows by roster size, then throughput descending.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].rosterSize != rows[j].rosterSize {
			return rows[i].rosterSize < rows[j].rosterSize
		}
		return rows[i].throughput > rows[j].throughput
	})

	fmt.Println("## Last Session Benchmark Summary")
	fmt.Println()
	fmt.Println("| Implementation           | Package         | Features                    | Roster | Throughput (ops/sec) |")
	fmt.Println("|--------------------------|-----------------|-----------------------------|--------|----------------------|")
	for _, r := range rows {
		fmt.Printf("| %-24s | %-15s | %-27s | %6d | %20.0f |\n",
			r.implementation, r.pkgName, r.features, r.rosterSize, r.throughput)
	}
	return nil
}

func main() {
	logger := log.New()

	settings, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}

	// Flags override whatever the environment configured.
	testIterations := flag.Int("iter", settings.Iterations, "Number of test iterations per roster size")
	rosterFlag := flag.String("roster", "", "Comma separated roster sizes, e.g. 4,16,64")
	maxTurns := flag.Int("max-turns", settings.MaxTurns, "Turn budget per scheduler participant; <= 0 means unlimited")
	priorityLevels := flag.Int("levels", settings.PriorityLevels, "Distinct priorities used by the priority workloads")
	testDuration := flag.Duration("duration", settings.Duration, "Duration of each timed run")
	jsonExport := flag.Bool("json", false, "Export results as JSON to test-results.json")
	markdownTable := flag.Bool("markdown-table", false, "Output markdown table from test-results.json and exit")
	jsonFileForMarkdown := flag.String("jsonfile", "test-results.json", "Path to JSON file for markdown table")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	verbose := flag.Bool("verbose", false, "Log every run at debug level")
	flag.Parse()

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *markdownTable {
		if err := outputMarkdownTable(*jsonFileForMarkdown); err != nil {
			logger.Fatal(err)
		}
		return
	}

	settings.Iterations = *testIterations
	settings.MaxTurns = *maxTurns
	settings.PriorityLevels = *priorityLevels
	settings.Duration = *testDuration
	if *rosterFlag != "" {
		if settings.RosterSizes, err = config.ParseIntList(*rosterFlag); err != nil {
			logger.Fatal(errors.Wrap(err, "-roster"))
		}
	}

	report, err := runSession(logger, settings, *progressFlag)
	if err != nil {
		logger.Fatal(err)
	}

	// If JSON export is requested, append the new session to test-results.json.
	if *jsonExport {
		const filename = "test-results.json"
		if err := appendReport(filename, report); err != nil {
			logger.Fatal(err)
		}
		fmt.Printf("\nWrote results to %s\n", filename)
	}
}

// runSession times every implementation for every roster size.
func runSession(logger *log.Logger, settings config.Settings, showProgress bool) (FullReport, error) {
	impls := getImplementations()
	cfgs := settings.Configs()
	totalTests := len(cfgs) * settings.Iterations * len(impls)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	var results []BenchmarkResult
	for _, cfg := range cfgs {
		fmt.Printf("  [Roster: size=%d, max turns=%d, priority levels=%d]\n", cfg.RosterSize, cfg.MaxTurns, cfg.PriorityLevels)
		for iteration := 1; iteration <= settings.Iterations; iteration++ {
			fmt.Printf("    iteration %d/%d\n", iteration, settings.Iterations)
			for _, impl := range impls {
				runtime.GC()
				w := impl.newWorkload(cfg)

				loaded, dispatched, actualTime, err := testbench.RunTimedTest(w, cfg, settings.Duration)
				if err != nil {
					return FullReport{}, errors.Wrapf(err, "%s, roster %d", impl.name, cfg.RosterSize)
				}
				throughput := float64(dispatched) / actualTime.Seconds()

				logger.WithFields(log.Fields{
					"implementation": impl.name,
					"roster":         cfg.RosterSize,
					"iteration":      iteration,
					"pending":        w.Len(),
				}).Debug("bench: run finished")

				fmt.Printf("    %s => loaded=%d, dispatched=%d, throughput=%.0f ops/s, took=%v\n",
					impl.name, loaded, dispatched, throughput, actualTime)

				if bar != nil {
					_ = bar.Add(1)
				}

				results = append(results, BenchmarkResult{
					Implementation: impl.name,
					RosterSize:     cfg.RosterSize,
					MaxTurns:       cfg.MaxTurns,
					PriorityLevels: cfg.PriorityLevels,
					NumLoaded:      loaded,
					NumDispatched:  dispatched,
					TestDuration:   settings.Duration.String(),
					ActualElapsed:  actualTime.String(),
					Throughput:     throughput,
					Timestamp:      time.Now().Unix(),
					GoVersion:      runtime.Version(),
				})
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return FullReport{
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  gatherSystemInfo(),
		Benchmarks:  results,
	}, nil
}

// appendReport adds report to the sessions already stored in filename.
func appendReport(filename string, report FullReport) error {
	var previous []FullReport
	if data, err := os.ReadFile(filename); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &previous); err != nil {
			return errors.Wrapf(err, "parsing existing %s", filename)
		}
	}
	updated := append(previous, report)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling JSON")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	return nil
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	return SystemInfo{
		NumCPU:      runtime.NumCPU(),
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      runtime.GOARCH,
		TotalMemory: totalMemory,
	}
}

// getImplementations enumerates the containers under test.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "FIFOQueue",
			pkgName:     "fifo",
			description: "Unbounded ring buffer FIFO queue that doubles when full.",
			features:    []string{"FIFO"},
			newWorkload: func(cfg testbench.Config) testbench.Workload {
				return testbench.FIFO(fifo.New[int](uint64(cfg.RosterSize)), func(i int) int { return i })
			},
		},
		{
			name:        "PriorityQueue",
			pkgName:     "priority",
			description: "Slice backed priority queue, linear scan on every dequeue.",
			features:    []string{"Priority", "Stable"},
			newWorkload: func(cfg testbench.Config) testbench.Workload {
				return testbench.Priority(priority.New(), cfg.PriorityLevels)
			},
		},
		{
			name:        "PriorityHeap",
			pkgName:     "priorityheap",
			description: "Binary heap priority queue with an insertion sequence tie-break.",
			features:    []string{"Priority", "Stable"},
			newWorkload: func(cfg testbench.Config) testbench.Workload {
				return testbench.Priority(priorityheap.New(), cfg.PriorityLevels)
			},
		},
		{
			name:        "TurnScheduler",
			pkgName:     "turns",
			description: "Round-robin turn scheduler on top of the FIFO queue.",
			features:    []string{"FIFO", "Turns"},
			newWorkload: func(cfg testbench.Config) testbench.Workload {
				return testbench.Scheduler[turns.Participant](turns.New(), cfg.MaxTurns)
			},
		},
		{
			name:        "SyncTurnScheduler",
			pkgName:     "turns",
			description: "The turn scheduler behind a mutex.",
			features:    []string{"FIFO", "Turns", "Synchronized"},
			newWorkload: func(cfg testbench.Config) testbench.Workload {
				return testbench.Scheduler[turns.Participant](turns.NewSync(), cfg.MaxTurns)
			},
		},
	}
}
