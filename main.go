package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cheng-ren/SecuScope/internal/baseline"
	"github.com/cheng-ren/SecuScope/internal/detector"
	"github.com/cheng-ren/SecuScope/internal/history"
	"github.com/cheng-ren/SecuScope/internal/logger"
	"github.com/cheng-ren/SecuScope/internal/output"
	"github.com/cheng-ren/SecuScope/internal/probe"
	"github.com/cheng-ren/SecuScope/internal/report"
	"github.com/cheng-ren/SecuScope/internal/scan"
	"github.com/cheng-ren/SecuScope/internal/tui"
	"github.com/cheng-ren/SecuScope/pkg/types"
)

const version = "1.0.0"

// Exit codes: 0 clean, 1 run error, 2 compromised.
const (
	exitClean       = 0
	exitError       = 1
	exitCompromised = 2
)

func main() {
	headless := flag.Bool("headless", false, "run once and print results instead of launching the TUI")
	jsonOut := flag.Bool("json", false, "headless: emit the result as JSON")
	quiet := flag.Bool("quiet", false, "headless: suppress per-probe output")
	baselineDir := flag.String("baseline", "", "directory containing baseline.json (default: next to the binary)")
	historyPath := flag.String("history", "", "append the run to a snapshot database at this path")
	timeout := flag.Duration("timeout", 0, "per-probe timeout (default 3s)")
	workers := flag.Int("workers", 0, "concurrent probe workers (default 4)")
	debugLog := flag.Bool("debug-log", false, "write a debug log file")
	flag.Parse()

	// .env and environment overrides
	_ = godotenv.Load()
	if *baselineDir == "" {
		*baselineDir = os.Getenv("SECUSCOPE_BASELINE")
	}
	if *historyPath == "" {
		*historyPath = os.Getenv("SECUSCOPE_HISTORY")
	}
	if !*debugLog && os.Getenv("SECUSCOPE_DEBUG") != "" {
		*debugLog = true
	}

	if err := logger.Init(".", *debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	store := baseline.NewStore()
	if *baselineDir != "" {
		store = baseline.NewStoreAt(*baselineDir)
	}
	if err := store.Load(); err != nil {
		logger.Error("Failed to load baseline: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	cfg := scan.DefaultConfig()
	if *timeout > 0 {
		cfg.ProbeTimeout = *timeout
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	if *headless {
		os.Exit(runHeadless(store, cfg, output.Options{Quiet: *quiet, JSON: *jsonOut}, *historyPath))
	}

	if err := tui.Run(store, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

// runHeadless executes one detection run and prints the summary and report.
func runHeadless(store *baseline.Store, cfg scan.Config, opts output.Options, historyPath string) int {
	out := output.New(opts)
	out.PrintHeader(version)

	bundle := store.GetBundle()
	catalog := probe.NewCatalog(bundle.CatalogOptions())
	engine := scan.New(cfg, catalog)

	result, err := engine.RunFullDetection(context.Background())
	if err != nil {
		out.PrintError("%v", err)
		return exitError
	}

	threats := detector.Classify(result.Outcomes, result.StartedAt)
	score := detector.DefaultScoringPolicy().Score(threats)
	recommendations := detector.Recommendations(threats)

	if opts.JSON {
		if err := out.PrintJSON(result, threats, score, recommendations); err != nil {
			return exitError
		}
	} else {
		out.PrintOutcomes(result)
		out.PrintVerdict(result, threats, score)
		if !opts.Quiet {
			fmt.Println()
			fmt.Println(report.New().Format(result, threats, score, recommendations))
		}
	}

	if historyPath != "" {
		if err := appendHistory(historyPath, result, threats, score); err != nil {
			out.PrintError("history: %v", err)
		} else {
			out.PrintInfo("snapshot appended to %s", historyPath)
		}
	}

	if result.Compromised {
		return exitCompromised
	}
	return exitClean
}

func appendHistory(path string, result *types.DetectionResult, threats []types.Threat, score int) error {
	db, err := history.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Append(result, threats, score)
}
