package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/neurosift/eegbci-downloader/internal/config"
	"github.com/neurosift/eegbci-downloader/internal/dataset"
	"github.com/neurosift/eegbci-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		subjectFlag    = flag.Int("subject", 0, "Subject to fetch (1-109)")
		runsFlag       = flag.String("runs", "", "Runs to fetch, comma-separated (each 1-14)")
		pathFlag       = flag.String("path", "", "Data directory (overrides EEGBCI_DATA_PATH and config)")
		baseURLFlag    = flag.String("base-url", "", "Dataset base URL (overrides config)")
		configFlag     = flag.String("config", "", "Path to config file")
		forceFlag      = flag.Bool("force", false, "Delete and re-download files even if a local copy exists")
		updatePathFlag = flag.Bool("update-path", false, "Persist the resolved data path to the config file")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag     = flag.Bool("dry-run", false, "Print destination paths without downloading")
	)

	flag.Parse()

	if *subjectFlag == 0 || *runsFlag == "" {
		fmt.Println("EEGBCI Downloader - Fetch EEG motor imagery recordings from PhysioNet")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  eegbci-dl -subject <n> -runs <r1,r2,...> [options]")
		fmt.Println()
		fmt.Println("Runs correspond to tasks:")
		for run := dataset.MinRun; run <= dataset.MaxRun; run++ {
			fmt.Printf("  %2d  %s\n", run, dataset.RunDescription(run))
		}
		fmt.Println()
		fmt.Println("For interactive mode, use: eegbci-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	runs, err := parseRuns(*runsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing runs: %v\n", err)
		os.Exit(1)
	}

	// Load config
	settingsFile := *configFlag
	if settingsFile == "" {
		settingsFile = config.DefaultSettingsPath()
	}
	settings, err := config.Load(settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *baseURLFlag != "" {
		settings.BaseURL = *baseURLFlag
	}

	updatePath := config.PathUpdateUnspecified
	if *updatePathFlag {
		updatePath = config.PathUpdateYes
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, settingsFile, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "> "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})

	req := download.Request{
		Subject:     *subjectFlag,
		Runs:        runs,
		Path:        *pathFlag,
		ForceUpdate: *forceFlag,
		UpdatePath:  updatePath,
	}

	if *dryRunFlag {
		paths, err := manager.DestinationPaths(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("[Dry run - not downloading]")
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}

	paths, err := manager.LoadData(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Println(p)
	}
}

func parseRuns(input string) ([]int, error) {
	var runs []int
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		run, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid run %q", field)
		}
		runs = append(runs, run)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs given")
	}
	return runs, nil
}
