package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/renderer"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/sim"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/store"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/systems"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

const (
	hallOfFameSize = 10
	bookmarkWindow = 20
)

// Live viewers.
const (
	viewerNone     = "none"
	viewerWindow   = "window"
	viewerTerminal = "terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config value, then time-based)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	population := flag.Int("population", 0, "Agents per generation (0 = use config)")
	mode := flag.String("mode", "", "Selection mode (east, west, west_east, corners, center, radioactive, none)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	archivePath := flag.String("archive", "", "SQLite archive file for run history")
	seedGenomes := flag.String("seed-genomes", "", "hall_of_fame.json to seed generation 0 from")
	headless := flag.Bool("headless", false, "Run without a viewer, even if -window or -tui is set")
	window := flag.Bool("window", false, "Open the raylib viewer")
	tui := flag.Bool("tui", false, "Show the terminal viewer")
	logEvery := flag.Int("log-every", 0, "Log every N generations (0 = use config)")
	noMutation := flag.Bool("no-mutation", false, "Disable mutation (rate 0)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *generations > 0 {
		cfg.Population.Generations = *generations
	}
	if *population > 0 {
		cfg.Population.Size = *population
	}
	if *mode != "" {
		cfg.Selection.Mode = *mode
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *archivePath != "" {
		cfg.Archive.Path = *archivePath
	}
	if *logEvery > 0 {
		cfg.Telemetry.LogEvery = *logEvery
	}
	if *noMutation {
		cfg.Genome.MutationRate = 0
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	viewer, err := viewerMode(*headless, *window, *tui)
	if err != nil {
		slog.Error("invalid viewer flags", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, *seedGenomes, viewer); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// viewerMode picks the live viewer. -headless wins over the viewer flags.
func viewerMode(headless, window, tui bool) (string, error) {
	switch {
	case window && tui:
		return "", errors.New("-window and -tui are mutually exclusive")
	case headless:
		return viewerNone, nil
	case window:
		return viewerWindow, nil
	case tui:
		return viewerTerminal, nil
	}
	return viewerNone, nil
}

func run(cfg *config.Config, logger *slog.Logger, seedGenomes, viewer string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	perf := telemetry.NewPerfCollector(60)
	opts := []sim.Option{sim.WithPerfCollector(perf)}

	if seedGenomes != "" {
		hof, err := telemetry.LoadHallOfFameFromFile(seedGenomes)
		if err != nil {
			return err
		}
		var batch []genome.Genome
		for _, e := range hof.Entries() {
			batch = append(batch, genome.FromUint32s(e.Genome))
		}
		opts = append(opts, sim.WithInitialGenomes(batch))
		logger.Info("seeding from hall of fame", "path", seedGenomes, "genomes", len(batch))
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	runSeed := cfg.Seed

	// The terminal viewer owns stdout while the run is live
	runLogger := logger
	if viewer == viewerTerminal {
		runLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	observers := sim.Observers{&sim.LogObserver{Logger: runLogger, Every: cfg.Telemetry.LogEvery}}

	var runID string
	if cfg.Archive.Path != "" {
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()

		runID, err = archive.StartRun(ctx, cfg, runSeed)
		if err != nil {
			return err
		}
		observers = append(observers, &sim.ArchiveObserver{Archive: archive, RunID: runID})
		logger.Info("archiving run", "path", cfg.Archive.Path, "run_id", runID)
	}

	if cfg.Telemetry.OutputDir != "" {
		output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
		if err != nil {
			return err
		}
		defer output.Close()

		if err := output.WriteConfig(cfg); err != nil {
			return err
		}
		observers = append(observers, &sim.OutputObserver{
			Output:           output,
			Hall:             telemetry.NewHallOfFame(hallOfFameSize),
			Bookmarks:        telemetry.NewBookmarkDetector(bookmarkWindow),
			Perf:             perf,
			Logger:           runLogger,
			SnapshotInterval: cfg.Telemetry.SnapshotInterval,
			Seed:             runSeed,
			RunID:            runID,
			Mode:             cfg.Selection.Mode,
		})
	}

	var stream *telemetry.Stream
	if viewer != viewerNone {
		stream = telemetry.NewStream(cfg.Telemetry.StreamBuffer)
		observers = append(observers, &sim.StreamObserver{
			Stream:      stream,
			Mode:        cfg.Selection.Mode,
			Generations: cfg.Population.Generations,
		})
	}

	s := sim.New(cfg, append(opts, sim.WithObserver(observers...))...)

	fmt.Println(systems.Scenario(cfg.Selection.Mode))
	logger.Info("starting simulation",
		"seed", runSeed,
		"mode", cfg.Selection.Mode,
		"population", cfg.Population.Size,
		"generations", cfg.Population.Generations,
		"steps_per_gen", cfg.Population.StepsPerGen,
		"mutation_rate", cfg.Genome.MutationRate,
	)

	var runErr error
	if stream == nil {
		runErr = s.Run(ctx)
	} else {
		runErr = runWithViewer(ctx, cancel, s, stream, cfg, logger, viewer == viewerWindow)
	}

	summary := telemetry.Summarize(s.History())
	logger.Info("run finished", "summary", summary)
	perf.Stats().LogStats(logger)

	if errors.Is(runErr, context.Canceled) {
		logger.Warn("run interrupted", "generation", s.Generation())
		return nil
	}
	return runErr
}

// runWithViewer runs the simulation in a goroutine while the viewer owns the
// calling goroutine, which raylib requires to be the main thread.
func runWithViewer(ctx context.Context, cancel context.CancelFunc, s *sim.Simulation, stream *telemetry.Stream, cfg *config.Config, logger *slog.Logger, window bool) error {
	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stream.Close()
		runErr = s.Run(ctx)
	}()

	if window {
		renderer.NewWindow(cfg, stream, logger).Run(cancel)
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("terminal viewer: %w", err)
		}
		if err := screen.Init(); err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("terminal viewer: %w", err)
		}
		renderer.NewTerminal(screen, stream).Run(cancel)
	}

	wg.Wait()
	return runErr
}
