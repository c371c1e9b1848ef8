package sim

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/store"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

func TestLogObserverCadence(t *testing.T) {
	var buf bytes.Buffer
	obs := &LogObserver{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Every: 10}

	for gen := 0; gen < 25; gen++ {
		r := &Report{Generation: gen, Stats: telemetry.GenerationStats{Generation: gen, Population: 10, Survivors: 5}}
		if err := obs.OnGeneration(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}

	// 0-4, 10, 20
	if n := strings.Count(buf.String(), "msg=generation"); n != 7 {
		t.Errorf("logged %d generations, want 7:\n%s", n, buf.String())
	}
}

func TestLogObserverWarnsOnExtinction(t *testing.T) {
	var buf bytes.Buffer
	obs := &LogObserver{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Every: 10}

	r := &Report{Generation: 7, Stats: telemetry.GenerationStats{Generation: 7, Population: 1000, Extinct: true}}
	if err := obs.OnGeneration(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "msg=extinction") {
		t.Errorf("expected extinction warning, got: %s", out)
	}
	if !strings.Contains(out, "population=1,000") {
		t.Errorf("expected humanized population, got: %s", out)
	}
}

func TestOutputObserverWritesRun(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.Population.Generations = 3
	cfg.Selection.Mode = "none"

	hall := telemetry.NewHallOfFame(5)
	obs := &OutputObserver{
		Output:           om,
		Hall:             hall,
		Bookmarks:        telemetry.NewBookmarkDetector(10),
		SnapshotInterval: 2,
		Seed:             cfg.Seed,
		Mode:             cfg.Selection.Mode,
	}
	s := New(cfg, WithObserver(obs))
	obs.Perf = s.Perf()

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"generations.csv", "perf.csv", "bookmarks.csv", "best_genome.json", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	for _, gen := range []string{"00000", "00002"} {
		path := filepath.Join(dir, "snapshots", "snapshot_gen"+gen+".json")
		snap, err := telemetry.LoadSnapshot(path)
		if err != nil {
			t.Errorf("snapshot %s: %v", gen, err)
			continue
		}
		if len(snap.Agents) != cfg.Population.Size || snap.Mode != "none" {
			t.Errorf("snapshot %s: %d agents, mode %q", gen, len(snap.Agents), snap.Mode)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "snapshots", "snapshot_gen00001.json")); err == nil {
		t.Error("unexpected snapshot for generation 1")
	}
	if hall.Len() == 0 {
		t.Error("hall of fame is empty")
	}
}

func TestStreamObserverPublishesFrames(t *testing.T) {
	stream := telemetry.NewStream(8)
	cfg := smallConfig()
	cfg.Population.Generations = 3

	s := New(cfg, WithObserver(&StreamObserver{Stream: stream, Mode: cfg.Selection.Mode, Generations: 3}))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	stream.Close()

	var frames []telemetry.Frame
	for f := range stream.Frames() {
		frames = append(frames, f)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}

	last := frames[2]
	if last.Generation != 2 || len(last.History) != 3 || last.Generations != 3 {
		t.Errorf("last frame: gen %d, history %v, of %d", last.Generation, last.History, last.Generations)
	}
	if len(last.Dots) != last.Stats.Alive {
		t.Errorf("dots = %d, alive = %d", len(last.Dots), last.Stats.Alive)
	}
	if last.Width != cfg.World.Width || last.Height != cfg.World.Height {
		t.Errorf("frame size = %dx%d", last.Width, last.Height)
	}
}

func TestArchiveObserverStoresRun(t *testing.T) {
	ctx := context.Background()
	archive, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	cfg := smallConfig()
	cfg.Population.Generations = 3
	cfg.Selection.Mode = "none"

	runID, err := archive.StartRun(ctx, cfg, cfg.Seed)
	if err != nil {
		t.Fatal(err)
	}

	s := New(cfg, WithObserver(&ArchiveObserver{Archive: archive, RunID: runID}))
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	gens, err := archive.Generations(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 3 {
		t.Fatalf("archived %d generations, want 3", len(gens))
	}
	for i, g := range gens {
		if !sameOutcome(g, s.History()[i]) {
			t.Errorf("generation %d archived as %+v, ran as %+v", i, g, s.History()[i])
		}
	}

	best, err := archive.BestGenomes(ctx, runID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 3 {
		t.Errorf("archived %d genomes, want 3", len(best))
	}
}
