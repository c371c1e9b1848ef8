package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestArchiveRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)
	cfg := config.MustDefaults()

	id, err := a.StartRun(ctx, cfg, 42)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if id == "" {
		t.Fatal("StartRun returned empty id")
	}

	run, ok, err := a.GetRun(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetRun = %v, %v", ok, err)
	}
	if run.Seed != 42 || run.Mode != cfg.Selection.Mode || run.Population != cfg.Population.Size {
		t.Errorf("run = %+v", run)
	}
	if run.ConfigYAML == "" {
		t.Error("config not stored")
	}
	if since := time.Since(run.StartedAt()); since < 0 || since > time.Minute {
		t.Errorf("StartedAt = %v, want about now", run.StartedAt())
	}

	if _, ok, err := a.GetRun(ctx, "missing"); ok || err != nil {
		t.Errorf("GetRun(missing) = %v, %v; want false, nil", ok, err)
	}

	runs, err := a.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("Runs = %+v", runs)
	}
}

func TestArchiveGenerations(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)

	id, err := a.StartRun(ctx, config.MustDefaults(), 1)
	if err != nil {
		t.Fatal(err)
	}

	for gen := 2; gen >= 0; gen-- {
		stats := telemetry.GenerationStats{
			Generation:  gen,
			Population:  100,
			Survivors:   gen * 10,
			SurvivalPct: float64(gen * 10),
			Diversity:   0.25,
			Extinct:     gen == 0,
		}
		if err := a.SaveGeneration(ctx, id, stats); err != nil {
			t.Fatalf("SaveGeneration: %v", err)
		}
	}

	got, err := a.Generations(ctx, id)
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d generations, want 3", len(got))
	}
	for i, s := range got {
		if s.Generation != i {
			t.Errorf("row %d generation = %d, want ordered", i, s.Generation)
		}
	}
	if !got[0].Extinct || got[1].Extinct {
		t.Errorf("extinct flags = %v, %v; want true, false", got[0].Extinct, got[1].Extinct)
	}
	if got[2].Survivors != 20 || got[2].Diversity != 0.25 {
		t.Errorf("row 2 = %+v", got[2])
	}
}

func TestArchiveBestGenomes(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)

	id, err := a.StartRun(ctx, config.MustDefaults(), 1)
	if err != nil {
		t.Fatal(err)
	}

	entries := []telemetry.HallEntry{
		{Generation: 0, Fitness: 10, Connections: 2, Genome: []uint32{1, 2}},
		{Generation: 1, Fitness: 30, Connections: 4, Genome: []uint32{3, 4}, Wiring: []string{"S00 → A00 w=+0.500"}},
		{Generation: 2, Fitness: 30, Connections: 5, Genome: []uint32{5, 6}},
	}
	for _, e := range entries {
		if err := a.SaveGenome(ctx, id, e); err != nil {
			t.Fatalf("SaveGenome: %v", err)
		}
	}

	best, err := a.BestGenomes(ctx, id, 2)
	if err != nil {
		t.Fatalf("BestGenomes: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("got %d entries, want 2", len(best))
	}
	if best[0].Generation != 2 || best[1].Generation != 1 {
		t.Errorf("order = %d, %d; want 2, 1", best[0].Generation, best[1].Generation)
	}
	if g := best[1].Genome; len(g) != 2 || g[0] != 3 {
		t.Errorf("genome = %v, want [3 4]", g)
	}
	if w := best[1].Wiring; len(w) != 1 {
		t.Errorf("wiring = %v", w)
	}
}
