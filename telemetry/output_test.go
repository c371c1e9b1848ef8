package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is a no-op on nil
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration on nil: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Errorf("WriteBookmark on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil = %q", om.Dir())
	}
}

func TestOutputManagerGenerationsCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for gen := 0; gen < 3; gen++ {
		stats := GenerationStats{Generation: gen, Population: 100, Survivors: 10 * gen, SurvivalPct: 10 * float64(gen)}
		if err := om.WriteGeneration(stats); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []GenerationStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading generations.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (header written once)", len(rows))
	}
	if rows[2].Survivors != 20 || rows[2].Generation != 2 {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func TestOutputManagerFiles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.MustDefaults()); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}

	hof := NewHallOfFame(2)
	hof.Consider(HallEntry{Generation: 1, Fitness: 10})
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Errorf("WriteHallOfFame: %v", err)
	}
	if err := om.WriteBestGenome(HallEntry{Generation: 1, Genome: []uint32{1}}); err != nil {
		t.Errorf("WriteBestGenome: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Generation: 4}); err != nil {
		t.Errorf("WriteBookmark: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf: %v", err)
	}

	snapPath, err := om.WriteSnapshot(&Snapshot{Version: SnapshotVersion, Generation: 7})
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if want := filepath.Join(dir, "snapshots", "snapshot_gen00007.json"); snapPath != want {
		t.Errorf("snapshot path = %s, want %s", snapPath, want)
	}

	for _, name := range []string{"config.yaml", "hall_of_fame.json", "best_genome.json", "generations.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
