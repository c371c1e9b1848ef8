package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.World.Width != 128 || cfg.World.Height != 128 {
		t.Errorf("world = %dx%d, want 128x128", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Population.Size != 1000 {
		t.Errorf("population.size = %d, want 1000", cfg.Population.Size)
	}
	if cfg.Genome.Length != 16 || cfg.Genome.Internal != 4 {
		t.Errorf("genome = %+v", cfg.Genome)
	}
	if cfg.Behavior.ActionThreshold != 0.1 {
		t.Errorf("action_threshold = %v, want 0.1", cfg.Behavior.ActionThreshold)
	}
	if cfg.Selection.Mode != ModeEast {
		t.Errorf("selection.mode = %q, want %q", cfg.Selection.Mode, ModeEast)
	}
	if cfg.Diversity.SampleSize != 50 {
		t.Errorf("diversity.sample_size = %d, want 50", cfg.Diversity.SampleSize)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	overlay := "population:\n  size: 50\nselection:\n  mode: corners\n  corner_size: 0\nseed: 42\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Population.Size != 50 || cfg.Seed != 42 {
		t.Errorf("overlay not applied: size=%d seed=%d", cfg.Population.Size, cfg.Seed)
	}
	if cfg.Selection.Mode != ModeCorners || cfg.Selection.CornerSize != 0 {
		t.Errorf("selection = %+v", cfg.Selection)
	}
	// Fields absent from the overlay keep their defaults
	if cfg.Population.StepsPerGen != 300 || cfg.Selection.StripWidth != 32 {
		t.Errorf("defaults lost: steps=%d strip=%d", cfg.Population.StepsPerGen, cfg.Selection.StripWidth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := MustDefaults()
	cfg.World.Width = 0
	cfg.Genome.MutationRate = 2
	cfg.Selection.Mode = "north"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"world.width", "mutation_rate", "north"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := MustDefaults()
	cfg.Seed = 7
	cfg.Selection.Mode = ModeRadioactive

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *back != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, cfg)
	}
}
