package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// smallConfig is the seed=42, 50 agents, 8 genes, 5 x 20 steps east scenario.
func smallConfig() *config.Config {
	cfg := config.MustDefaults()
	cfg.Seed = 42
	cfg.Population.Size = 50
	cfg.Population.Generations = 5
	cfg.Population.StepsPerGen = 20
	cfg.Genome.Length = 8
	cfg.Selection.Mode = config.ModeEast
	return cfg
}

// sameOutcome compares everything except wall time.
func sameOutcome(a, b telemetry.GenerationStats) bool {
	a.ElapsedSec, b.ElapsedSec = 0, 0
	return a == b
}

func TestRunDeterministic(t *testing.T) {
	first := New(smallConfig())
	second := New(smallConfig())

	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, b := first.History(), second.History()
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("history lengths %d, %d; want 5", len(a), len(b))
	}
	for i := range a {
		if !sameOutcome(a[i], b[i]) {
			t.Errorf("generation %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestRunGenerationStats(t *testing.T) {
	s := New(smallConfig())
	report, err := s.RunGeneration(s.InitialBatch())
	if err != nil {
		t.Fatalf("RunGeneration: %v", err)
	}

	st := report.Stats
	if st.Generation != 0 || s.Generation() != 1 {
		t.Errorf("generation = %d, next = %d; want 0, 1", st.Generation, s.Generation())
	}
	if st.Population != 50 || st.Placed != 50 || len(report.Agents) != 50 {
		t.Errorf("population = %d, placed = %d, agents = %d; want 50", st.Population, st.Placed, len(report.Agents))
	}
	if st.Survivors != len(report.Survivors) {
		t.Errorf("Survivors = %d, len(report.Survivors) = %d", st.Survivors, len(report.Survivors))
	}
	if err := report.Grid.Check(); err != nil {
		t.Errorf("grid invariant: %v", err)
	}

	half := report.Grid.Width() / 2
	for _, idx := range report.Survivors {
		a := report.Agents[idx]
		if !a.Alive || a.X < half || !a.Survived {
			t.Errorf("survivor %d at x=%d alive=%v survived=%v", idx, a.X, a.Alive, a.Survived)
		}
	}
	if len(report.Dots()) != st.Alive {
		t.Errorf("Dots = %d, Alive = %d", len(report.Dots()), st.Alive)
	}

	if st.Extinct != (report.Best == nil) {
		t.Errorf("Extinct = %v but Best = %v", st.Extinct, report.Best)
	}
	if report.Best != nil && st.BestConnections != len(report.Best.Connections) {
		t.Errorf("BestConnections = %d, best has %d", st.BestConnections, len(report.Best.Connections))
	}
}

func TestRunGenerationOverCapacity(t *testing.T) {
	cfg := smallConfig()
	cfg.World.Width, cfg.World.Height = 4, 4
	cfg.Population.Size = 20
	cfg.Selection.Mode = config.ModeNone

	s := New(cfg)
	report, err := s.RunGeneration(s.InitialBatch())
	if err != nil {
		t.Fatalf("RunGeneration: %v", err)
	}

	if report.Stats.Placed != 16 {
		t.Errorf("Placed = %d, want 16", report.Stats.Placed)
	}
	for _, a := range report.Agents {
		if !a.Placed && a.Alive {
			t.Errorf("unplaced agent %d is alive", a.ID)
		}
	}
	if err := report.Grid.Check(); err != nil {
		t.Errorf("grid invariant: %v", err)
	}
}

func TestRunGenerationEmptyBatch(t *testing.T) {
	s := New(smallConfig())
	if _, err := s.RunGeneration(nil); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestExtinctionRestartBatchSize(t *testing.T) {
	cfg := smallConfig()
	cfg.Selection.Mode = config.ModeCorners
	cfg.Selection.CornerSize = 0

	s := New(cfg)
	report, err := s.RunGeneration(s.InitialBatch())
	if err != nil {
		t.Fatalf("RunGeneration: %v", err)
	}
	if !report.Stats.Extinct || report.Stats.Survivors != 0 {
		t.Fatalf("expected extinction, got %+v", report.Stats)
	}

	next := s.Reproduce(report.SurvivorGenomes())
	if len(next) != cfg.Population.Size {
		t.Fatalf("restart batch size = %d, want %d", len(next), cfg.Population.Size)
	}
	for i, g := range next {
		if len(g) != cfg.Genome.Length {
			t.Fatalf("genome %d length = %d, want %d", i, len(g), cfg.Genome.Length)
		}
	}
}

func TestRunStopsOnExtinction(t *testing.T) {
	cfg := smallConfig()
	cfg.Selection.Mode = config.ModeCorners
	cfg.Selection.CornerSize = 0
	cfg.Selection.StopOnExtinction = true

	s := New(cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h := s.History(); len(h) != 1 || !h[0].Extinct {
		t.Errorf("history = %+v, want one extinct generation", h)
	}
}

func TestRunRestartsAfterExtinction(t *testing.T) {
	cfg := smallConfig()
	cfg.Selection.Mode = config.ModeCorners
	cfg.Selection.CornerSize = 0

	s := New(cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(s.History()) != cfg.Population.Generations {
		t.Errorf("ran %d generations, want %d", len(s.History()), cfg.Population.Generations)
	}
}

func TestRadiationKillsEveryone(t *testing.T) {
	cfg := smallConfig()
	cfg.Selection.Mode = config.ModeRadioactive
	cfg.Radiation.DoseScale = 10
	cfg.Radiation.Falloff = 0
	cfg.Radiation.MaxDose = 1

	s := New(cfg)
	report, err := s.RunGeneration(s.InitialBatch())
	if err != nil {
		t.Fatalf("RunGeneration: %v", err)
	}

	if report.Stats.RadiationDeaths != cfg.Population.Size {
		t.Errorf("RadiationDeaths = %d, want %d", report.Stats.RadiationDeaths, cfg.Population.Size)
	}
	if !report.Stats.Extinct || report.Stats.Alive != 0 {
		t.Errorf("stats = %+v, want extinct with nobody alive", report.Stats)
	}
	if len(report.Grid.Agents()) != 0 {
		t.Errorf("%d agents left on the grid", len(report.Grid.Agents()))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(smallConfig())
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if len(s.History()) != 0 {
		t.Errorf("ran %d generations after cancel", len(s.History()))
	}
}

func TestRunCancelledBetweenGenerations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	stopAfterTwo := ObserverFunc(func(context.Context, *Report) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return nil
	})

	s := New(smallConfig(), WithObserver(stopAfterTwo))
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if len(s.History()) != 2 {
		t.Errorf("ran %d generations, want 2", len(s.History()))
	}
}

func TestObserverErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	failing := ObserverFunc(func(_ context.Context, r *Report) error {
		if r.Generation == 1 {
			return boom
		}
		return nil
	})

	s := New(smallConfig(), WithObserver(failing))
	err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want wrapped boom", err)
	}
	if len(s.History()) != 2 {
		t.Errorf("history = %d, want 2", len(s.History()))
	}
}

func TestObserversRunInOrder(t *testing.T) {
	var order []int
	record := func(n int) Observer {
		return ObserverFunc(func(context.Context, *Report) error {
			order = append(order, n)
			return nil
		})
	}

	cfg := smallConfig()
	cfg.Population.Generations = 2
	s := New(cfg, WithObserver(record(1), record(2)), WithObserver(record(3)))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []int{1, 2, 3, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("calls = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("calls = %v, want %v", order, want)
		}
	}
}

func TestSeedZeroIsResolved(t *testing.T) {
	cfg := smallConfig()
	cfg.Seed = 0
	if s := New(cfg); s.Seed() == 0 {
		t.Error("Seed() = 0 for a time-based seed")
	}
	if s := New(smallConfig()); s.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", s.Seed())
	}
}

func TestInitialGenomesResized(t *testing.T) {
	seed := []genome.Genome{{1, 2, 3, 4, 5, 6, 7, 8}, {8, 7, 6, 5, 4, 3, 2, 1}}
	s := New(smallConfig(), WithInitialGenomes(seed))

	batch := s.InitialBatch()
	if len(batch) != 50 {
		t.Fatalf("batch size = %d, want 50", len(batch))
	}
	for i, g := range batch {
		if len(g) != 8 {
			t.Fatalf("genome %d has %d genes, want 8", i, len(g))
		}
	}
	if genome.Similarity(batch[0], seed[0]) != 1 || genome.Similarity(batch[1], seed[1]) != 1 {
		t.Error("seed genomes not at the front of the batch")
	}

	// The batch is a copy
	batch[0][0] = 99
	if seed[0][0] != 1 {
		t.Error("InitialBatch aliases the seed genomes")
	}
}

func TestSeedGenomesMatchGenomeLength(t *testing.T) {
	long := genome.Random(16, rand.New(rand.NewSource(1)))
	short := genome.Genome{1, 2, 3}
	s := New(smallConfig(), WithInitialGenomes([]genome.Genome{long, short}))

	batch := s.InitialBatch()
	for i, g := range batch {
		if len(g) != 8 {
			t.Fatalf("initial genome %d has %d genes, want 8", i, len(g))
		}
	}
	for i := 0; i < 8; i++ {
		if batch[0][i] != long[i] {
			t.Fatalf("truncated seed gene %d = %s, want %s", i, batch[0][i], long[i])
		}
	}
	for i := 0; i < 3; i++ {
		if batch[1][i] != short[i] {
			t.Fatalf("padded seed gene %d = %s, want %s", i, batch[1][i], short[i])
		}
	}

	lengths := ObserverFunc(func(_ context.Context, r *Report) error {
		for _, a := range r.Agents {
			if len(a.Genome) != 8 {
				t.Errorf("generation %d: agent %d has %d genes, want 8", r.Generation, a.ID, len(a.Genome))
				return errors.New("genome length changed")
			}
		}
		return nil
	})
	s = New(smallConfig(), WithInitialGenomes([]genome.Genome{long, short}), WithObserver(lengths))
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
