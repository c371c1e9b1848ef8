// Package sim drives evolution: it runs generations on the grid, applies
// selection and breeds the next genome batch.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/systems"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// Simulation is the generation controller.
// All randomness flows through one seeded source, so a fixed seed
// reproduces a run exactly. Not safe for concurrent use.
type Simulation struct {
	cfg   *config.Config
	rng   *rand.Rand
	seed  int64
	pools genome.Pools

	behavior systems.BehaviorOptions
	survive  systems.SurvivalPredicate

	observers Observers
	perf      *telemetry.PerfCollector
	initial   []genome.Genome

	generation int
	history    []telemetry.GenerationStats
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithObserver registers observers called after every generation.
func WithObserver(obs ...Observer) Option {
	return func(s *Simulation) {
		s.observers = append(s.observers, obs...)
	}
}

// WithInitialGenomes seeds generation 0 instead of a random batch.
// The batch is resized to the population: short batches are filled with
// random genomes, long ones truncated.
func WithInitialGenomes(genomes []genome.Genome) Option {
	return func(s *Simulation) {
		s.initial = genomes
	}
}

// WithPerfCollector replaces the default phase timer.
func WithPerfCollector(p *telemetry.PerfCollector) Option {
	return func(s *Simulation) {
		s.perf = p
	}
}

// New creates a simulation for cfg. The config is not copied and must not
// change while the simulation runs. A zero seed is replaced by a
// time-derived one, available from Seed.
func New(cfg *config.Config, opts ...Option) *Simulation {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
		pools:    neural.Pools(cfg.Genome.Internal),
		behavior: systems.BehaviorOptionsFrom(cfg),
		survive:  systems.NewSurvivalPredicate(cfg.Selection, cfg.World.Width, cfg.World.Height),
		perf:     telemetry.NewPerfCollector(60),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the seed the random source was created with.
func (s *Simulation) Seed() int64 { return s.seed }

// Config returns the simulation's configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Generation returns the index of the next generation to run.
func (s *Simulation) Generation() int { return s.generation }

// History returns the stats of every completed generation.
func (s *Simulation) History() []telemetry.GenerationStats { return s.history }

// Perf returns the phase timer.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// InitialBatch returns the genomes for generation 0. Seed genomes come
// first, resized to the configured genome length; the rest are random.
func (s *Simulation) InitialBatch() []genome.Genome {
	size := s.cfg.Population.Size
	batch := make([]genome.Genome, 0, size)
	for _, g := range s.initial {
		if len(batch) == size {
			break
		}
		batch = append(batch, genome.Resize(g, s.cfg.Genome.Length, s.rng))
	}
	for len(batch) < size {
		batch = append(batch, genome.Random(s.cfg.Genome.Length, s.rng))
	}
	return batch
}

// RunGeneration runs one generation over genomes: place agents, step them,
// apply selection and compute stats. The generation counter advances.
func (s *Simulation) RunGeneration(genomes []genome.Genome) (*Report, error) {
	if len(genomes) == 0 {
		return nil, errors.New("empty genome batch")
	}

	start := time.Now()

	world := ecs.NewWorld()
	mapper := ecs.NewMap4[
		components.Position,
		components.Heading,
		components.Vitals,
		components.Organism,
	](world)
	grid := systems.NewGrid(world, s.cfg.World.Width, s.cfg.World.Height)
	behavior := systems.NewBehaviorSystem(grid, s.rng, s.behavior)

	var radiation *systems.RadiationSystem
	if s.cfg.Selection.Mode == config.ModeRadioactive {
		radiation = systems.NewRadiationSystem(world, grid, s.cfg.Radiation, s.cfg.Population.StepsPerGen)
	}

	// Instantiate and place
	s.perf.StartPhase(telemetry.PhasePopulate)
	entities := make([]ecs.Entity, len(genomes))
	for i, g := range genomes {
		pos := components.Position{}
		head := components.Heading{}
		vit := components.Vitals{Alive: true}
		org := components.NewOrganism(i, g, s.pools)
		entities[i] = mapper.NewEntity(&pos, &head, &vit, &org)
	}

	placed := grid.Populate(entities, s.rng)
	for _, e := range entities[placed:] {
		_, _, vit, _ := mapper.Get(e)
		vit.Kill()
	}

	// Step loop
	radiationDeaths := 0
	for step := 0; step < s.cfg.Population.StepsPerGen; step++ {
		if radiation != nil {
			s.perf.StartPhase(telemetry.PhaseRadiation)
			radiationDeaths += radiation.Update(step)
		}

		s.perf.StartPhase(telemetry.PhaseAgents)
		for _, idx := range s.rng.Perm(len(entities)) {
			behavior.Step(entities[idx])
		}
	}

	// Selection
	s.perf.StartPhase(telemetry.PhaseSelection)
	agents := make([]Agent, len(entities))
	var survivors []int
	for i, e := range entities {
		pos, head, vit, org := mapper.Get(e)
		agents[i] = newAgent(*pos, *head, *vit, org, i < placed)
		if vit.Alive && s.survive(*pos) {
			agents[i].Survived = true
			survivors = append(survivors, i)
		}
	}

	s.perf.StartPhase(telemetry.PhaseStats)
	report := &Report{
		Generation: s.generation,
		Grid:       grid,
		Agents:     agents,
		Survivors:  survivors,
	}
	report.Stats = s.computeStats(report, placed, grid.Kills(), radiationDeaths)
	report.Stats.ElapsedSec = time.Since(start).Seconds()

	s.generation++
	return report, nil
}

func (s *Simulation) computeStats(r *Report, placed, kills, radiationDeaths int) telemetry.GenerationStats {
	stats := telemetry.GenerationStats{
		Generation:      r.Generation,
		Population:      len(r.Agents),
		Survivors:       len(r.Survivors),
		Placed:          placed,
		Kills:           kills,
		RadiationDeaths: radiationDeaths,
		Extinct:         len(r.Survivors) == 0,
	}
	stats.SurvivalPct = 100 * float64(stats.Survivors) / float64(max(1, stats.Population))

	var sumAge, sumDose, sumConns float64
	for i := range r.Agents {
		a := &r.Agents[i]
		sumConns += float64(len(a.Connections))
		if !a.Alive {
			continue
		}
		stats.Alive++
		sumAge += float64(a.Age)
		sumDose += a.Dose
	}
	stats.MeanConnections = sumConns / float64(max(1, len(r.Agents)))
	if stats.Alive > 0 {
		stats.MeanAge = sumAge / float64(stats.Alive)
		stats.MeanDose = sumDose / float64(stats.Alive)
	}

	// Best survivor: most active connections, earliest index on ties
	best := -1
	for _, idx := range r.Survivors {
		if best < 0 || len(r.Agents[idx].Connections) > len(r.Agents[best].Connections) {
			best = idx
		}
	}
	if best >= 0 {
		r.Best = &r.Agents[best]
		stats.BestConnections = len(r.Best.Connections)
	}

	stats.Diversity = s.Diversity(r.SurvivorGenomes())
	return stats
}

// Run evolves the population for the configured number of generations.
// ctx is checked between generations; cancellation returns ctx.Err().
// Extinction restarts from a random batch unless stop_on_extinction is set.
func (s *Simulation) Run(ctx context.Context) error {
	genomes := s.InitialBatch()

	for s.generation < s.cfg.Population.Generations {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.perf.StartGeneration()
		report, err := s.RunGeneration(genomes)
		if err != nil {
			return fmt.Errorf("generation %d: %w", s.generation, err)
		}
		s.history = append(s.history, report.Stats)

		s.perf.StartPhase(telemetry.PhaseObservers)
		if err := s.observers.OnGeneration(ctx, report); err != nil {
			return fmt.Errorf("generation %d observer: %w", report.Generation, err)
		}

		if report.Stats.Extinct && s.cfg.Selection.StopOnExtinction {
			s.perf.EndGeneration()
			return nil
		}

		s.perf.StartPhase(telemetry.PhaseReproduce)
		genomes = s.Reproduce(report.SurvivorGenomes())
		s.perf.EndGeneration()
	}
	return nil
}
