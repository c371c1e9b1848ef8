package main

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/sim"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// Fitness weights.
const (
	// extinctionWeight is the penalty per percent of generations that ended
	// extinct.
	extinctionWeight = 0.5

	// trendWindow is the number of generations averaged at each end of a run.
	trendWindow = 10

	hallOfFameSize = 10
)

// FitnessEvaluator runs headless simulations and computes fitness.
// Lower fitness is better.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// challenge is the highest acceptable first-generation survival
	// percentage; easier settings are penalized by the excess.
	challenge float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastGain       float64 // survival gain from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config, challenge float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		challenge:   challenge,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastGain returns the mean survival gain from the most recent evaluation.
func (fe *FitnessEvaluator) LastGain() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastGain
}

// runResult holds the results from a single simulation run.
type runResult struct {
	history    []telemetry.GenerationStats
	hallOfFame *telemetry.HallOfFame
	err        error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	gain       float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run concurrently, one simulation per goroutine.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			if result.err != nil {
				results[idx] = seedResult{fitness: math.Inf(1)}
				return
			}
			results[idx] = seedResult{
				fitness:    fe.computeFitness(result.history),
				gain:       survivalGain(result.history),
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalGain float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalGain += r.gain
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastGain = totalGain / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Seed = seed
	cfg.Population.Generations = fe.generations

	result := &runResult{hallOfFame: telemetry.NewHallOfFame(hallOfFameSize)}
	hall := sim.ObserverFunc(func(_ context.Context, r *sim.Report) error {
		if entry, ok := r.BestEntry(); ok {
			result.hallOfFame.Consider(entry)
		}
		return nil
	})

	s := sim.New(cfg, sim.WithObserver(hall))
	result.err = s.Run(context.Background())
	result.history = s.History()
	return result
}

// copyConfig creates a copy of the base config. Config holds only value
// fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -gain + max(0, initial - challenge) + extinctionWeight × extinct%
// Gain rewards settings under which selection actually improves survival;
// the challenge term keeps the hazard from being tuned away.
func (fe *FitnessEvaluator) computeFitness(history []telemetry.GenerationStats) float64 {
	if len(history) == 0 {
		return math.Inf(1)
	}

	initial := history[0].SurvivalPct
	penalty := math.Max(0, initial-fe.challenge)

	extinct := 0
	for _, s := range history {
		if s.Extinct {
			extinct++
		}
	}
	extinctPct := 100 * float64(extinct) / float64(len(history))

	return -survivalGain(history) + penalty + extinctionWeight*extinctPct
}

// survivalGain is the mean survival of the last trendWindow generations
// minus that of the first.
func survivalGain(history []telemetry.GenerationStats) float64 {
	n := len(history)
	if n < 2 {
		return 0
	}
	k := min(trendWindow, max(1, n/4))

	survival := make([]float64, n)
	for i, s := range history {
		survival[i] = s.SurvivalPct
	}
	return stat.Mean(survival[n-k:], nil) - stat.Mean(survival[:k], nil)
}
