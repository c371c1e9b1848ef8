package sim

import (
	"gonum.org/v1/gonum/stat"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
)

// Reproduce breeds exactly population genomes from survivors.
// Each child takes two parents drawn uniformly with replacement, crosses
// them over and mutates the result. With no survivors the next batch is
// entirely random.
func (s *Simulation) Reproduce(survivors []genome.Genome) []genome.Genome {
	size := s.cfg.Population.Size
	if len(survivors) == 0 {
		return s.RandomBatch()
	}

	rate := s.cfg.Genome.MutationRate
	next := make([]genome.Genome, size)
	for i := range next {
		a := survivors[s.rng.Intn(len(survivors))]
		b := survivors[s.rng.Intn(len(survivors))]
		next[i] = genome.Mutate(genome.Crossover(a, b, s.rng), rate, s.rng)
	}
	return next
}

// RandomBatch returns population fresh random genomes.
func (s *Simulation) RandomBatch() []genome.Genome {
	batch := make([]genome.Genome, s.cfg.Population.Size)
	for i := range batch {
		batch[i] = genome.Random(s.cfg.Genome.Length, s.rng)
	}
	return batch
}

// Diversity is the mean pairwise dissimilarity (1 - similarity) over a
// sample of at most diversity.sample_size genomes drawn without
// replacement. Returns 0 for fewer than two genomes.
func (s *Simulation) Diversity(genomes []genome.Genome) float64 {
	if len(genomes) < 2 {
		return 0
	}

	n := min(len(genomes), max(2, s.cfg.Diversity.SampleSize))
	sample := make([]genome.Genome, n)
	for i, idx := range s.rng.Perm(len(genomes))[:n] {
		sample[i] = genomes[idx]
	}

	dissim := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dissim = append(dissim, 1-genome.Similarity(sample[i], sample[j]))
		}
	}
	return stat.Mean(dissim, nil)
}
