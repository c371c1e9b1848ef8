package components

import (
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
)

// Organism holds an agent's heritable identity.
// It is set once at creation and never changes during a generation.
type Organism struct {
	ID     int // Index into the generation's genome batch
	Genome genome.Genome
	Brain  *neural.Brain
	Color  genome.Color // Display color derived from the genome
}

// NewOrganism compiles the genome's brain and color.
func NewOrganism(id int, g genome.Genome, pools genome.Pools) Organism {
	return Organism{
		ID:     id,
		Genome: g,
		Brain:  neural.Build(g, pools),
		Color:  genome.ColorOf(g),
	}
}
