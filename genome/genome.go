package genome

import (
	"math/bits"
	"math/rand"
	"strings"
)

// Genome is an ordered, fixed-length sequence of genes.
// Order matters for crossover but not for decoding.
type Genome []Gene

// Random generates a genome of size independent uniform 32-bit genes.
func Random(size int, rng *rand.Rand) Genome {
	g := make(Genome, size)
	for i := range g {
		g[i] = Gene(rng.Uint32())
	}
	return g
}

// Resize returns a copy of g with exactly length genes: extra genes are
// dropped and missing ones are filled with random genes from rng.
func Resize(g Genome, length int, rng *rand.Rand) Genome {
	out := make(Genome, length)
	n := copy(out, g)
	for i := n; i < length; i++ {
		out[i] = Gene(rng.Uint32())
	}
	return out
}

// Mutate returns a copy of g where each of the 32 bits of every gene is
// flipped independently with probability rate.
func Mutate(g Genome, rate float64, rng *rand.Rand) Genome {
	out := make(Genome, len(g))
	for i, gene := range g {
		for bit := 0; bit < 32; bit++ {
			if rng.Float64() < rate {
				gene ^= 1 << bit
			}
		}
		out[i] = gene
	}
	return out
}

// Crossover draws a split point uniformly in [0, len(a)] and returns a's
// prefix followed by b's suffix.
func Crossover(a, b Genome, rng *rand.Rand) Genome {
	return CrossoverAt(a, b, rng.Intn(len(a)+1))
}

// CrossoverAt is Crossover with a fixed split point.
// split=0 yields b entirely, split=len(a) yields a entirely.
func CrossoverAt(a, b Genome, split int) Genome {
	if split < 0 {
		split = 0
	}
	if split > len(a) {
		split = len(a)
	}

	out := make(Genome, 0, len(a))
	out = append(out, a[:split]...)
	if split < len(b) {
		out = append(out, b[split:]...)
	}
	return out
}

// Similarity returns the fraction of equal bit positions across the zipped
// shorter length of a and b. Empty input yields 0.
func Similarity(a, b Genome) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	matching := 0
	for i := 0; i < n; i++ {
		matching += 32 - bits.OnesCount32(uint32(a[i]^b[i]))
	}
	return float64(matching) / float64(32*n)
}

// Clone returns an independent copy of g.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Uint32s exports the genome as raw 32-bit integers.
func (g Genome) Uint32s() []uint32 {
	out := make([]uint32, len(g))
	for i, gene := range g {
		out[i] = uint32(gene)
	}
	return out
}

// FromUint32s builds a genome from raw 32-bit integers.
func FromUint32s(raw []uint32) Genome {
	g := make(Genome, len(raw))
	for i, v := range raw {
		g[i] = Gene(v)
	}
	return g
}

// String returns the genes as space-separated hex.
func (g Genome) String() string {
	parts := make([]string, len(g))
	for i, gene := range g {
		parts[i] = gene.String()
	}
	return strings.Join(parts, " ")
}

// Color is a display color derived from a genome.
type Color struct {
	R, G, B uint8
}

// minChannel keeps derived colors visible on dark backgrounds.
const minChannel = 50

// ColorOf maps a genome to an RGB color so that genetically similar agents
// get similar colors. All genes are XOR-folded into 24 bits.
func ColorOf(g Genome) Color {
	if len(g) == 0 {
		return Color{128, 128, 128}
	}

	var h uint32
	for _, gene := range g {
		h ^= uint32(gene) & 0xFFFFFF
	}

	return Color{
		R: max(minChannel, uint8(h>>16)),
		G: max(minChannel, uint8(h>>8)),
		B: max(minChannel, uint8(h)),
	}
}
