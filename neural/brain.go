package neural

import (
	"fmt"
	"math"
	"strings"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
)

// NumSensors is the length of the sensor vector fed to every brain.
const NumSensors = 14

// NumActions is the length of the action vector produced by every brain.
const NumActions = 8

// propagationSteps is how many times internal activations are recomputed
// per forward pass. Two steps let a two-hop internal chain reach full effect.
const propagationSteps = 2

// Connection is a decoded, weighted edge of a brain.
type Connection struct {
	genome.Fields
}

// Label returns a compact "S03 → A00" form of the connection endpoints.
func (c Connection) Label() string {
	src := "S"
	if c.SourceKind == genome.SourceInternal {
		src = "I"
	}
	snk := "I"
	if c.SinkKind == genome.SinkAction {
		snk = "A"
	}
	return fmt.Sprintf("%s%02d → %s%02d", src, c.SourceID, snk, c.SinkID)
}

// Brain is the network compiled from one genome.
// It is built once and owns its activation state; it is not safe for
// concurrent Forward calls.
type Brain struct {
	pools       genome.Pools
	connections []Connection // pruned, genome order

	toInternal []Connection
	toAction   []Connection

	internal []float64
	scratch  []float64
	actions  []float64
}

// Pools returns sensor/internal/action pool sizes for a given internal count.
func Pools(internal int) genome.Pools {
	return genome.Pools{Sensors: NumSensors, Internal: internal, Actions: NumActions}
}

// Build decodes every gene of g and prunes connections that cannot reach
// any action neuron.
func Build(g genome.Genome, pools genome.Pools) *Brain {
	decoded := make([]Connection, len(g))
	for i, gene := range g {
		decoded[i] = Connection{genome.Decode(gene, pools)}
	}

	nInternal := max(1, pools.Internal)
	b := &Brain{
		pools:       pools,
		connections: Prune(decoded, nInternal),
		internal:    make([]float64, nInternal),
		scratch:     make([]float64, nInternal),
		actions:     make([]float64, max(1, pools.Actions)),
	}

	for _, c := range b.connections {
		if c.SinkKind == genome.SinkAction {
			b.toAction = append(b.toAction, c)
		} else {
			b.toInternal = append(b.toInternal, c)
		}
	}

	return b
}

// Prune keeps every connection with an action sink, and an internal-sink
// connection only if its sink is useful. An internal neuron is useful if it
// feeds an action directly or feeds another useful internal neuron.
// Usefulness is computed as a backward worklist fixpoint.
func Prune(conns []Connection, nInternal int) []Connection {
	// feeders[i] lists internal neurons with a connection into internal i
	feeders := make([][]int, nInternal)
	useful := make([]bool, nInternal)
	queue := make([]int, 0, nInternal)

	for _, c := range conns {
		if c.SourceKind != genome.SourceInternal {
			continue
		}
		if c.SinkKind == genome.SinkAction {
			if !useful[c.SourceID] {
				useful[c.SourceID] = true
				queue = append(queue, c.SourceID)
			}
		} else {
			feeders[c.SinkID] = append(feeders[c.SinkID], c.SourceID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, src := range feeders[id] {
			if !useful[src] {
				useful[src] = true
				queue = append(queue, src)
			}
		}
	}

	kept := make([]Connection, 0, len(conns))
	for _, c := range conns {
		if c.SinkKind == genome.SinkAction || useful[c.SinkID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// Forward runs one pass from a sensor vector to the action vector.
// The returned slice is owned by the brain and valid until the next call.
func (b *Brain) Forward(sensors []float64) []float64 {
	clear(b.internal)
	clear(b.actions)

	for step := 0; step < propagationSteps; step++ {
		clear(b.scratch)
		for _, c := range b.toInternal {
			b.scratch[c.SinkID] += b.source(c, sensors) * c.Weight
		}
		for i, v := range b.scratch {
			b.internal[i] = math.Tanh(v)
		}
	}

	for _, c := range b.toAction {
		b.actions[c.SinkID] += b.source(c, sensors) * c.Weight
	}
	for i, v := range b.actions {
		b.actions[i] = math.Tanh(v)
	}

	return b.actions
}

// source reads a connection's input: a sensor value or the current
// internal activation.
func (b *Brain) source(c Connection, sensors []float64) float64 {
	if c.SourceKind == genome.SourceSensor {
		if c.SourceID < len(sensors) {
			return sensors[c.SourceID]
		}
		return 0
	}
	return b.internal[c.SourceID]
}

// Connections returns the pruned connection list in genome order.
func (b *Brain) Connections() []Connection {
	return b.connections
}

// ConnectionCount returns the number of active connections.
func (b *Brain) ConnectionCount() int {
	return len(b.connections)
}

// Pools returns the pool sizes the brain was built with.
func (b *Brain) Pools() genome.Pools {
	return b.pools
}

// Summary renders the active wiring as text, one connection per line.
func (b *Brain) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Brain (%d active connections)", len(b.connections))
	for _, c := range b.connections {
		fmt.Fprintf(&sb, "\n  %s  w=%+.3f", c.Label(), c.Weight)
	}
	return sb.String()
}
