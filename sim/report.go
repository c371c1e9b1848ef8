package sim

import (
	"fmt"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/systems"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// Agent is an immutable end-of-generation view of one agent.
type Agent struct {
	ID       int // Index into the generation's genome batch
	X, Y     int
	Heading  components.Heading
	Alive    bool
	Placed   bool // False if the grid had no room for it
	Survived bool
	Age      int
	Dose     float64

	Color       genome.Color
	Genome      genome.Genome
	Connections []neural.Connection // Pruned brain wiring, genome order
}

func newAgent(pos components.Position, head components.Heading, vit components.Vitals, org *components.Organism, placed bool) Agent {
	return Agent{
		ID:          org.ID,
		X:           pos.X,
		Y:           pos.Y,
		Heading:     head,
		Alive:       vit.Alive,
		Placed:      placed,
		Age:         vit.Age,
		Dose:        vit.Dose,
		Color:       org.Color,
		Genome:      org.Genome,
		Connections: org.Brain.Connections(),
	}
}

// Wiring returns the agent's connection labels with weights.
func (a *Agent) Wiring() []string {
	out := make([]string, len(a.Connections))
	for i, c := range a.Connections {
		out[i] = fmt.Sprintf("%s w=%+.3f", c.Label(), c.Weight)
	}
	return out
}

// HallEntry converts the agent into a hall of fame record.
func (a *Agent) HallEntry(generation int, fitness float64) telemetry.HallEntry {
	return telemetry.HallEntry{
		Generation:  generation,
		Fitness:     fitness,
		Connections: len(a.Connections),
		Genome:      a.Genome.Uint32s(),
		Wiring:      a.Wiring(),
	}
}

// State converts the agent into its snapshot form.
func (a *Agent) State() telemetry.AgentState {
	return telemetry.AgentState{
		ID:       a.ID,
		X:        a.X,
		Y:        a.Y,
		Heading:  a.Heading.Dir,
		Alive:    a.Alive,
		Placed:   a.Placed,
		Survived: a.Survived,
		Dose:     a.Dose,
		Genome:   a.Genome.Uint32s(),
	}
}

// Report is the payload handed to observers after each generation.
// The grid is read-only; it belongs to a finished generation.
type Report struct {
	Generation int
	Stats      telemetry.GenerationStats
	Grid       *systems.Grid
	Agents     []Agent
	Survivors  []int  // Indices into Agents
	Best       *Agent // Survivor with the most active connections, nil on extinction
}

// SurvivorGenomes returns the survivors' genomes in agent order.
func (r *Report) SurvivorGenomes() []genome.Genome {
	out := make([]genome.Genome, len(r.Survivors))
	for i, idx := range r.Survivors {
		out[i] = r.Agents[idx].Genome
	}
	return out
}

// Dots returns the position and color of every live agent.
func (r *Report) Dots() []telemetry.Dot {
	dots := make([]telemetry.Dot, 0, r.Stats.Alive)
	for i := range r.Agents {
		a := &r.Agents[i]
		if !a.Alive {
			continue
		}
		dots = append(dots, telemetry.Dot{X: a.X, Y: a.Y, R: a.Color.R, G: a.Color.G, B: a.Color.B})
	}
	return dots
}

// BestEntry returns the best survivor as a hall of fame record.
// ok is false on extinction.
func (r *Report) BestEntry() (entry telemetry.HallEntry, ok bool) {
	if r.Best == nil {
		return telemetry.HallEntry{}, false
	}
	return r.Best.HallEntry(r.Generation, r.Stats.SurvivalPct), true
}
