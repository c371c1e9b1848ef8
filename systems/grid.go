// Package systems provides ECS systems for the simulation.
package systems

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
)

// Grid is the bounded occupancy map for one generation.
// Cells hold entity handles into the ECS world; the world owns the agents.
// At most one agent occupies a cell, and an agent's Position always
// matches the cell that references it.
type Grid struct {
	width, height int
	cells         []ecs.Entity // row-major, zero entity = empty
	agents        []ecs.Entity // currently placed, in placement order
	kills         int

	posMap  *ecs.Map1[components.Position]
	headMap *ecs.Map1[components.Heading]
	vitMap  *ecs.Map1[components.Vitals]
	orgMap  *ecs.Map1[components.Organism]
}

// NewGrid creates an empty grid over the given world.
func NewGrid(w *ecs.World, width, height int) *Grid {
	return &Grid{
		width:   width,
		height:  height,
		cells:   make([]ecs.Entity, width*height),
		agents:  make([]ecs.Entity, 0, width*height),
		posMap:  ecs.NewMap1[components.Position](w),
		headMap: ecs.NewMap1[components.Heading](w),
		vitMap:  ecs.NewMap1[components.Vitals](w),
		orgMap:  ecs.NewMap1[components.Organism](w),
	}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Kills returns the number of agents killed by other agents this generation.
func (g *Grid) Kills() int { return g.kills }

// Agents returns the entities currently placed on the grid.
// The slice is owned by the grid.
func (g *Grid) Agents() []ecs.Entity { return g.agents }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Occupant returns the agent at (x, y). ok is false for empty or
// out-of-bounds cells.
func (g *Grid) Occupant(x, y int) (e ecs.Entity, ok bool) {
	if !g.InBounds(x, y) {
		return ecs.Entity{}, false
	}
	e = g.cells[g.index(x, y)]
	return e, !e.IsZero()
}

func (g *Grid) occupied(x, y int) bool {
	return g.InBounds(x, y) && !g.cells[g.index(x, y)].IsZero()
}

// Place puts an agent on the cell named by its Position.
// Returns false if the cell is out of bounds or occupied.
func (g *Grid) Place(e ecs.Entity) bool {
	pos := g.posMap.Get(e)
	if !g.InBounds(pos.X, pos.Y) || g.occupied(pos.X, pos.Y) {
		return false
	}
	g.cells[g.index(pos.X, pos.Y)] = e
	g.agents = append(g.agents, e)
	return true
}

// Remove takes an agent off the grid. No-op if it is not placed.
func (g *Grid) Remove(e ecs.Entity) {
	pos := g.posMap.Get(e)
	if !g.InBounds(pos.X, pos.Y) {
		return
	}
	idx := g.index(pos.X, pos.Y)
	if g.cells[idx] != e {
		return
	}
	g.cells[idx] = ecs.Entity{}
	if i := slices.Index(g.agents, e); i >= 0 {
		g.agents = slices.Delete(g.agents, i, i+1)
	}
}

// Clear empties every cell and resets the kill counter.
func (g *Grid) Clear() {
	clear(g.cells)
	g.agents = g.agents[:0]
	g.kills = 0
}

// Populate clears the grid and scatters entities over a random permutation
// of all cells. Entities beyond grid capacity are not placed.
// Returns the number placed; those are entities[:n].
func (g *Grid) Populate(entities []ecs.Entity, rng *rand.Rand) int {
	g.Clear()

	perm := rng.Perm(len(g.cells))
	n := min(len(entities), len(perm))
	for i := 0; i < n; i++ {
		idx := perm[i]
		e := entities[i]
		pos := g.posMap.Get(e)
		pos.X, pos.Y = idx%g.width, idx/g.width
		g.cells[idx] = e
		g.agents = append(g.agents, e)
	}
	return n
}

// Move steps an agent by (dx, dy), clamped at the walls.
// Fails without changing state if the clamped target is the current cell
// or is occupied. On success the heading follows the sign of (dx, dy).
func (g *Grid) Move(e ecs.Entity, dx, dy int) bool {
	pos := g.posMap.Get(e)
	nx := clamp(pos.X+dx, 0, g.width-1)
	ny := clamp(pos.Y+dy, 0, g.height-1)

	if nx == pos.X && ny == pos.Y {
		return false // wall
	}
	if g.occupied(nx, ny) {
		return false
	}

	g.cells[g.index(pos.X, pos.Y)] = ecs.Entity{}
	pos.X, pos.Y = nx, ny
	g.cells[g.index(nx, ny)] = e

	if h, ok := components.HeadingFor(dx, dy); ok {
		*g.headMap.Get(e) = h
	}
	return true
}

// KillAt kills the live agent at (x, y) and counts it.
// No-op for out-of-bounds or empty cells.
func (g *Grid) KillAt(x, y int) {
	victim, ok := g.Occupant(x, y)
	if !ok {
		return
	}
	vit := g.vitMap.Get(victim)
	if !vit.Alive {
		return
	}
	vit.Kill()
	g.Remove(victim)
	g.kills++
}

// Density counts occupied cells in the square of the given radius around
// (cx, cy), excluding the center.
func (g *Grid) Density(cx, cy, radius int) int {
	count := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.occupied(cx+dx, cy+dy) {
				count++
			}
		}
	}
	return count
}

// ForwardGradient counts occupied cells on a line of reach cells ahead of
// (cx, cy) along h, minus those behind, divided by reach.
func (g *Grid) ForwardGradient(cx, cy int, h components.Heading, reach int) float64 {
	if reach <= 0 {
		return 0
	}
	dx, dy := h.Step()
	fwd, bwd := 0, 0
	for s := 1; s <= reach; s++ {
		if g.occupied(cx+dx*s, cy+dy*s) {
			fwd++
		}
		if g.occupied(cx-dx*s, cy-dy*s) {
			bwd++
		}
	}
	return float64(fwd-bwd) / float64(reach)
}

// Check verifies the two-way occupancy invariant.
func (g *Grid) Check() error {
	seen := 0
	for idx, e := range g.cells {
		if e.IsZero() {
			continue
		}
		seen++
		pos := g.posMap.Get(e)
		if g.index(pos.X, pos.Y) != idx {
			return fmt.Errorf("cell (%d,%d) holds agent at (%d,%d)", idx%g.width, idx/g.width, pos.X, pos.Y)
		}
	}
	if seen != len(g.agents) {
		return fmt.Errorf("%d occupied cells but %d placed agents", seen, len(g.agents))
	}
	for _, e := range g.agents {
		pos := g.posMap.Get(e)
		if !g.InBounds(pos.X, pos.Y) || g.cells[g.index(pos.X, pos.Y)] != e {
			return fmt.Errorf("placed agent at (%d,%d) is not referenced by its cell", pos.X, pos.Y)
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
