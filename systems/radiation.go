package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

// Wall identifies a vertical grid edge.
type Wall uint8

const (
	WallWest Wall = iota
	WallEast
)

func (w Wall) String() string {
	if w == WallEast {
		return "east"
	}
	return "west"
}

// RadiationSystem applies the radioactive wall hazard.
// The west wall is hot for the first half of a generation, the east wall
// for the second half. Dose falls off exponentially with distance.
type RadiationSystem struct {
	filter *ecs.Filter2[components.Position, components.Vitals]
	grid   *Grid
	cfg    config.RadiationConfig
	steps  int
}

// NewRadiationSystem creates a radiation system over the world's agents.
func NewRadiationSystem(w *ecs.World, grid *Grid, cfg config.RadiationConfig, stepsPerGen int) *RadiationSystem {
	return &RadiationSystem{
		filter: ecs.NewFilter2[components.Position, components.Vitals](w),
		grid:   grid,
		cfg:    cfg,
		steps:  stepsPerGen,
	}
}

// HotWall returns the radiating wall at the given step.
func (s *RadiationSystem) HotWall(step int) Wall {
	if step < s.steps/2 {
		return WallWest
	}
	return WallEast
}

// DoseAt returns the per-step dose at column x.
func (s *RadiationSystem) DoseAt(x int, wall Wall) float64 {
	return DoseProfile(s.cfg, s.grid.width, x, wall)
}

// DoseProfile returns the per-step dose at column x of a grid width cells
// wide while wall is hot.
func DoseProfile(cfg config.RadiationConfig, width, x int, wall Wall) float64 {
	dist := x
	if wall == WallEast {
		dist = width - 1 - x
	}
	return math.Exp(-cfg.Falloff*float64(dist)) * cfg.DoseScale
}

// Update doses every live agent and removes those over the limit.
// Returns the number of agents that died this step.
func (s *RadiationSystem) Update(step int) int {
	wall := s.HotWall(step)
	deaths := 0

	query := s.filter.Query()
	for query.Next() {
		pos, vit := query.Get()
		if !vit.Alive {
			continue
		}

		vit.Dose += s.DoseAt(pos.X, wall)
		if vit.Dose > s.cfg.MaxDose {
			vit.Kill()
			s.grid.Remove(query.Entity())
			deaths++
		}
	}
	return deaths
}
