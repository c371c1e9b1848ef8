package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
)

// BehaviorOptions holds the per-run knobs of the sense/act cycle.
type BehaviorOptions struct {
	ActionThreshold  float64
	KillEnabled      bool
	StepsPerGen      int
	OscillatorPeriod float64
	DensityRadius    int
	GradientReach    int
}

// BehaviorOptionsFrom extracts behavior options from a config.
func BehaviorOptionsFrom(cfg *config.Config) BehaviorOptions {
	return BehaviorOptions{
		ActionThreshold:  cfg.Behavior.ActionThreshold,
		KillEnabled:      cfg.Behavior.KillEnabled,
		StepsPerGen:      cfg.Population.StepsPerGen,
		OscillatorPeriod: cfg.Behavior.OscillatorPeriod,
		DensityRadius:    cfg.Behavior.DensityRadius,
		GradientReach:    cfg.Behavior.GradientReach,
	}
}

// BehaviorSystem runs the sense/decide/act cycle of one agent at a time.
type BehaviorSystem struct {
	grid *Grid
	rng  *rand.Rand
	opts BehaviorOptions

	sensors Sensors // reused every step
}

// NewBehaviorSystem creates a behavior system acting on grid.
// rng is the simulation's single random source.
func NewBehaviorSystem(grid *Grid, rng *rand.Rand, opts BehaviorOptions) *BehaviorSystem {
	if opts.OscillatorPeriod <= 0 {
		opts.OscillatorPeriod = 30
	}
	return &BehaviorSystem{grid: grid, rng: rng, opts: opts}
}

// Step runs one sense/think/act cycle. No-op for dead agents.
func (s *BehaviorSystem) Step(e ecs.Entity) {
	vit := s.grid.vitMap.Get(e)
	if !vit.Alive {
		return
	}
	vit.Age++

	s.Sense(e, &s.sensors)
	brain := s.grid.orgMap.Get(e).Brain
	actions := brain.Forward(s.sensors[:])

	if best, ok := SelectAction(actions, s.opts.ActionThreshold); ok {
		s.execute(e, best, actions[best])
	}
}

// SelectAction returns the index of the largest |activation| above threshold.
// An exact tie keeps the earlier index. ok is false if nothing clears the
// threshold.
func SelectAction(actions []float64, threshold float64) (best int, ok bool) {
	best = -1
	bestVal := threshold
	for i, v := range actions {
		if a := math.Abs(v); a > bestVal {
			bestVal = a
			best = i
		}
	}
	return best, best >= 0
}

func (s *BehaviorSystem) execute(e ecs.Entity, action int, strength float64) {
	g := s.grid
	head := g.headMap.Get(e)

	switch action {
	case neural.ActionMoveX:
		g.Move(e, signOf(strength), 0)

	case neural.ActionMoveY:
		g.Move(e, 0, signOf(strength))

	case neural.ActionMoveRandom:
		d := components.Heading{Dir: uint8(s.rng.Intn(components.NumDirections))}
		dx, dy := d.Step()
		if g.Move(e, dx, dy) {
			*head = d
		}

	case neural.ActionMoveForward:
		dx, dy := head.Step()
		g.Move(e, dx, dy)

	case neural.ActionTurnLeft:
		s.turnAndMove(e, head, -1)

	case neural.ActionTurnRight:
		s.turnAndMove(e, head, 1)

	case neural.ActionReverse:
		s.turnAndMove(e, head, 4)

	case neural.ActionNoopOrKill:
		if s.opts.KillEnabled {
			pos := g.posMap.Get(e)
			dx, dy := head.Step()
			g.KillAt(pos.X+dx, pos.Y+dy)
		}
	}
}

// turnAndMove rotates the heading even if the following move is blocked.
func (s *BehaviorSystem) turnAndMove(e ecs.Entity, head *components.Heading, n int) {
	*head = head.Turn(n)
	dx, dy := head.Step()
	s.grid.Move(e, dx, dy)
}

// signOf maps positive to +1 and everything else to -1.
func signOf(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
