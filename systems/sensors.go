package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
)

// Sensors is the input vector fed to a brain, indexed by neural.Sensor* constants.
type Sensors [neural.NumSensors]float64

// Sense fills out with the agent's view of the grid and advances its
// oscillator phase.
func (s *BehaviorSystem) Sense(e ecs.Entity, out *Sensors) {
	g := s.grid
	pos := g.posMap.Get(e)
	head := g.headMap.Get(e)
	vit := g.vitMap.Get(e)

	w, h := g.width, g.height

	out[neural.SensorLocX] = float64(pos.X) / float64(max(1, w-1))
	out[neural.SensorLocY] = float64(pos.Y) / float64(max(1, h-1))
	out[neural.SensorAge] = float64(vit.Age) / float64(max(1, s.opts.StepsPerGen-1))
	out[neural.SensorRandom] = s.rng.Float64()

	vit.Phase += 2 * math.Pi / s.opts.OscillatorPeriod
	out[neural.SensorOscillator] = (math.Sin(vit.Phase) + 1) * 0.5

	// 1 at a wall, 0 at the center
	out[neural.SensorBoundaryDistX] = 1 - float64(min(pos.X, w-1-pos.X))/(float64(w)/2)
	out[neural.SensorBoundaryDistY] = 1 - float64(min(pos.Y, h-1-pos.Y))/(float64(h)/2)

	out[neural.SensorDensity] = math.Min(1, float64(g.Density(pos.X, pos.Y, s.opts.DensityRadius))/8)
	out[neural.SensorGradientFwd] = g.ForwardGradient(pos.X, pos.Y, *head, s.opts.GradientReach)

	dx, dy := head.Step()
	ahead, blocked := g.Occupant(pos.X+dx, pos.Y+dy)
	out[neural.SensorGeneticSimFwd] = 0
	out[neural.SensorBlockedFwd] = 0
	if blocked {
		self := g.orgMap.Get(e)
		other := g.orgMap.Get(ahead)
		out[neural.SensorGeneticSimFwd] = genome.Similarity(self.Genome, other.Genome)
		out[neural.SensorBlockedFwd] = 1
	}

	out[neural.SensorLastMoveX] = float64(dx+1) / 2
	out[neural.SensorLastMoveY] = float64(dy+1) / 2
	out[neural.SensorConstant] = 1
}
