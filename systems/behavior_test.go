package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
)

// reflex wires the constant bias sensor straight to one action.
func reflex(action int, weight float64) genome.Genome {
	return genome.Genome{genome.Encode(genome.Fields{
		SourceKind: genome.SourceSensor,
		SourceID:   neural.SensorConstant,
		SinkKind:   genome.SinkAction,
		SinkID:     action,
		Weight:     weight,
	})}
}

func testOptions() BehaviorOptions {
	return BehaviorOptions{
		ActionThreshold:  0.1,
		StepsPerGen:      300,
		OscillatorPeriod: 30,
		DensityRadius:    2,
		GradientReach:    5,
	}
}

func TestSelectAction(t *testing.T) {
	tests := []struct {
		name    string
		actions []float64
		want    int
		ok      bool
	}{
		{"all below threshold", []float64{0.05, -0.1, 0.09}, -1, false},
		{"largest magnitude wins", []float64{0.2, -0.7, 0.5}, 1, true},
		{"exact tie keeps earlier index", []float64{0.3, 0.6, -0.6}, 1, true},
		{"threshold itself does not act", []float64{0.1}, -1, false},
		{"empty", nil, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectAction(tt.actions, 0.1)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SelectAction = (%d,%v), want (%d,%v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStepMovesEast(t *testing.T) {
	tw := newTestWorld(10, 10)
	e := tw.put(t, 0, 5, reflex(neural.ActionMoveX, 1))
	bs := NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions())

	for i := 0; i < 3; i++ {
		bs.Step(e)
	}

	if p := tw.pos(e); p.X != 3 || p.Y != 5 {
		t.Errorf("position = %+v, want (3,5)", p)
	}
	if age := tw.grid.vitMap.Get(e).Age; age != 3 {
		t.Errorf("age = %d, want 3", age)
	}
}

func TestStepNegativeActivationMovesWest(t *testing.T) {
	tw := newTestWorld(10, 10)
	e := tw.put(t, 0, 5, reflex(neural.ActionMoveX, -1))
	bs := NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions())

	bs.Step(e)
	if p := tw.pos(e); p.X != 0 {
		t.Errorf("x = %d, want 0 (clamped at west wall)", p.X)
	}
}

func TestStepDeadAgentIsNoop(t *testing.T) {
	tw := newTestWorld(10, 10)
	e := tw.put(t, 4, 4, reflex(neural.ActionMoveX, 1))
	tw.grid.vitMap.Get(e).Kill()

	NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions()).Step(e)

	if p := tw.pos(e); p.X != 4 {
		t.Errorf("dead agent moved to x=%d", p.X)
	}
	if age := tw.grid.vitMap.Get(e).Age; age != 0 {
		t.Errorf("dead agent aged to %d", age)
	}
}

func TestTurnRotatesBeforeMoving(t *testing.T) {
	tests := []struct {
		name    string
		action  int
		wantDir uint8
		wantX   int
		wantY   int
	}{
		{"left", neural.ActionTurnLeft, 7, 6, 4},
		{"right", neural.ActionTurnRight, 1, 6, 6},
		{"reverse", neural.ActionReverse, 4, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := newTestWorld(10, 10)
			e := tw.put(t, 5, 5, reflex(tt.action, 1))
			NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions()).Step(e)

			if dir := tw.grid.headMap.Get(e).Dir; dir != tt.wantDir {
				t.Errorf("heading = %d, want %d", dir, tt.wantDir)
			}
			if p := tw.pos(e); p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("position = %+v, want (%d,%d)", p, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestKillAction(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		tw := newTestWorld(10, 10)
		killer := tw.put(t, 2, 2, reflex(neural.ActionNoopOrKill, 1))
		victim := tw.put(t, 3, 2, nil)

		opts := testOptions()
		opts.KillEnabled = enabled
		NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), opts).Step(killer)

		alive := tw.grid.vitMap.Get(victim).Alive
		if alive == enabled {
			t.Errorf("kill enabled=%v: victim alive=%v", enabled, alive)
		}
		wantKills := 0
		if enabled {
			wantKills = 1
		}
		if tw.grid.Kills() != wantKills {
			t.Errorf("kill enabled=%v: kills=%d, want %d", enabled, tw.grid.Kills(), wantKills)
		}
		if p := tw.pos(killer); p.X != 2 || p.Y != 2 {
			t.Errorf("killer moved to %+v", p)
		}
	}
}

func TestSense(t *testing.T) {
	tw := newTestWorld(11, 21)
	g := reflex(neural.ActionMoveX, 1)
	e := tw.put(t, 10, 0, g)
	tw.put(t, 9, 0, g) // behind, same genome

	bs := NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions())
	*tw.grid.headMap.Get(e) = tw.grid.headMap.Get(e).Turn(4) // face west, toward the neighbor

	var s Sensors
	bs.Sense(e, &s)

	checks := []struct {
		idx  int
		want float64
	}{
		{neural.SensorLocX, 1},
		{neural.SensorLocY, 0},
		{neural.SensorAge, 0},
		{neural.SensorBoundaryDistX, 1},
		{neural.SensorBoundaryDistY, 1},
		{neural.SensorDensity, 1.0 / 8},
		{neural.SensorGradientFwd, 0.2},
		{neural.SensorGeneticSimFwd, 1},
		{neural.SensorLastMoveX, 0},
		{neural.SensorLastMoveY, 0.5},
		{neural.SensorBlockedFwd, 1},
		{neural.SensorConstant, 1},
	}
	for _, c := range checks {
		if math.Abs(s[c.idx]-c.want) > 1e-12 {
			t.Errorf("sensor %s = %v, want %v", neural.SensorDescriptors()[c.idx].ID, s[c.idx], c.want)
		}
	}

	if s[neural.SensorRandom] < 0 || s[neural.SensorRandom] >= 1 {
		t.Errorf("random sensor = %v out of [0,1)", s[neural.SensorRandom])
	}
	if want := (math.Sin(2*math.Pi/30) + 1) / 2; math.Abs(s[neural.SensorOscillator]-want) > 1e-12 {
		t.Errorf("oscillator = %v, want %v", s[neural.SensorOscillator], want)
	}
}

func TestOscillatorPeriod(t *testing.T) {
	tw := newTestWorld(5, 5)
	e := tw.put(t, 2, 2, nil)
	bs := NewBehaviorSystem(tw.grid, rand.New(rand.NewSource(1)), testOptions())

	var first, s Sensors
	bs.Sense(e, &first)
	for i := 0; i < 30; i++ {
		bs.Sense(e, &s)
	}
	if math.Abs(first[neural.SensorOscillator]-s[neural.SensorOscillator]) > 1e-9 {
		t.Errorf("oscillator not periodic over 30 steps: %v vs %v",
			first[neural.SensorOscillator], s[neural.SensorOscillator])
	}
}
