package systems

import (
	"math"
	"testing"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

func TestRadiationHotWallSwitchesAtHalf(t *testing.T) {
	tw := newTestWorld(10, 10)
	rs := NewRadiationSystem(tw.world, tw.grid, config.RadiationConfig{MaxDose: 1, Falloff: 0.04, DoseScale: 0.01}, 300)

	if rs.HotWall(0) != WallWest || rs.HotWall(149) != WallWest {
		t.Error("west wall should radiate for the first half")
	}
	if rs.HotWall(150) != WallEast || rs.HotWall(299) != WallEast {
		t.Error("east wall should radiate for the second half")
	}
}

func TestRadiationDoseFalloff(t *testing.T) {
	tw := newTestWorld(10, 10)
	rs := NewRadiationSystem(tw.world, tw.grid, config.RadiationConfig{MaxDose: 1, Falloff: 0.5, DoseScale: 0.01}, 10)

	if got := rs.DoseAt(0, WallWest); math.Abs(got-0.01) > 1e-15 {
		t.Errorf("dose at west wall = %v, want 0.01", got)
	}
	if got := rs.DoseAt(9, WallEast); math.Abs(got-0.01) > 1e-15 {
		t.Errorf("dose at east wall = %v, want 0.01", got)
	}
	if want := 0.01 * math.Exp(-1); math.Abs(rs.DoseAt(2, WallWest)-want) > 1e-15 {
		t.Errorf("dose at x=2 = %v, want %v", rs.DoseAt(2, WallWest), want)
	}
}

func TestRadiationKillsAndRemoves(t *testing.T) {
	tw := newTestWorld(10, 10)
	near := tw.put(t, 0, 0, nil)
	far := tw.put(t, 9, 0, nil)
	rs := NewRadiationSystem(tw.world, tw.grid, config.RadiationConfig{MaxDose: 0.025, Falloff: 1, DoseScale: 0.01}, 100)

	deaths := 0
	for step := 0; step < 3; step++ {
		deaths += rs.Update(step)
	}

	if deaths != 1 {
		t.Errorf("deaths = %d, want 1", deaths)
	}
	if tw.grid.vitMap.Get(near).Alive {
		t.Error("agent at the hot wall survived")
	}
	if _, ok := tw.grid.Occupant(0, 0); ok {
		t.Error("dead agent still on the grid")
	}
	if !tw.grid.vitMap.Get(far).Alive {
		t.Error("agent at the cold wall died")
	}
	if tw.grid.Kills() != 0 {
		t.Errorf("radiation deaths counted as kills: %d", tw.grid.Kills())
	}
	if err := tw.grid.Check(); err != nil {
		t.Error(err)
	}
}
