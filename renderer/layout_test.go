package renderer

import (
	"math"
	"testing"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

func TestZoneMaskEast(t *testing.T) {
	mask := ZoneMask(config.SelectionConfig{Mode: config.ModeEast}, 4, 2)
	want := []bool{false, false, true, true, false, false, true, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("mask = %v, want %v", mask, want)
		}
	}
}

func TestRadiationShade(t *testing.T) {
	shade := RadiationShade(config.RadiationConfig{Falloff: 0.5, DoseScale: 0.01}, 5)

	if shade[0] != 1 || shade[4] != 1 {
		t.Errorf("wall columns = %v, %v, want 1", shade[0], shade[4])
	}
	if want := math.Exp(-1); math.Abs(shade[2]-want) > 1e-12 {
		t.Errorf("center column = %v, want %v", shade[2], want)
	}

	for _, v := range RadiationShade(config.RadiationConfig{}, 3) {
		if v != 0 {
			t.Errorf("zero dose scale should give no shade, got %v", v)
		}
	}
}

func TestDownsample(t *testing.T) {
	dots := []telemetry.Dot{
		{X: 0, Y: 0, R: 100, G: 0, B: 0},
		{X: 1, Y: 1, R: 200, G: 50, B: 0},
		{X: 9, Y: 9, R: 0, G: 0, B: 255},
		{X: 20, Y: 3}, // off grid
	}

	cells := Downsample(dots, 10, 10, 5, 5)
	if len(cells) != 25 {
		t.Fatalf("got %d cells, want 25", len(cells))
	}

	// south-west corner lands in the bottom row
	sw := cells[4*5+0]
	if sw.Count != 2 || sw.R != 150 || sw.G != 25 {
		t.Errorf("south-west block = %+v, want 2 agents with mean color (150,25,0)", sw)
	}

	// north-east corner lands in the top row
	ne := cells[0*5+4]
	if ne.Count != 1 || ne.B != 255 {
		t.Errorf("north-east block = %+v", ne)
	}

	total := 0
	for _, c := range cells {
		total += c.Count
	}
	if total != 3 {
		t.Errorf("binned %d agents, want 3", total)
	}

	if Downsample(dots, 10, 10, 0, 5) != nil {
		t.Error("expected nil for an empty target")
	}
}

func TestDensityRune(t *testing.T) {
	tests := []struct {
		count, capacity int
		want            rune
	}{
		{0, 4, ' '},
		{1, 4, '·'},
		{1, 1, '█'},
		{2, 16, '•'},
		{2, 4, '●'},
		{4, 4, '█'},
	}
	for _, tt := range tests {
		if got := DensityRune(tt.count, tt.capacity); got != tt.want {
			t.Errorf("DensityRune(%d, %d) = %q, want %q", tt.count, tt.capacity, got, tt.want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100, 50}, 10); got != "▁█▄" {
		t.Errorf("Sparkline = %q, want %q", got, "▁█▄")
	}
	if got := Sparkline([]float64{0, 0, 100}, 1); got != "█" {
		t.Errorf("Sparkline should keep only the tail, got %q", got)
	}
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("Sparkline(nil) = %q", got)
	}
}
