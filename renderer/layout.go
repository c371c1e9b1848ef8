package renderer

import (
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/systems"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// ZoneMask marks the cells where a live agent would survive selection,
// indexed y*width+x.
func ZoneMask(sel config.SelectionConfig, width, height int) []bool {
	survives := systems.NewSurvivalPredicate(sel, width, height)
	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask[y*width+x] = survives(components.Position{X: x, Y: y})
		}
	}
	return mask
}

// RadiationShade returns, per column, the larger of the two wall doses
// relative to the dose at the wall itself, in [0, 1].
func RadiationShade(cfg config.RadiationConfig, width int) []float64 {
	shade := make([]float64, width)
	if cfg.DoseScale <= 0 {
		return shade
	}
	for x := range shade {
		west := systems.DoseProfile(cfg, width, x, systems.WallWest)
		east := systems.DoseProfile(cfg, width, x, systems.WallEast)
		shade[x] = max(west, east) / cfg.DoseScale
	}
	return shade
}

// TermCell is one terminal character covering a block of grid cells.
type TermCell struct {
	Count   int
	R, G, B uint8
}

// Downsample bins dots into a cols x rows block grid with north at row 0.
// A block's color is the mean color of its agents.
func Downsample(dots []telemetry.Dot, gridW, gridH, cols, rows int) []TermCell {
	if cols < 1 || rows < 1 || gridW < 1 || gridH < 1 {
		return nil
	}

	type acc struct{ n, r, g, b int }
	bins := make([]acc, cols*rows)
	for _, d := range dots {
		if d.X < 0 || d.Y < 0 || d.X >= gridW || d.Y >= gridH {
			continue
		}
		col := d.X * cols / gridW
		row := (gridH - 1 - d.Y) * rows / gridH
		a := &bins[row*cols+col]
		a.n++
		a.r += int(d.R)
		a.g += int(d.G)
		a.b += int(d.B)
	}

	cells := make([]TermCell, len(bins))
	for i, a := range bins {
		if a.n == 0 {
			continue
		}
		cells[i] = TermCell{
			Count: a.n,
			R:     uint8(a.r / a.n),
			G:     uint8(a.g / a.n),
			B:     uint8(a.b / a.n),
		}
	}
	return cells
}

// DensityRune picks a glyph for a block holding count agents out of
// capacity cells.
func DensityRune(count, capacity int) rune {
	if count <= 0 {
		return ' '
	}
	if capacity < 1 {
		capacity = 1
	}
	switch fill := float64(count) / float64(capacity); {
	case count == 1 && capacity > 1:
		return '·'
	case fill <= 0.25:
		return '•'
	case fill <= 0.6:
		return '●'
	default:
		return '█'
	}
}

// Sparkline renders the tail of a percentage series (0-100) as block glyphs.
func Sparkline(history []float64, width int) string {
	const ticks = "▁▂▃▄▅▆▇█"
	glyphs := []rune(ticks)
	if width < 1 || len(history) == 0 {
		return ""
	}
	if len(history) > width {
		history = history[len(history)-width:]
	}

	out := make([]rune, len(history))
	for i, v := range history {
		idx := int(v / 100 * float64(len(glyphs)-1))
		if idx < 0 {
			idx = 0
		} else if idx >= len(glyphs) {
			idx = len(glyphs) - 1
		}
		out[i] = glyphs[idx]
	}
	return string(out)
}
