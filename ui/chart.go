package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DrawHistoryChart plots a percentage series (0-100) as a polyline inside
// the given box. Only the most recent points that fit the width are shown.
func DrawHistoryChart(r *Renderer, x, y, width, height int32, title string, history []float64) {
	r.DrawPanel(x, y, width, height)
	rl.DrawText(title, x+r.Theme.Padding, y+4, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	plotX := x + r.Theme.Padding
	plotY := y + r.Theme.LineHeight + 8
	plotW := width - r.Theme.Padding*2
	plotH := height - r.Theme.LineHeight - 16

	for _, pct := range []float64{0, 50, 100} {
		gy := plotY + plotH - int32(float64(plotH)*pct/100)
		rl.DrawLine(plotX, gy, plotX+plotW, gy, rl.Color{R: 50, G: 55, B: 60, A: 255})
	}

	points := ChartPoints(history, float32(plotX), float32(plotY), float32(plotW), float32(plotH))
	for i := 1; i < len(points); i++ {
		rl.DrawLineEx(points[i-1], points[i], 1.5, r.Theme.BarFillPositive)
	}

	if n := len(history); n > 0 {
		last := fmt.Sprintf("%.1f%%", history[n-1])
		rl.DrawText(last, x+width-r.Theme.Padding-rl.MeasureText(last, r.Theme.FontSize), y+4, r.Theme.FontSize, r.Theme.ValueColor)
	}
}

// ChartPoints maps the tail of history onto screen coordinates, one point per
// pixel column at most. Values are clamped to [0, 100].
func ChartPoints(history []float64, x, y, width, height float32) []rl.Vector2 {
	maxPoints := int(width)
	if maxPoints < 2 {
		maxPoints = 2
	}
	if len(history) > maxPoints {
		history = history[len(history)-maxPoints:]
	}
	if len(history) == 0 {
		return nil
	}

	step := float32(0)
	if len(history) > 1 {
		step = width / float32(len(history)-1)
	}

	points := make([]rl.Vector2, len(history))
	for i, v := range history {
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		points[i] = rl.Vector2{
			X: x + float32(i)*step,
			Y: y + height - float32(v/100)*height,
		}
	}
	return points
}
