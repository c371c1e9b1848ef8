package systems

import (
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/components"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

// SurvivalPredicate decides from its final position whether a live agent
// becomes a parent.
type SurvivalPredicate func(pos components.Position) bool

// NewSurvivalPredicate builds the predicate for sel.Mode on a width x height grid.
// Unknown modes and "none" apply no selection pressure.
func NewSurvivalPredicate(sel config.SelectionConfig, width, height int) SurvivalPredicate {
	switch sel.Mode {
	case config.ModeEast:
		return func(p components.Position) bool { return p.X >= width/2 }

	case config.ModeWest:
		return func(p components.Position) bool { return p.X < width/2 }

	case config.ModeWestEast:
		strip := sel.StripWidth
		return func(p components.Position) bool {
			return p.X < strip || p.X >= width-strip
		}

	case config.ModeCorners:
		c := sel.CornerSize
		return func(p components.Position) bool {
			return (p.X < c || p.X >= width-c) && (p.Y < c || p.Y >= height-c)
		}

	case config.ModeCenter:
		cx, cy := width/2, height/2
		r2 := sel.CenterRadius * sel.CenterRadius
		return func(p components.Position) bool {
			dx, dy := p.X-cx, p.Y-cy
			return dx*dx+dy*dy <= r2
		}

	default:
		// radioactive: the hazard already did the killing
		return func(components.Position) bool { return true }
	}
}

// Scenario returns a short description of a selection mode.
func Scenario(mode string) string {
	switch mode {
	case config.ModeEast:
		return "East-side survival. Agents must end the generation in the eastern half. Expect a steady eastward drift."
	case config.ModeWest:
		return "West-side survival. Agents must end the generation in the western half."
	case config.ModeWestEast:
		return "Side strips survival. Agents must reach either the left or right edge strip."
	case config.ModeCorners:
		return "Corner survival. Agents must reach any of the four corner regions and stay there."
	case config.ModeCenter:
		return "Center survival. Agents must gather inside the central disk."
	case config.ModeRadioactive:
		return "Radioactive walls. The west wall radiates for the first half, the east wall for the second. Agents must dodge both."
	default:
		return "No selection pressure. Every live agent reproduces."
	}
}
