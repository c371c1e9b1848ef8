package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Generation  int
	Generations int
	Mode        string
	Alive       int
	FPS         int32
	Paused      bool
	Dropped     int64 // Frames the viewer fell behind by
}

// HUD renders the heads-up display over the grid.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Gen: %d/%d | Mode: %s | Alive: %d", data.Generation, data.Generations, data.Mode, data.Alive),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("FPS: %d | Dropped frames: %d", data.FPS, data.Dropped),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func frameStats(data any) telemetry.GenerationStats {
	return data.(telemetry.Frame).Stats
}

func bestColor(data any) rl.Color {
	best := data.(telemetry.Frame).Best
	if best == nil {
		return rl.Gray
	}
	c := genome.ColorOf(genome.FromUint32s(best.Genome))
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// StatsSections describes the generation stats panel. Data is a telemetry.Frame.
var StatsSections = []SectionDescriptor{
	{
		ID:    "population",
		Title: "Population",
		Fields: []FieldDescriptor{
			{ID: "survivors", Label: "Survivors", Widget: WidgetText, TextGetter: func(d any) string {
				s := frameStats(d)
				return fmt.Sprintf("%d / %d", s.Survivors, s.Population)
			}},
			{ID: "survival", Label: "Survival", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 100},
				Getter: func(d any) float32 { return float32(frameStats(d).SurvivalPct) }},
			{ID: "trend", Label: "Trend", Widget: WidgetCenteredBar, Range: CenteredRange(),
				Getter: func(d any) float32 { return float32(survivalTrend(d.(telemetry.Frame).History)) }},
			{ID: "alive", Label: "Alive", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(frameStats(d).Alive) }},
			{ID: "kills", Label: "Kills", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(frameStats(d).Kills) }},
			{ID: "radiation", Label: "Radiation", Widget: WidgetText, Format: "%.0f",
				Getter:  func(d any) float32 { return float32(frameStats(d).RadiationDeaths) },
				Visible: func(d any) bool { return frameStats(d).RadiationDeaths > 0 }},
		},
	},
	{
		ID:    "genetics",
		Title: "Genetics",
		Fields: []FieldDescriptor{
			{ID: "diversity", Label: "Diversity", Widget: WidgetBar, Range: DefaultRange(),
				Getter: func(d any) float32 { return float32(frameStats(d).Diversity) }},
			{ID: "best_conns", Label: "Best conns", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(frameStats(d).BestConnections) }},
			{ID: "mean_conns", Label: "Mean conns", Widget: WidgetText, Format: "%.1f",
				Getter: func(d any) float32 { return float32(frameStats(d).MeanConnections) }},
			{ID: "best_color", Label: "Best color", Widget: WidgetColorSwatch,
				Visible:     func(d any) bool { return d.(telemetry.Frame).Best != nil },
				ColorGetter: bestColor},
		},
	},
	{
		ID:    "timing",
		Title: "Timing",
		Fields: []FieldDescriptor{
			{ID: "elapsed", Label: "Gen time", Widget: WidgetText, TextGetter: func(d any) string {
				return frameStats(d).Elapsed().Round(100 * time.Microsecond).String()
			}},
		},
	},
}

// survivalTrend is the change in survival percentage over the previous
// generation, as a fraction in [-1, 1].
func survivalTrend(history []float64) float64 {
	n := len(history)
	if n < 2 {
		return 0
	}
	return (history[n-1] - history[n-2]) / 100
}
