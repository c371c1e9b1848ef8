// Package renderer hosts the live viewers that consume telemetry frames:
// a raylib window and a tcell terminal view.
package renderer

import (
	"context"
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/camera"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/ui"
)

var (
	colorBackground = rl.Color{R: 12, G: 14, B: 18, A: 255}
	colorGrid       = rl.Color{R: 30, G: 34, B: 40, A: 255}
	colorSafeZone   = rl.Color{R: 40, G: 120, B: 60, A: 60}
	colorRadiation  = rl.Color{R: 200, G: 170, B: 40, A: 255}
)

const controlsText = "[Space] Pause  [N] Step  [Tab] Overlays  [Wheel] Zoom  [RMB] Pan  [Home] Reset  [Esc] Quit"

// Window is the raylib viewer. It owns the OS thread it runs on.
type Window struct {
	cfg    *config.Config
	stream *telemetry.Stream
	logger *slog.Logger

	screenW, screenH int32
	panelW           int32

	cam      *camera.Camera
	hud      *ui.HUD
	panel    *ui.Renderer
	controls *ui.ControlsPanel
	overlays *ui.OverlayRegistry

	zone      []bool
	radiation []float64

	frame     telemetry.Frame
	haveFrame bool
	brain     *neural.Brain
	brainGen  int

	paused   bool
	stepOnce bool
	finished bool
}

// NewWindow creates a viewer for frames published on stream.
func NewWindow(cfg *config.Config, stream *telemetry.Stream, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	cell := int32(max(1, cfg.Viewer.CellSize))
	panelW := int32(max(200, cfg.Viewer.PanelW))

	return &Window{
		cfg:       cfg,
		stream:    stream,
		logger:    logger,
		screenW:   int32(cfg.World.Width)*cell + panelW,
		screenH:   max(int32(cfg.World.Height)*cell, 720),
		panelW:    panelW,
		zone:      ZoneMask(cfg.Selection, cfg.World.Width, cfg.World.Height),
		radiation: RadiationShade(cfg.Radiation, cfg.World.Width),
		brainGen:  -1,
	}
}

// Run opens the window and draws until the user closes it. cancel is called
// on close so the simulation stops at the next generation boundary.
func (w *Window) Run(cancel context.CancelFunc) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(w.screenW, w.screenH, "EvoSim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(max(1, w.cfg.Viewer.TargetFPS)))
	rl.SetExitKey(rl.KeyEscape)

	w.cam = camera.New(float32(w.screenW-w.panelW), float32(w.screenH), w.cfg.World.Width, w.cfg.World.Height)
	w.hud = ui.NewHUD()
	w.panel = ui.NewRenderer()
	w.controls = ui.NewControlsPanel(10, 100, 220)
	w.overlays = ui.NewOverlayRegistry()
	w.overlays.SetEnabled(ui.OverlayRadiationZone, w.cfg.Selection.Mode == config.ModeRadioactive)
	w.overlays.SetEnabled(ui.OverlaySafeZone, w.cfg.Selection.Mode != config.ModeRadioactive)

	for !rl.WindowShouldClose() {
		w.handleInput()
		w.pull()

		rl.BeginDrawing()
		rl.ClearBackground(colorBackground)
		w.draw()
		rl.EndDrawing()
	}

	if cancel != nil {
		cancel()
	}
}

// pull takes the newest pending frame, or exactly one frame when stepping
// while paused.
func (w *Window) pull() {
	if w.finished || (w.paused && !w.stepOnce) {
		return
	}
	single := w.paused && w.stepOnce
	w.stepOnce = false

	for {
		select {
		case f, ok := <-w.stream.Frames():
			if !ok {
				w.finished = true
				w.logger.Info("stream closed", "generation", w.frame.Generation)
				return
			}
			w.frame = f
			w.haveFrame = true
			if single {
				return
			}
		default:
			return
		}
	}
}

func (w *Window) handleInput() {
	if rl.IsWindowResized() {
		w.screenW = int32(rl.GetScreenWidth())
		w.screenH = int32(rl.GetScreenHeight())
		w.cam.Resize(float32(w.screenW-w.panelW), float32(w.screenH))
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.paused = !w.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		w.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		w.cam.Reset()
	}
	if key := rl.GetKeyPressed(); key != 0 {
		w.overlays.HandleKeyPress(key)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		w.cam.Pan(-d.X, -d.Y)
	}
}

func (w *Window) draw() {
	w.drawGrid()

	status := "Running"
	switch {
	case w.finished:
		status = "Finished"
	case !w.haveFrame:
		status = "Waiting for first generation"
	}

	w.hud.Draw(ui.HUDData{
		Title:       "EvoSim - " + status,
		Generation:  w.frame.Generation,
		Generations: w.frame.Generations,
		Mode:        w.cfg.Selection.Mode,
		Alive:       len(w.frame.Dots),
		FPS:         rl.GetFPS(),
		Paused:      w.paused,
		Dropped:     w.stream.Dropped(),
	})
	w.controls.Draw(w.overlays)
	w.hud.DrawControls(w.screenH, controlsText)

	w.drawPanel()
}

func (w *Window) drawGrid() {
	gridW, gridH := w.cfg.World.Width, w.cfg.World.Height
	minX, minY, maxX, maxY := w.cam.VisibleCells()

	if w.overlays.IsEnabled(ui.OverlaySafeZone) {
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if w.zone[y*gridW+x] {
					w.fillCell(x, y, colorSafeZone)
				}
			}
		}
	}

	if w.overlays.IsEnabled(ui.OverlayRadiationZone) {
		for x := minX; x <= maxX; x++ {
			c := colorRadiation
			c.A = uint8(w.radiation[x] * 90)
			sx, top, size := w.cam.CellRect(x, gridH-1)
			_, bottom, _ := w.cam.CellRect(x, 0)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: top}, rl.Vector2{X: size, Y: bottom + size - top}, c)
		}
	}

	if w.overlays.IsEnabled(ui.OverlayGridLines) && w.cam.Zoom >= 4 {
		for x := minX; x <= maxX+1; x++ {
			sx, sy := w.cam.WorldToScreen(float32(x), 0)
			_, top := w.cam.WorldToScreen(float32(x), float32(gridH))
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: sx, Y: top}, colorGrid)
		}
		for y := minY; y <= maxY+1; y++ {
			sx, sy := w.cam.WorldToScreen(0, float32(y))
			right, _ := w.cam.WorldToScreen(float32(gridW), float32(y))
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: right, Y: sy}, colorGrid)
		}
	}

	x0, y0 := w.cam.WorldToScreen(0, float32(gridH))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: float32(gridW) * w.cam.Zoom, Height: float32(gridH) * w.cam.Zoom}, 1, rl.DarkGray)

	for _, d := range w.frame.Dots {
		if !w.cam.IsVisible(d.X, d.Y) {
			continue
		}
		w.fillCell(d.X, d.Y, rl.Color{R: d.R, G: d.G, B: d.B, A: 255})
	}

	mouse := rl.GetMousePosition()
	if x, y, ok := w.cam.CellAt(mouse.X, mouse.Y); ok && mouse.X < float32(w.screenW-w.panelW) {
		rl.DrawText(fmt.Sprintf("(%d, %d)", x, y), int32(mouse.X)+12, int32(mouse.Y)+12, 12, rl.LightGray)
	}
}

func (w *Window) fillCell(x, y int, c rl.Color) {
	sx, sy, size := w.cam.CellRect(x, y)
	if size < 1 {
		size = 1
	}
	rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, c)
}

func (w *Window) drawPanel() {
	r := w.panel
	px := w.screenW - w.panelW
	y := int32(10)
	width := w.panelW - 10

	if w.paused {
		if gui.Button(rl.Rectangle{X: float32(px), Y: float32(y), Width: 100, Height: 26}, "Resume") {
			w.paused = false
		}
		if gui.Button(rl.Rectangle{X: float32(px + 110), Y: float32(y), Width: 100, Height: 26}, "Step") {
			w.stepOnce = true
		}
	} else if gui.Button(rl.Rectangle{X: float32(px), Y: float32(y), Width: 100, Height: 26}, "Pause") {
		w.paused = true
	}
	y += 36

	if !w.haveFrame {
		return
	}

	if w.overlays.IsEnabled(ui.OverlayStats) {
		height := int32(len(ui.StatsSections)*7) * r.Theme.LineHeight
		r.DrawPanel(px, y, width, height)
		sy := y + r.Theme.Padding
		for _, sd := range ui.StatsSections {
			sy = r.DrawSection(px+r.Theme.Padding, sy, sd, w.frame, width-r.Theme.Padding*2)
		}
		y = sy + r.Theme.Padding
	}

	if w.overlays.IsEnabled(ui.OverlayChart) {
		ui.DrawHistoryChart(r, px, y, width, 120, "Survival %", w.frame.History)
		y += 130
	}

	if w.overlays.IsEnabled(ui.OverlayBrain) {
		height := w.screenH - y - 40
		r.DrawPanel(px, y, width, height)
		rl.DrawText("Best brain", px+r.Theme.Padding, y+4, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		ui.DrawNetworkDiagram(px+60, y+20, width-110, height-24, w.bestBrain())
	}
}

// bestBrain rebuilds the diagram source only when the frame changes.
func (w *Window) bestBrain() *neural.Brain {
	if w.frame.Best == nil {
		return nil
	}
	if w.brainGen != w.frame.Generation {
		g := genome.FromUint32s(w.frame.Best.Genome)
		w.brain = neural.Build(g, neural.Pools(w.cfg.Genome.Internal))
		w.brainGen = w.frame.Generation
	}
	return w.brain
}
