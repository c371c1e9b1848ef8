package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// Terminal draws frames as a downsampled colored grid in a tcell screen.
type Terminal struct {
	screen tcell.Screen
	stream *telemetry.Stream

	frame     telemetry.Frame
	haveFrame bool
	paused    bool
	finished  bool
}

// NewTerminal creates a terminal viewer on an initialized screen.
func NewTerminal(screen tcell.Screen, stream *telemetry.Stream) *Terminal {
	return &Terminal{screen: screen, stream: stream}
}

// Run draws until q or Esc is pressed, then calls cancel and finalizes the
// screen.
func (t *Terminal) Run(cancel context.CancelFunc) {
	defer t.screen.Fini()
	if cancel != nil {
		defer cancel()
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go t.pollEvents(events, done)

	for {
		select {
		case ev, ok := <-events:
			if !ok || !t.HandleEvent(ev) {
				return
			}

		case <-ticker.C:
			t.pull()
			t.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed. events is closed when the screen stops delivering.
func (t *Terminal) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent applies one input event. Returns false when the viewer should
// quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'p', ' ':
				t.paused = !t.paused
			}
		}

	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *Terminal) pull() {
	if t.paused || t.finished {
		return
	}
	for {
		select {
		case f, ok := <-t.stream.Frames():
			if !ok {
				t.finished = true
				return
			}
			t.frame = f
			t.haveFrame = true
		default:
			return
		}
	}
}

// Show sets the frame to draw, bypassing the stream.
func (t *Terminal) Show(f telemetry.Frame) {
	t.frame = f
	t.haveFrame = true
}

// Draw renders the current frame: two status lines, a sparkline, then the
// grid scaled to the remaining space.
func (t *Terminal) Draw() {
	s := t.screen
	s.Clear()
	width, height := s.Size()

	header := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	plain := tcell.StyleDefault.Foreground(tcell.ColorSilver)

	if !t.haveFrame {
		drawString(s, 0, 0, "EvoSim - waiting for first generation  [q] quit", header)
		s.Show()
		return
	}

	f := t.frame
	st := f.Stats
	state := "running"
	switch {
	case t.finished:
		state = "finished"
	case t.paused:
		state = "paused"
	}

	drawString(s, 0, 0, fmt.Sprintf("EvoSim  gen %s/%s  mode %s  [%s]  [p] pause  [q] quit",
		humanize.Comma(int64(f.Generation)), humanize.Comma(int64(f.Generations)), f.Mode, state), header)
	drawString(s, 0, 1, fmt.Sprintf("survivors %s/%s (%.1f%%)  kills %d  diversity %.3f  best conns %d",
		humanize.Comma(int64(st.Survivors)), humanize.Comma(int64(st.Population)), st.SurvivalPct,
		st.Kills, st.Diversity, st.BestConnections), plain)
	drawString(s, 0, 2, Sparkline(f.History, width), tcell.StyleDefault.Foreground(tcell.ColorGreen))

	top := 3
	cols, rows := width, height-top
	if cols < 1 || rows < 1 || f.Width < 1 || f.Height < 1 {
		s.Show()
		return
	}
	cols = min(cols, f.Width)
	rows = min(rows, f.Height)

	capacity := (f.Width / cols) * (f.Height / rows)
	cells := Downsample(f.Dots, f.Width, f.Height, cols, rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := cells[row*cols+col]
			if c.Count == 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			s.SetContent(col, top+row, DensityRune(c.Count, capacity), nil, style)
		}
	}

	s.Show()
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
