package telemetry

import (
	"sync"
	"sync/atomic"
)

// Dot is one live agent as drawn by a viewer.
type Dot struct {
	X, Y    int
	R, G, B uint8
}

// Frame is one completed generation as seen by a live viewer.
type Frame struct {
	Generation  int
	Generations int // Planned run length
	Mode        string
	Width       int
	Height      int
	Stats       GenerationStats
	Dots        []Dot
	Best        *HallEntry // Best survivor, nil on extinction
	History     []float64  // Survival percentage per generation so far
}

// Stream is a bounded frame queue between the simulation and a viewer.
// Publish never blocks: when the queue is full the oldest pending frame is
// dropped, so a slow viewer cannot stall the simulation.
type Stream struct {
	mu      sync.Mutex
	ch      chan Frame
	closed  bool
	dropped atomic.Int64
}

// NewStream creates a stream holding at most buffer pending frames.
func NewStream(buffer int) *Stream {
	if buffer < 1 {
		buffer = 1
	}
	return &Stream{ch: make(chan Frame, buffer)}
}

// Publish enqueues f, evicting the oldest pending frame if the queue is full.
// No-op after Close.
func (s *Stream) Publish(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for {
		select {
		case s.ch <- f:
			return
		default:
		}

		select {
		case <-s.ch:
			s.dropped.Add(1)
		default:
			// consumer drained it between the two selects
		}
	}
}

// Frames returns the receive side of the queue. It is closed by Close.
func (s *Stream) Frames() <-chan Frame {
	return s.ch
}

// Dropped returns how many frames were evicted unread.
func (s *Stream) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops publishing and closes the frame channel. Safe to call twice.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
