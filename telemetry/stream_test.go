package telemetry

import "testing"

func TestStreamDropsOldest(t *testing.T) {
	s := NewStream(2)

	for gen := 0; gen < 5; gen++ {
		s.Publish(Frame{Generation: gen})
	}

	if got := s.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}

	first := <-s.Frames()
	second := <-s.Frames()
	if first.Generation != 3 || second.Generation != 4 {
		t.Errorf("received generations %d, %d; want 3, 4", first.Generation, second.Generation)
	}
}

func TestStreamCloseIdempotent(t *testing.T) {
	s := NewStream(4)
	s.Publish(Frame{Generation: 1})

	s.Close()
	s.Close()

	// Publishing after close is a no-op
	s.Publish(Frame{Generation: 2})

	var gens []int
	for f := range s.Frames() {
		gens = append(gens, f.Generation)
	}
	if len(gens) != 1 || gens[0] != 1 {
		t.Errorf("drained %v, want [1]", gens)
	}
}

func TestStreamMinimumBuffer(t *testing.T) {
	s := NewStream(0)
	s.Publish(Frame{Generation: 1})
	s.Publish(Frame{Generation: 2})

	if f := <-s.Frames(); f.Generation != 2 {
		t.Errorf("got generation %d, want 2", f.Generation)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped())
	}
}
