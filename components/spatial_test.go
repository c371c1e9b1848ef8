package components

import "testing"

func TestHeadingTurn(t *testing.T) {
	tests := []struct {
		start uint8
		turn  int
		want  uint8
	}{
		{0, -1, 7},
		{7, 1, 0},
		{2, 4, 6},
		{6, 4, 2},
		{3, -9, 2},
	}

	for _, tt := range tests {
		if got := (Heading{Dir: tt.start}).Turn(tt.turn); got.Dir != tt.want {
			t.Errorf("Heading(%d).Turn(%d) = %d, want %d", tt.start, tt.turn, got.Dir, tt.want)
		}
	}
}

func TestHeadingForRoundTrip(t *testing.T) {
	for i := range Directions {
		h := Heading{Dir: uint8(i)}
		dx, dy := h.Step()
		got, ok := HeadingFor(dx*3, dy*3)
		if !ok || got != h {
			t.Errorf("HeadingFor(%d,%d) = %d,%v; want %d", dx*3, dy*3, got.Dir, ok, i)
		}
	}

	if _, ok := HeadingFor(0, 0); ok {
		t.Error("HeadingFor(0,0) reported a heading")
	}
}
