package components

// Position is an agent's cell on the grid.
type Position struct {
	X, Y int
}

// Heading is the index into Directions of the agent's last move.
type Heading struct {
	Dir uint8
}

// NumDirections is the number of compass headings.
const NumDirections = 8

// Directions maps a heading index to its (dx, dy) step.
// Index 0 is east; indices advance counter-clockwise in 45° steps.
var Directions = [NumDirections][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Step returns the (dx, dy) of the heading.
func (h Heading) Step() (dx, dy int) {
	d := Directions[h.Dir%NumDirections]
	return d[0], d[1]
}

// Turn returns the heading rotated by n 45° steps (negative = left).
func (h Heading) Turn(n int) Heading {
	return Heading{Dir: uint8(((int(h.Dir)+n)%NumDirections + NumDirections) % NumDirections)}
}

// HeadingFor returns the heading matching the sign pair of (dx, dy).
// ok is false when both are zero.
func HeadingFor(dx, dy int) (h Heading, ok bool) {
	sx, sy := sign(dx), sign(dy)
	for i, d := range Directions {
		if d[0] == sx && d[1] == sy {
			return Heading{Dir: uint8(i)}, true
		}
	}
	return Heading{}, false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
