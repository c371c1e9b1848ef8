// Package camera provides a 2D camera for viewing the grid world.
package camera

// Camera controls the viewport into the grid. World units are cells; grid y
// grows northward, so it is flipped against screen y.
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom is screen pixels per cell
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	GridW, GridH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the grid, zoomed to fit it in the viewport.
func New(viewportW, viewportH float32, gridW, gridH int) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridW:     float32(gridW),
		GridH:     float32(gridH),
	}
	c.fit()
	c.Reset()
	return c
}

// fit recomputes zoom limits from the viewport. The minimum shows the whole
// grid with a small margin.
func (c *Camera) fit() {
	zx := c.ViewportW / c.GridW
	zy := c.ViewportH / c.GridH
	c.MinZoom = min(zx, zy) * 0.9
	c.MaxZoom = max(c.MinZoom*16, 32)
}

// WorldToScreen converts cell coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// CellRect returns the screen rectangle of cell (x, y).
func (c *Camera) CellRect(x, y int) (sx, sy, size float32) {
	sx, sy = c.WorldToScreen(float32(x), float32(y+1))
	return sx, sy, c.Zoom
}

// CellAt returns the grid cell under a screen point and whether it is in
// bounds.
func (c *Camera) CellAt(sx, sy float32) (x, y int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 || wx >= c.GridW || wy >= c.GridH {
		return 0, 0, false
	}
	return int(wx), int(wy), true
}

// IsVisible returns true if cell (x, y) overlaps the viewport.
func (c *Camera) IsVisible(x, y int) bool {
	sx, sy, size := c.CellRect(x, y)
	return sx+size >= 0 && sy+size >= 0 && sx <= c.ViewportW && sy <= c.ViewportH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center stays
// within the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.GridW)
	c.Y = clamp(c.Y-dy/c.Zoom, 0, c.GridH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera and zooms to fit the whole grid.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.Zoom = c.MinZoom
}

// VisibleCells returns the inclusive cell range visible on screen, clipped to
// the grid.
func (c *Camera) VisibleCells() (minX, minY, maxX, maxY int) {
	x0, y1 := c.ScreenToWorld(0, 0)
	x1, y0 := c.ScreenToWorld(c.ViewportW, c.ViewportH)

	minX = int(clamp(x0, 0, c.GridW-1))
	maxX = int(clamp(x1, 0, c.GridW-1))
	minY = int(clamp(y0, 0, c.GridH-1))
	maxY = int(clamp(y1, 0, c.GridH-1))
	return
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
