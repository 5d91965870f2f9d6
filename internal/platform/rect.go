package platform

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Center returns the rect center, rounded toward the origin.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// OverlapX returns the length of the horizontal overlap between r and o.
func (r Rect) OverlapX(o Rect) int {
	return max(0, min(r.Right(), o.Right())-max(r.X, o.X))
}

// OverlapY returns the length of the vertical overlap between r and o.
func (r Rect) OverlapY(o Rect) int {
	return max(0, min(r.Bottom(), o.Bottom())-max(r.Y, o.Y))
}

// Inset shrinks r by n on every side. Each dimension stays at least 1px.
func (r Rect) Inset(n int) Rect {
	return Rect{
		X:      r.X + n,
		Y:      r.Y + n,
		Width:  max(1, r.Width-2*n),
		Height: max(1, r.Height-2*n),
	}
}

// DistanceSq returns the squared distance from the point to the nearest
// point of r.
func (r Rect) DistanceSq(x, y int) int {
	dx := 0
	if x < r.X {
		dx = r.X - x
	} else if x >= r.Right() {
		dx = x - r.Right() + 1
	}
	dy := 0
	if y < r.Y {
		dy = r.Y - y
	} else if y >= r.Bottom() {
		dy = y - r.Bottom() + 1
	}
	return dx*dx + dy*dy
}
