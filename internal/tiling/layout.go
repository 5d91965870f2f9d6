package tiling

import (
	"github.com/1broseidon/bsptile/internal/platform"
)

// DefaultRatio is used when a layout is asked for a ratio outside (0, 1).
const DefaultRatio = 0.5

// Placement assigns a window to a screen rect.
type Placement struct {
	ID   platform.WindowID
	Rect platform.Rect
}

// Layout computes placements for an ordered list of windows. Implementations
// must be pure: identical inputs give identical outputs.
type Layout interface {
	Apply(ids []platform.WindowID, area platform.Rect, gap int, ratio float64) []Placement
}

// BSP is a binary space partition layout. The first window takes ratio of
// the region, the remainder is split again in the other orientation, and
// the last window fills whatever is left. The first split is side by side.
type BSP struct{}

var _ Layout = BSP{}

// Apply pads area by gap on every side and partitions it among ids.
// Every returned rect is at least 1x1.
func (BSP) Apply(ids []platform.WindowID, area platform.Rect, gap int, ratio float64) []Placement {
	if len(ids) == 0 {
		return nil
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultRatio
	}

	region := area.Inset(gap)
	out := make([]Placement, 0, len(ids))
	sideBySide := true

	for i, id := range ids {
		if i == len(ids)-1 {
			out = append(out, Placement{ID: id, Rect: region})
			break
		}

		var first platform.Rect
		first, region = split(region, ratio, sideBySide)
		out = append(out, Placement{ID: id, Rect: first})
		sideBySide = !sideBySide
	}
	return out
}

// split cuts r into a leading part of the given share and the remainder.
func split(r platform.Rect, ratio float64, sideBySide bool) (platform.Rect, platform.Rect) {
	if sideBySide {
		w := max(1, int(float64(r.Width)*ratio))
		rest := max(1, r.Width-w)
		return platform.Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
			platform.Rect{X: r.X + w, Y: r.Y, Width: rest, Height: r.Height}
	}
	h := max(1, int(float64(r.Height)*ratio))
	rest := max(1, r.Height-h)
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		platform.Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: rest}
}
