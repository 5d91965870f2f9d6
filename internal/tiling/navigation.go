package tiling

import (
	"fmt"

	"github.com/1broseidon/bsptile/internal/platform"
)

// Direction is a spatial navigation direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// ParseDirection parses "left", "right", "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// FindNeighbor returns the placement adjacent to focused in direction dir.
//
// A candidate's center must lie strictly beyond the focused center along the
// movement axis and it must overlap the focused rect on the other axis. The
// smallest non-negative edge gap wins; ties go to the smallest y for
// horizontal moves and the smallest x for vertical moves.
func FindNeighbor(positions []Placement, focused platform.Rect, dir Direction) (platform.WindowID, bool) {
	fx, fy := focused.Center()

	best := platform.NoWindow
	bestGap, bestTie := 0, 0
	found := false

	for _, p := range positions {
		cx, cy := p.Rect.Center()

		var beyond bool
		var gap, tie int
		switch dir {
		case Right:
			beyond = cx > fx && focused.OverlapY(p.Rect) > 0
			gap, tie = p.Rect.X-focused.Right(), p.Rect.Y
		case Left:
			beyond = cx < fx && focused.OverlapY(p.Rect) > 0
			gap, tie = focused.X-p.Rect.Right(), p.Rect.Y
		case Down:
			beyond = cy > fy && focused.OverlapX(p.Rect) > 0
			gap, tie = p.Rect.Y-focused.Bottom(), p.Rect.X
		case Up:
			beyond = cy < fy && focused.OverlapX(p.Rect) > 0
			gap, tie = focused.Y-p.Rect.Bottom(), p.Rect.X
		}
		if !beyond || gap < 0 {
			continue
		}

		if !found || gap < bestGap || (gap == bestGap && tie < bestTie) {
			best, bestGap, bestTie = p.ID, gap, tie
			found = true
		}
	}
	return best, found
}

// FindEntry picks the window focus should land on when it enters a monitor
// moving in direction dir.
//
// Horizontal entry picks the topmost window, tie-broken toward the entry
// edge. Vertical entry picks the window nearest the entry edge, tie-broken
// by the smallest x.
func FindEntry(positions []Placement, dir Direction) (platform.WindowID, bool) {
	if len(positions) == 0 {
		return platform.NoWindow, false
	}

	better := func(a, b platform.Rect) bool {
		switch dir {
		case Right:
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		case Left:
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.Right() > b.Right()
		case Down:
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		default:
			if a.Bottom() != b.Bottom() {
				return a.Bottom() > b.Bottom()
			}
			return a.X < b.X
		}
	}

	best := positions[0]
	for _, p := range positions[1:] {
		if better(p.Rect, best.Rect) {
			best = p
		}
	}
	return best.ID, true
}
