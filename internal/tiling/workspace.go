package tiling

import (
	"slices"

	"github.com/1broseidon/bsptile/internal/platform"
)

// Workspace is an ordered set of windows plus monocle state. Order is
// layout order.
type Workspace struct {
	handles       []platform.WindowID
	monocle       bool
	monocleTarget platform.WindowID
}

// Add appends id. It returns false if id is already present.
func (w *Workspace) Add(id platform.WindowID) bool {
	if w.Contains(id) {
		return false
	}
	w.handles = append(w.handles, id)
	return true
}

// Remove drops id. Removing the monocle target turns monocle off.
func (w *Workspace) Remove(id platform.WindowID) bool {
	i := w.IndexOf(id)
	if i < 0 {
		return false
	}
	w.handles = slices.Delete(w.handles, i, i+1)
	if w.monocleTarget == id {
		w.monocle = false
		w.monocleTarget = platform.NoWindow
	}
	return true
}

func (w *Workspace) Contains(id platform.WindowID) bool {
	return w.IndexOf(id) >= 0
}

// IndexOf returns the layout position of id, or -1.
func (w *Workspace) IndexOf(id platform.WindowID) int {
	return slices.Index(w.handles, id)
}

// Swap exchanges two layout positions. Out-of-range indices are ignored.
func (w *Workspace) Swap(i, j int) {
	if i < 0 || j < 0 || i >= len(w.handles) || j >= len(w.handles) {
		return
	}
	w.handles[i], w.handles[j] = w.handles[j], w.handles[i]
}

// InsertAt places id at index i, clamped to the valid range. It returns
// false if id is already present.
func (w *Workspace) InsertAt(i int, id platform.WindowID) bool {
	if w.Contains(id) {
		return false
	}
	i = max(0, min(i, len(w.handles)))
	w.handles = slices.Insert(w.handles, i, id)
	return true
}

// Handles returns a copy of the window order.
func (w *Workspace) Handles() []platform.WindowID {
	return slices.Clone(w.handles)
}

func (w *Workspace) Len() int {
	return len(w.handles)
}

func (w *Workspace) Empty() bool {
	return len(w.handles) == 0
}

// First returns the first window in layout order.
func (w *Workspace) First() (platform.WindowID, bool) {
	if len(w.handles) == 0 {
		return platform.NoWindow, false
	}
	return w.handles[0], true
}

func (w *Workspace) Monocle() bool {
	return w.monocle
}

// MonocleTarget returns the window monocle mode shows, if one is remembered.
func (w *Workspace) MonocleTarget() (platform.WindowID, bool) {
	if w.monocleTarget == platform.NoWindow {
		return platform.NoWindow, false
	}
	return w.monocleTarget, true
}

// SetMonocle switches monocle mode. Enabling remembers target when it is on
// this workspace; disabling forgets any target.
func (w *Workspace) SetMonocle(on bool, target platform.WindowID) {
	w.monocle = on
	w.monocleTarget = platform.NoWindow
	if on && target != platform.NoWindow && w.Contains(target) {
		w.monocleTarget = target
	}
}

// ComputeLayout returns placements for the workspace. In monocle mode a
// single window covers the padded area: the remembered target, else focused,
// else the first window.
func (w *Workspace) ComputeLayout(engine Layout, area platform.Rect, gap int, ratio float64, focused platform.WindowID) []Placement {
	if len(w.handles) == 0 {
		return nil
	}
	if w.monocle {
		id := w.monocleWindow(focused)
		return []Placement{{ID: id, Rect: area.Inset(gap)}}
	}
	return engine.Apply(w.handles, area, gap, ratio)
}

func (w *Workspace) monocleWindow(focused platform.WindowID) platform.WindowID {
	if w.monocleTarget != platform.NoWindow && w.Contains(w.monocleTarget) {
		return w.monocleTarget
	}
	if focused != platform.NoWindow && w.Contains(focused) {
		return focused
	}
	return w.handles[0]
}
