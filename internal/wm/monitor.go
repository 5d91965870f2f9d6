package wm

import (
	"slices"

	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/tiling"
)

// Monitor holds per-display tiling state: a fixed array of workspaces and
// the index of the active one.
type Monitor struct {
	ID      int
	Name    string
	Bounds  platform.Rect
	Raw     platform.Rect // work area reported by the platform
	Area    platform.Rect // work area after the bar offset
	Primary bool

	Workspaces []tiling.Workspace
	Active     int
}

func newMonitor(pm platform.Monitor, workspaces int) *Monitor {
	return &Monitor{
		ID:         pm.ID,
		Name:       pm.Name,
		Bounds:     pm.Bounds,
		Raw:        pm.WorkArea,
		Area:       pm.WorkArea,
		Primary:    pm.Primary,
		Workspaces: make([]tiling.Workspace, max(1, workspaces)),
	}
}

// ActiveWorkspace returns the workspace currently shown on the monitor.
func (m *Monitor) ActiveWorkspace() *tiling.Workspace {
	return &m.Workspaces[m.Active]
}

// find returns the index of the workspace holding id.
func (m *Monitor) find(id platform.WindowID) (int, bool) {
	for i := range m.Workspaces {
		if m.Workspaces[i].Contains(id) {
			return i, true
		}
	}
	return -1, false
}

// applyBar reserves height pixels at the top of the work area.
func (m *Monitor) applyBar(height int) {
	m.Area = m.Raw
	if height <= 0 {
		return
	}
	m.Area.Y += height
	m.Area.Height = max(1, m.Area.Height-height)
}

// sortMonitors orders platform monitors left to right, then top to bottom.
func sortMonitors(in []platform.Monitor) []platform.Monitor {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b platform.Monitor) int {
		if a.Bounds.X != b.Bounds.X {
			return a.Bounds.X - b.Bounds.X
		}
		return a.Bounds.Y - b.Bounds.Y
	})
	return out
}

// sameTopology reports whether two sorted monitor lists have the same ids
// and work areas.
func sameTopology(old []*Monitor, next []platform.Monitor) bool {
	if len(old) != len(next) {
		return false
	}
	for i := range old {
		if old[i].ID != next[i].ID || old[i].Raw != next[i].WorkArea || old[i].Bounds != next[i].Bounds {
			return false
		}
	}
	return true
}
