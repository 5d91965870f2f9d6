package wm

import (
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/tiling"
)

// Windows of an active workspace that its layout does not place (every
// window but one in monocle) are stacked: hidden with the configured
// strategy while staying tiled where they are.

// promote makes id the window a monocle workspace shows.
func promote(ws *tiling.Workspace, id platform.WindowID) {
	if ws.Monocle() {
		ws.SetMonocle(true, id)
	}
}

// syncStack hides the windows of monitor mi's active workspace missing from
// placements and shows stacked windows that are placed again.
func (m *Manager) syncStack(mi int, placements []tiling.Placement) {
	placed := make(map[platform.WindowID]bool, len(placements))
	for _, p := range placements {
		placed[p.ID] = true
	}
	for _, id := range m.monitors[mi].ActiveWorkspace().Handles() {
		switch {
		case !placed[id] && !m.stacked[id]:
			m.stacked[id] = true
			m.hideWindow(id, m.settings.Hiding)
		case placed[id] && m.stacked[id]:
			m.unstack(id)
		}
	}
}

// unstack shows id if it is stacked.
func (m *Manager) unstack(id platform.WindowID) {
	if !m.stacked[id] {
		return
	}
	delete(m.stacked, id)
	m.showWindow(id, m.settings.Hiding)
}

// concealActive hides the active workspace of monitor mi. Stacked windows
// are already hidden and simply become part of the inactive workspace.
func (m *Manager) concealActive(mi int) {
	for _, id := range m.monitors[mi].ActiveWorkspace().Handles() {
		if m.stacked[id] {
			delete(m.stacked, id)
			continue
		}
		m.hideWindow(id, m.settings.Hiding)
	}
}

// revealActive shows the active workspace of monitor mi, except skip. A
// window the layout will not place stays hidden and is stacked.
func (m *Manager) revealActive(mi int, skip platform.WindowID) {
	shown := make(map[platform.WindowID]bool)
	for _, p := range m.positions(mi) {
		shown[p.ID] = true
	}
	for _, id := range m.monitors[mi].ActiveWorkspace().Handles() {
		switch {
		case id == skip:
		case !shown[id]:
			m.stacked[id] = true
		default:
			m.showWindow(id, m.settings.Hiding)
		}
	}
}
