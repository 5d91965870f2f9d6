package wm

import (
	"fmt"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/tiling"
)

// HandleAction executes a user command against the focused monitor. Only
// workspace numbers beyond the configured count are reported as errors;
// every other no-op is silent.
func (m *Manager) HandleAction(a action.Action) error {
	switch a.Kind {
	case action.Focus:
		m.focusDirection(a.Dir)
	case action.Move:
		m.moveDirection(a.Dir)
	case action.Retile:
		m.retileAll()
	case action.ToggleMonocle:
		m.toggleMonocle()
	case action.CloseFocused:
		if m.focused != platform.NoWindow {
			if err := m.backend.Close(m.focused); err != nil {
				m.logger.Warn("failed to close window", "window", m.focused, "error", err)
			}
		}
	case action.MinimizeFocused:
		if m.focused != platform.NoWindow {
			if err := m.backend.Minimize(m.focused); err != nil {
				m.logger.Warn("failed to minimize window", "window", m.focused, "error", err)
			}
		}
	case action.GoToWorkspace, action.SendToWorkspace:
		wi, err := m.workspaceIndex(a.Workspace)
		if err != nil {
			return err
		}
		if a.Kind == action.GoToWorkspace {
			m.goToWorkspace(wi)
		} else {
			m.sendToWorkspace(wi)
		}
	default:
		return fmt.Errorf("%w: %v", action.ErrUnknownAction, a.Kind)
	}
	return nil
}

func (m *Manager) workspaceIndex(n int) (int, error) {
	if n < 1 || n > m.settings.WorkspaceCount {
		return 0, fmt.Errorf("workspace %d: %w (configured: %d)", n, action.ErrWorkspaceRange, m.settings.WorkspaceCount)
	}
	return n - 1, nil
}

// focusedRect returns the layout rect of the focused window if it is tiled
// on the active workspace of the focused monitor.
func (m *Manager) focusedRect(positions []tiling.Placement) (platform.Rect, bool) {
	if m.focused == platform.NoWindow {
		return platform.Rect{}, false
	}
	for _, p := range positions {
		if p.ID == m.focused {
			return p.Rect, true
		}
	}
	return platform.Rect{}, false
}

// focusDirection moves focus spatially, overflowing horizontally onto the
// adjacent monitor.
func (m *Manager) focusDirection(dir tiling.Direction) {
	mi := m.focusedMon
	positions := m.positions(mi)
	if rect, ok := m.focusedRect(positions); ok {
		if id, found := tiling.FindNeighbor(positions, rect, dir); found {
			m.focus(mi, id)
			return
		}
	}
	if !dir.Horizontal() {
		return
	}
	if target, ok := m.adjacentMonitor(mi, dir); ok {
		m.enterMonitor(target, dir)
	}
}

// enterMonitor focuses the window nearest the edge crossed when arriving on
// monitor mi in direction dir.
func (m *Manager) enterMonitor(mi int, dir tiling.Direction) {
	ws := m.monitors[mi].ActiveWorkspace()
	if ws.Monocle() {
		if target, ok := ws.MonocleTarget(); ok {
			m.focus(mi, target)
			return
		}
	}
	if id, ok := tiling.FindEntry(m.positions(mi), dir); ok {
		m.focus(mi, id)
		return
	}
	m.clearFocus(mi)
}

// adjacentMonitor returns the nearest monitor strictly left or right of
// monitor mi by center x.
func (m *Manager) adjacentMonitor(mi int, dir tiling.Direction) (int, bool) {
	cx, _ := m.monitors[mi].Bounds.Center()
	best, bestX := -1, 0
	for i, mon := range m.monitors {
		if i == mi {
			continue
		}
		x, _ := mon.Bounds.Center()
		switch dir {
		case tiling.Right:
			if x > cx && (best < 0 || x < bestX) {
				best, bestX = i, x
			}
		case tiling.Left:
			if x < cx && (best < 0 || x > bestX) {
				best, bestX = i, x
			}
		}
	}
	return best, best >= 0
}

// moveDirection swaps the focused window with its spatial neighbor, or
// hands it to the adjacent monitor at the near edge.
func (m *Manager) moveDirection(dir tiling.Direction) {
	mi := m.focusedMon
	id := m.focused
	ws := m.monitors[mi].ActiveWorkspace()
	if id == platform.NoWindow || !ws.Contains(id) {
		return
	}
	positions := m.positions(mi)
	if rect, ok := m.focusedRect(positions); ok {
		if other, found := tiling.FindNeighbor(positions, rect, dir); found {
			ws.Swap(ws.IndexOf(id), ws.IndexOf(other))
			m.retile(mi)
			return
		}
	}
	if !dir.Horizontal() {
		return
	}
	target, ok := m.adjacentMonitor(mi, dir)
	if !ok {
		return
	}
	ws.Remove(id)
	dest := m.monitors[target].ActiveWorkspace()
	if dir == tiling.Right {
		dest.InsertAt(0, id)
	} else {
		dest.Add(id)
	}
	promote(dest, id)
	m.retile(mi)
	m.focusedMon = target
	m.retile(target)
	m.focus(target, id)
}

func (m *Manager) toggleMonocle() {
	mi := m.focusedMon
	ws := m.monitors[mi].ActiveWorkspace()
	on := !ws.Monocle()
	ws.SetMonocle(on, m.focused)
	m.logger.Debug("monocle toggled", "monitor", mi, "on", on)
	m.retile(mi)
	if !on {
		return
	}
	target, ok := ws.MonocleTarget()
	if !ok {
		target, ok = ws.First()
	}
	if ok {
		m.focus(mi, target)
	}
}

// switchWorkspace hides the active workspace of monitor mi and shows wi.
// It does not retile.
func (m *Manager) switchWorkspace(mi, wi int) {
	m.concealActive(mi)
	m.monitors[mi].Active = wi
	m.revealActive(mi, platform.NoWindow)
}

func (m *Manager) goToWorkspace(wi int) {
	mi := m.focusedMon
	if wi == m.monitors[mi].Active {
		return
	}
	m.logger.Debug("switching workspace", "monitor", mi, "workspace", wi+1)
	m.switchWorkspace(mi, wi)
	m.focused = platform.NoWindow
	m.retile(mi)
	m.focusWorkspace(mi)
}

// focusWorkspace focuses the monocle target or first window of the active
// workspace on monitor mi.
func (m *Manager) focusWorkspace(mi int) {
	ws := m.monitors[mi].ActiveWorkspace()
	if ws.Monocle() {
		if target, ok := ws.MonocleTarget(); ok {
			m.focus(mi, target)
			return
		}
	}
	if id, ok := ws.First(); ok {
		m.focus(mi, id)
		return
	}
	m.clearFocus(mi)
}

// sendToWorkspace moves the focused window to workspace wi and follows it.
func (m *Manager) sendToWorkspace(wi int) {
	mi := m.focusedMon
	mon := m.monitors[mi]
	id := m.focused
	if wi == mon.Active || id == platform.NoWindow || !mon.ActiveWorkspace().Contains(id) {
		return
	}
	mon.ActiveWorkspace().Remove(id)
	mon.Workspaces[wi].Add(id)
	promote(&mon.Workspaces[wi], id)
	m.unstack(id)
	m.logger.Debug("sending window to workspace", "window", id, "monitor", mi, "workspace", wi+1)

	m.concealActive(mi)
	mon.Active = wi
	m.revealActive(mi, id)
	m.retile(mi)
	m.focus(mi, id)
}
