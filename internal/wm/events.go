package wm

import (
	"github.com/1broseidon/bsptile/internal/platform"
)

// HandleEvent applies a per-window notification. Display and work-area
// changes are ignored here; the daemon re-enumerates monitors and calls
// HandleDisplayChange.
func (m *Manager) HandleEvent(ev platform.Event) {
	switch ev.Kind {
	case platform.EventCreated, platform.EventRestored:
		m.onShown(ev.Window)
	case platform.EventDestroyed:
		m.onDestroyed(ev.Window)
	case platform.EventMinimized:
		m.onMinimized(ev.Window)
	case platform.EventMoved:
		m.onMoved(ev.Window)
	case platform.EventFocused:
		m.onFocused(ev.Window)
	case platform.EventLocationChanged:
		m.onLocationChanged(ev.Window)
	case platform.EventTitleChanged:
		m.logger.Debug("title changed", "window", ev.Window, "title", m.backend.Title(ev.Window))
	default:
		m.logger.Debug("ignoring event", "kind", ev.Kind.String(), "window", ev.Window)
	}
}

// onShown tiles a new or restored window on the focused monitor.
func (m *Manager) onShown(id platform.WindowID) {
	if _, _, ok := m.Locate(id); ok {
		return
	}
	if !m.manageable(id) {
		return
	}
	mi := m.focusedMon
	m.monitors[mi].ActiveWorkspace().Add(id)
	promote(m.monitors[mi].ActiveWorkspace(), id)
	m.maximized[id] = m.backend.IsMaximized(id)
	m.logger.Debug("managing window", "window", id, "monitor", mi, "class", m.backend.Class(id))
	m.retile(mi)
	m.focus(mi, id)
}

func (m *Manager) onDestroyed(id platform.WindowID) {
	if m.origin.isHidden(id) {
		return
	}
	mi, wi, ok := m.Locate(id)
	if !ok {
		if m.focused == id {
			m.clearFocus(m.focusedMon)
		}
		return
	}
	mon := m.monitors[mi]
	mon.Workspaces[wi].Remove(id)
	m.forget(id)
	if wi == mon.Active {
		m.retile(mi)
	} else {
		m.refreshBorder()
	}
}

// onMinimized removes a window the user minimized from its layout. Windows
// hidden by a workspace switch are ignored.
func (m *Manager) onMinimized(id platform.WindowID) {
	if m.origin.isHidden(id) {
		return
	}
	mi, wi, ok := m.Locate(id)
	if !ok || wi != m.monitors[mi].Active {
		return
	}
	m.monitors[mi].ActiveWorkspace().Remove(id)
	m.forget(id)
	m.retile(mi)
}

// onMoved handles the end of a user move or resize: a window dropped on
// another monitor migrates there, anything else snaps back into the layout.
func (m *Manager) onMoved(id platform.WindowID) {
	if m.origin.inLayout() {
		return
	}
	mi, wi, ok := m.Locate(id)
	if !ok || wi != m.monitors[mi].Active {
		return
	}
	if m.backend.IsMaximized(id) {
		m.maximized[id] = true
		if m.focused == id {
			m.refreshBorder()
		}
		return
	}
	m.maximized[id] = false

	r, err := m.backend.Rect(id)
	if err != nil {
		m.logger.Debug("moved window has no geometry", "window", id, "error", err)
		return
	}
	if target := m.monitorFor(r); target != mi {
		m.monitors[mi].ActiveWorkspace().Remove(id)
		m.monitors[target].ActiveWorkspace().Add(id)
		promote(m.monitors[target].ActiveWorkspace(), id)
		m.logger.Debug("window moved across monitors", "window", id, "from", mi, "to", target)
		m.retile(mi)
		if m.focused == id {
			m.focusedMon = target
		}
		m.retile(target)
		return
	}
	if placed, ok := m.placed[id]; ok && nearlyEqual(placed, r) {
		return
	}
	m.retile(mi)
}

// onFocused tracks OS focus changes. Focusing a window on an inactive
// workspace switches to that workspace.
func (m *Manager) onFocused(id platform.WindowID) {
	if owner, ok := m.backend.Owner(id); ok {
		if omi, _, tracked := m.Locate(owner); tracked {
			if mi, wi, self := m.Locate(id); self {
				m.monitors[mi].Workspaces[wi].Remove(id)
				m.forget(id)
				if wi == m.monitors[mi].Active {
					m.retile(mi)
				}
			}
			m.focusedMon = omi
			m.focused = owner
			m.refreshBorder()
			return
		}
	}

	mi, wi, ok := m.Locate(id)
	if !ok {
		return
	}
	mon := m.monitors[mi]
	if wi != mon.Active {
		m.logger.Debug("focus moved to inactive workspace", "window", id, "monitor", mi, "workspace", wi+1)
		promote(&mon.Workspaces[wi], id)
		m.switchWorkspace(mi, wi)
		m.focused = id
		m.retile(mi)
		m.focus(mi, id)
		return
	}
	m.focusedMon = mi
	m.focused = id
	if m.stacked[id] {
		promote(mon.ActiveWorkspace(), id)
		m.retile(mi)
		return
	}
	m.refreshBorder()
}

// onLocationChanged reacts to maximize and restore of the focused window.
func (m *Manager) onLocationChanged(id platform.WindowID) {
	if id != m.focused {
		return
	}
	mi, wi, ok := m.Locate(id)
	if !ok || wi != m.monitors[mi].Active {
		return
	}
	now := m.backend.IsMaximized(id)
	if now == m.maximized[id] {
		return
	}
	m.maximized[id] = now
	if now {
		m.refreshBorder()
		return
	}
	m.retile(mi)
}
