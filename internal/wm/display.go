package wm

import (
	"slices"

	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/rules"
)

// HandleDisplayChange reconciles monitor state with a fresh enumeration.
// Monitors are matched by id, then by top-left corner. Windows of monitors
// that disappeared move to the active workspace of the fallback monitor.
// An empty list is ignored; an unchanged topology is a no-op.
func (m *Manager) HandleDisplayChange(pms []platform.Monitor) {
	if len(pms) == 0 {
		m.logger.Warn("ignoring display change without monitors")
		return
	}
	sorted := sortMonitors(pms)
	if sameTopology(m.monitors, sorted) {
		return
	}

	old := m.monitors
	matched := make([]bool, len(old))
	next := make([]*Monitor, len(sorted))
	from := make([]int, len(sorted))
	for i, pm := range sorted {
		from[i] = -1
		oi := slices.IndexFunc(old, func(o *Monitor) bool { return o.ID == pm.ID })
		if oi < 0 || matched[oi] {
			oi = -1
			for j, o := range old {
				if !matched[j] && o.Bounds.X == pm.Bounds.X && o.Bounds.Y == pm.Bounds.Y {
					oi = j
					break
				}
			}
		}
		mon := newMonitor(pm, m.settings.WorkspaceCount)
		if oi >= 0 {
			matched[oi] = true
			from[i] = oi
			mon.Workspaces = old[oi].Workspaces
			mon.Active = old[oi].Active
		}
		next[i] = mon
	}

	m.monitors = next
	fallback := m.fallbackMonitor()
	dest := next[fallback].ActiveWorkspace()
	for oi, o := range old {
		if matched[oi] {
			continue
		}
		for wi := range o.Workspaces {
			for _, id := range o.Workspaces[wi].Handles() {
				if wi != o.Active {
					m.showWindow(id, m.settings.Hiding)
				} else {
					m.unstack(id)
				}
				dest.Add(id)
			}
		}
		m.logger.Info("monitor removed, windows migrated", "monitor", o.Name, "to", next[fallback].Name)
	}

	focused := -1
	for i, oi := range from {
		if oi == m.focusedMon {
			focused = i
			break
		}
	}
	if focused < 0 {
		focused = min(m.focusedMon, len(next)-1)
	}
	m.focusedMon = focused
	if m.focused != platform.NoWindow {
		if mi, _, ok := m.Locate(m.focused); ok {
			m.focusedMon = mi
		}
	}

	m.applyBars()
	m.logger.Info("display configuration changed", "monitors", len(next))
	m.retileAll()
}

// ReloadConfig swaps gap, ratio, hiding strategy, bar and border settings.
// The workspace count is fixed for the life of the Manager.
func (m *Manager) ReloadConfig(s Settings) {
	if s.WorkspaceCount != m.settings.WorkspaceCount {
		if s.WorkspaceCount > 0 {
			m.logger.Warn("workspace_count change requires a restart",
				"current", m.settings.WorkspaceCount, "requested", s.WorkspaceCount)
		}
		s.WorkspaceCount = m.settings.WorkspaceCount
	}
	if s.Hiding != m.settings.Hiding {
		m.logger.Info("hiding behaviour changed", "from", m.settings.Hiding.String(), "to", s.Hiding.String())
		for _, mon := range m.monitors {
			for wi := range mon.Workspaces {
				if wi == mon.Active {
					continue
				}
				for _, id := range mon.Workspaces[wi].Handles() {
					m.showWindow(id, m.settings.Hiding)
					m.hideWindow(id, s.Hiding)
				}
			}
		}
		for id := range m.stacked {
			m.showWindow(id, m.settings.Hiding)
			m.hideWindow(id, s.Hiding)
		}
	}
	m.settings = s
	if m.border != nil {
		m.border.Configure(s.Border)
	}
	m.applyBars()
	m.retileAll()
}

// ReloadRules swaps the rule set, evicts windows it no longer manages and
// adopts visible windows it now does.
func (m *Manager) ReloadRules(set *rules.Set) {
	m.rules = set
	affected := make(map[int]bool)
	for mi, mon := range m.monitors {
		for wi := range mon.Workspaces {
			for _, id := range mon.Workspaces[wi].Handles() {
				if set.ShouldManage(m.backend.Class(id), m.backend.Title(id)) {
					continue
				}
				mon.Workspaces[wi].Remove(id)
				if wi != mon.Active {
					m.showWindow(id, m.settings.Hiding)
				} else {
					m.unstack(id)
				}
				m.forget(id)
				m.logger.Debug("window no longer managed", "window", id)
				affected[mi] = true
			}
		}
	}

	if ids, err := m.backend.Windows(); err != nil {
		m.logger.Warn("failed to enumerate windows", "error", err)
	} else {
		for _, id := range ids {
			if _, _, ok := m.Locate(id); ok || !m.manageable(id) {
				continue
			}
			r, err := m.backend.Rect(id)
			if err != nil {
				continue
			}
			mi := m.monitorFor(r)
			m.monitors[mi].ActiveWorkspace().Add(id)
			m.maximized[id] = m.backend.IsMaximized(id)
			affected[mi] = true
		}
	}

	for mi := range m.monitors {
		if affected[mi] {
			m.retile(mi)
		}
	}
	m.refreshBorder()
}

// RestoreAllWindows makes every programmatically hidden window visible
// again. It is called on shutdown.
func (m *Manager) RestoreAllWindows() {
	restored := 0
	for _, mon := range m.monitors {
		for wi := range mon.Workspaces {
			if wi == mon.Active {
				continue
			}
			for _, id := range mon.Workspaces[wi].Handles() {
				m.restore(id)
				restored++
			}
		}
	}
	for id := range m.stacked {
		m.restore(id)
		restored++
	}
	clear(m.stacked)
	for _, id := range m.origin.hiddenIDs() {
		if _, _, ok := m.Locate(id); ok {
			continue
		}
		if err := m.backend.Show(id); err != nil {
			m.logger.Debug("failed to show window", "window", id, "error", err)
		}
	}
	m.origin.reset()
	if m.border != nil {
		m.border.Hide()
	}
	m.logger.Info("restored hidden windows", "count", restored)
}

func (m *Manager) restore(id platform.WindowID) {
	var err error
	switch m.settings.Hiding {
	case HideHide, HideMinimize:
		err = m.backend.Show(id)
	default:
		err = m.backend.Uncloak(id)
	}
	if err == nil {
		return
	}
	m.logger.Debug("show failed, forcing", "window", id, "error", err)
	if err := m.backend.ForceShow(id); err != nil {
		m.logger.Warn("failed to restore window", "window", id, "error", err)
	}
}
