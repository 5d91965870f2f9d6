package wm

import (
	"github.com/1broseidon/bsptile/internal/platform"
)

// WorkspaceSnapshot describes one workspace. Number is 1-based.
type WorkspaceSnapshot struct {
	Number  int                 `json:"number"`
	Windows []platform.WindowID `json:"windows"`
	Monocle bool                `json:"monocle,omitempty"`
}

// MonitorSnapshot describes one monitor. Workspaces lists the active
// workspace and every non-empty one; WindowCounts covers all of them.
type MonitorSnapshot struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Primary         bool                `json:"primary,omitempty"`
	Area            platform.Rect       `json:"area"`
	ActiveWorkspace int                 `json:"active_workspace"`
	WorkspaceCount  int                 `json:"workspace_count"`
	Monocle         bool                `json:"monocle"`
	FocusedWindow   platform.WindowID   `json:"focused_window,omitempty"`
	WindowCounts    []int               `json:"window_counts"`
	Workspaces      []WorkspaceSnapshot `json:"workspaces"`
}

// Snapshot is a read-only view of the manager state.
type Snapshot struct {
	Monitors       []MonitorSnapshot `json:"monitors"`
	FocusedMonitor int               `json:"focused_monitor"`
	FocusedWindow  platform.WindowID `json:"focused_window,omitempty"`
	Hiding         string            `json:"hiding_behaviour"`
	Managed        int               `json:"managed_windows"`
}

// Snapshot copies the current state.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{
		FocusedMonitor: m.focusedMon,
		FocusedWindow:  m.focused,
		Hiding:         m.settings.Hiding.String(),
		Managed:        m.trackedCount(),
	}
	for mi, mon := range m.monitors {
		ms := MonitorSnapshot{
			ID:              mon.ID,
			Name:            mon.Name,
			Primary:         mon.Primary,
			Area:            mon.Area,
			ActiveWorkspace: mon.Active + 1,
			WorkspaceCount:  len(mon.Workspaces),
			Monocle:         mon.ActiveWorkspace().Monocle(),
			WindowCounts:    make([]int, len(mon.Workspaces)),
		}
		if mi == m.focusedMon {
			ms.FocusedWindow = m.focused
		}
		for wi := range mon.Workspaces {
			ws := &mon.Workspaces[wi]
			ms.WindowCounts[wi] = ws.Len()
			if ws.Empty() && wi != mon.Active {
				continue
			}
			ms.Workspaces = append(ms.Workspaces, WorkspaceSnapshot{
				Number:  wi + 1,
				Windows: ws.Handles(),
				Monocle: ws.Monocle(),
			})
		}
		snap.Monitors = append(snap.Monitors, ms)
	}
	return snap
}
