// Package wm is the tiling state machine. It owns every monitor and
// workspace, reacts to window-system events and user actions, and drives
// the platform backend.
//
// A Manager is not safe for concurrent use. The daemon serializes all calls
// through a single consumer goroutine.
package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/rules"
	"github.com/1broseidon/bsptile/internal/tiling"
)

// ErrNoMonitors is returned by New when the backend reports no displays.
var ErrNoMonitors = errors.New("no monitors detected")

// snapTolerance absorbs the decoration offsets some window managers apply
// on top of a requested geometry. A Moved notification within it of the
// placed rect is treated as the echo of our own SetRect and never retiles.
const snapTolerance = 48

// Manager is the tiling state machine.
type Manager struct {
	backend platform.Backend
	border  platform.Border
	layout  tiling.Layout
	rules   *rules.Set
	logger  *slog.Logger
	now     func() time.Time

	settings Settings
	monitors []*Monitor

	focusedMon int
	focused    platform.WindowID

	origin    origin
	maximized map[platform.WindowID]bool
	placed    map[platform.WindowID]platform.Rect
	stacked   map[platform.WindowID]bool
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLayout replaces the BSP layout engine.
func WithLayout(l tiling.Layout) Option {
	return func(m *Manager) { m.layout = l }
}

// WithClock replaces time.Now for settle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New enumerates monitors and windows, tiles every manageable window on the
// monitor containing it and focuses the first window of the primary monitor.
// border and logger may be nil.
func New(backend platform.Backend, border platform.Border, set *rules.Set, settings Settings, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if settings.WorkspaceCount <= 0 {
		settings.WorkspaceCount = DefaultWorkspaceCount
	}
	m := &Manager{
		backend:   backend,
		border:    border,
		layout:    tiling.BSP{},
		rules:     set,
		logger:    logger,
		now:       time.Now,
		settings:  settings,
		origin:    newOrigin(),
		maximized: make(map[platform.WindowID]bool),
		placed:    make(map[platform.WindowID]platform.Rect),
		stacked:   make(map[platform.WindowID]bool),
	}
	for _, opt := range opts {
		opt(m)
	}

	pms, err := backend.Monitors()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}
	if len(pms) == 0 {
		return nil, ErrNoMonitors
	}
	for _, pm := range sortMonitors(pms) {
		m.monitors = append(m.monitors, newMonitor(pm, settings.WorkspaceCount))
	}
	m.applyBars()
	if m.border != nil {
		m.border.Configure(settings.Border)
	}

	ids, err := backend.Windows()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}
	for _, id := range ids {
		if !m.manageable(id) {
			continue
		}
		r, err := backend.Rect(id)
		if err != nil {
			m.logger.Debug("skipping window without geometry", "window", id, "error", err)
			continue
		}
		mi := m.monitorFor(r)
		m.monitors[mi].ActiveWorkspace().Add(id)
		m.maximized[id] = backend.IsMaximized(id)
	}

	m.focusedMon = m.fallbackMonitor()
	m.retileAll()
	if id, ok := m.monitors[m.focusedMon].ActiveWorkspace().First(); ok {
		m.focus(m.focusedMon, id)
	}

	m.logger.Info("tiling manager started",
		"monitors", len(m.monitors),
		"windows", m.trackedCount(),
		"hiding", m.settings.Hiding.String())
	return m, nil
}

// Settings returns the active settings.
func (m *Manager) Settings() Settings {
	return m.settings
}

// Focused returns the focused window and the index of the focused monitor.
func (m *Manager) Focused() (platform.WindowID, int) {
	return m.focused, m.focusedMon
}

// Locate returns the monitor and workspace indices holding id.
func (m *Manager) Locate(id platform.WindowID) (mon, ws int, ok bool) {
	for mi, mon := range m.monitors {
		if wi, found := mon.find(id); found {
			return mi, wi, true
		}
	}
	return -1, -1, false
}

// manageable reports whether id should be tiled.
func (m *Manager) manageable(id platform.WindowID) bool {
	if id == platform.NoWindow {
		return false
	}
	if !m.backend.IsAppWindow(id) || !m.backend.IsVisible(id) {
		return false
	}
	if _, owned := m.backend.Owner(id); owned {
		return false
	}
	return m.rules.ShouldManage(m.backend.Class(id), m.backend.Title(id))
}

// monitorFor returns the monitor containing the center of r, else the
// monitor nearest to it.
func (m *Manager) monitorFor(r platform.Rect) int {
	cx, cy := r.Center()
	for i, mon := range m.monitors {
		if mon.Bounds.Contains(cx, cy) {
			return i
		}
	}
	best, bestDist := m.fallbackMonitor(), -1
	for i, mon := range m.monitors {
		d := mon.Bounds.DistanceSq(cx, cy)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// fallbackMonitor is the primary monitor, else the first.
func (m *Manager) fallbackMonitor() int {
	for i, mon := range m.monitors {
		if mon.Primary {
			return i
		}
	}
	return 0
}

func (m *Manager) applyBars() {
	for i, mon := range m.monitors {
		height := 0
		for _, bi := range m.settings.BarMonitors {
			if bi == i {
				height = m.settings.BarHeight
				break
			}
		}
		mon.applyBar(height)
	}
}

func (m *Manager) retileAll() {
	for i := range m.monitors {
		m.retile(i)
	}
}

// retile prunes stale windows from the active workspace of monitor mi and
// applies its layout. Maximized windows keep their slot but are not moved.
func (m *Manager) retile(mi int) {
	if mi < 0 || mi >= len(m.monitors) {
		return
	}
	mon := m.monitors[mi]
	m.pruneActive(mi)
	ws := mon.ActiveWorkspace()
	placements := ws.ComputeLayout(m.layout, mon.Area, m.settings.Gap, m.settings.Ratio, m.focused)

	if m.origin.beginLayout() {
		defer m.origin.endLayout()
	}
	for _, p := range placements {
		if m.maximized[p.ID] {
			continue
		}
		if err := m.backend.SetRect(p.ID, p.Rect); err != nil {
			m.logger.Warn("failed to position window", "window", p.ID, "error", err)
			continue
		}
		m.placed[p.ID] = p.Rect
	}
	m.syncStack(mi, placements)
	m.refreshBorder()
}

// pruneActive drops windows that vanished without a notification. It
// reports whether anything was removed.
func (m *Manager) pruneActive(mi int) bool {
	ws := m.monitors[mi].ActiveWorkspace()
	now := m.now()
	removed := false
	for _, id := range ws.Handles() {
		if m.stacked[id] || m.backend.IsVisible(id) || m.origin.isHidden(id) || m.origin.settling(id, now) {
			continue
		}
		m.logger.Debug("pruning stale window", "window", id, "monitor", mi)
		ws.Remove(id)
		m.forget(id)
		removed = true
	}
	return removed
}

// forget drops per-window caches and clears focus if id held it.
func (m *Manager) forget(id platform.WindowID) {
	delete(m.maximized, id)
	delete(m.placed, id)
	delete(m.stacked, id)
	m.origin.forget(id)
	if m.focused == id {
		m.focused = platform.NoWindow
	}
}

// positions is the current layout of monitor mi without side effects.
func (m *Manager) positions(mi int) []tiling.Placement {
	mon := m.monitors[mi]
	return mon.ActiveWorkspace().ComputeLayout(m.layout, mon.Area, m.settings.Gap, m.settings.Ratio, m.focused)
}

// focus makes id the focused window on monitor mi and raises it.
func (m *Manager) focus(mi int, id platform.WindowID) {
	m.focusedMon = mi
	m.focused = id
	if id != platform.NoWindow {
		if err := m.backend.SetForeground(id); err != nil {
			m.logger.Warn("failed to focus window", "window", id, "error", err)
		}
	}
	m.refreshBorder()
}

// clearFocus forgets the focused window but keeps the focused monitor.
func (m *Manager) clearFocus(mi int) {
	m.focusedMon = mi
	m.focused = platform.NoWindow
	m.refreshBorder()
}

// refreshBorder redraws the focus border around the focused window.
func (m *Manager) refreshBorder() {
	if m.border == nil {
		return
	}
	if m.focused == platform.NoWindow {
		m.border.Hide()
		return
	}
	mi, wi, ok := m.Locate(m.focused)
	if !ok || wi != m.monitors[mi].Active {
		m.border.Hide()
		return
	}
	r, placed := m.placed[m.focused]
	if !placed || m.maximized[m.focused] {
		var err error
		if r, err = m.backend.Rect(m.focused); err != nil {
			m.border.Hide()
			return
		}
	}
	monocle := m.monitors[mi].ActiveWorkspace().Monocle()
	if err := m.border.Show(m.focused, r, monocle); err != nil {
		m.logger.Debug("failed to draw border", "window", m.focused, "error", err)
	}
}

// hideWindow removes id from view with strategy h.
func (m *Manager) hideWindow(id platform.WindowID, h Hiding) {
	if h.echoes() {
		m.origin.markHidden(id)
	}
	var err error
	switch h {
	case HideHide:
		err = m.backend.Hide(id)
	case HideMinimize:
		err = m.backend.Minimize(id)
	default:
		err = m.backend.Cloak(id)
	}
	if err != nil {
		m.logger.Warn("failed to hide window", "window", id, "strategy", h.String(), "error", err)
	}
}

// showWindow reverses hideWindow for strategy h.
func (m *Manager) showWindow(id platform.WindowID, h Hiding) {
	m.origin.markShown(id, m.now())
	var err error
	switch h {
	case HideHide, HideMinimize:
		err = m.backend.Show(id)
	default:
		err = m.backend.Uncloak(id)
	}
	if err != nil {
		m.logger.Warn("failed to show window", "window", id, "strategy", h.String(), "error", err)
	}
}

func (m *Manager) trackedCount() int {
	n := 0
	for _, mon := range m.monitors {
		for i := range mon.Workspaces {
			n += mon.Workspaces[i].Len()
		}
	}
	return n
}

// Tick prunes stale windows on every monitor and retiles the ones that
// changed.
func (m *Manager) Tick() {
	for mi := range m.monitors {
		if m.pruneActive(mi) {
			m.retile(mi)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func nearlyEqual(a, b platform.Rect) bool {
	return abs(a.X-b.X) <= snapTolerance &&
		abs(a.Y-b.Y) <= snapTolerance &&
		abs(a.Width-b.Width) <= snapTolerance &&
		abs(a.Height-b.Height) <= snapTolerance
}
