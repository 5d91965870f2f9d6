package wm

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/rules"
	"github.com/1broseidon/bsptile/internal/tiling"
)

type fakeWindow struct {
	rect      platform.Rect
	class     string
	title     string
	visible   bool
	app       bool
	maximized bool
	cloaked   bool
	owner     platform.WindowID
}

type fakeBackend struct {
	monitors []platform.Monitor
	order    []platform.WindowID
	windows  map[platform.WindowID]*fakeWindow

	setRects   []tiling.Placement
	foreground []platform.WindowID
	hidden     []platform.WindowID
	minimized  []platform.WindowID
	shown      []platform.WindowID
	cloaks     []platform.WindowID
	uncloaks   []platform.WindowID
	closed     []platform.WindowID
}

func newFakeBackend(monitors ...platform.Monitor) *fakeBackend {
	return &fakeBackend{
		monitors: monitors,
		windows:  make(map[platform.WindowID]*fakeWindow),
	}
}

// addWindow registers a visible app window.
func (f *fakeBackend) addWindow(id platform.WindowID, r platform.Rect) *fakeWindow {
	w := &fakeWindow{rect: r, class: "kitty", title: "shell", visible: true, app: true}
	f.windows[id] = w
	f.order = append(f.order, id)
	return w
}

var errNoWindow = errors.New("no such window")

func (f *fakeBackend) Monitors() ([]platform.Monitor, error) { return slices.Clone(f.monitors), nil }
func (f *fakeBackend) Windows() ([]platform.WindowID, error) { return slices.Clone(f.order), nil }

func (f *fakeBackend) Title(id platform.WindowID) string {
	if w, ok := f.windows[id]; ok {
		return w.title
	}
	return ""
}

func (f *fakeBackend) Class(id platform.WindowID) string {
	if w, ok := f.windows[id]; ok {
		return w.class
	}
	return ""
}

func (f *fakeBackend) Rect(id platform.WindowID) (platform.Rect, error) {
	w, ok := f.windows[id]
	if !ok {
		return platform.Rect{}, errNoWindow
	}
	return w.rect, nil
}

func (f *fakeBackend) SetRect(id platform.WindowID, r platform.Rect) error {
	w, ok := f.windows[id]
	if !ok {
		return errNoWindow
	}
	w.rect = r
	f.setRects = append(f.setRects, tiling.Placement{ID: id, Rect: r})
	return nil
}

func (f *fakeBackend) IsVisible(id platform.WindowID) bool {
	w, ok := f.windows[id]
	return ok && w.visible && !w.cloaked
}

func (f *fakeBackend) IsAppWindow(id platform.WindowID) bool {
	w, ok := f.windows[id]
	return ok && w.app
}

func (f *fakeBackend) IsMaximized(id platform.WindowID) bool {
	w, ok := f.windows[id]
	return ok && w.maximized
}

func (f *fakeBackend) Owner(id platform.WindowID) (platform.WindowID, bool) {
	w, ok := f.windows[id]
	if !ok || w.owner == platform.NoWindow {
		return platform.NoWindow, false
	}
	return w.owner, true
}

func (f *fakeBackend) Minimize(id platform.WindowID) error {
	f.minimized = append(f.minimized, id)
	if w, ok := f.windows[id]; ok {
		w.visible = false
	}
	return nil
}

func (f *fakeBackend) Hide(id platform.WindowID) error {
	f.hidden = append(f.hidden, id)
	if w, ok := f.windows[id]; ok {
		w.visible = false
	}
	return nil
}

func (f *fakeBackend) Show(id platform.WindowID) error {
	f.shown = append(f.shown, id)
	if w, ok := f.windows[id]; ok {
		w.visible = true
	}
	return nil
}

func (f *fakeBackend) Cloak(id platform.WindowID) error {
	f.cloaks = append(f.cloaks, id)
	if w, ok := f.windows[id]; ok {
		w.cloaked = true
	}
	return nil
}

func (f *fakeBackend) Uncloak(id platform.WindowID) error {
	f.uncloaks = append(f.uncloaks, id)
	if w, ok := f.windows[id]; ok {
		w.cloaked = false
	}
	return nil
}

func (f *fakeBackend) ForceShow(id platform.WindowID) error {
	if w, ok := f.windows[id]; ok {
		w.cloaked = false
		w.visible = true
	}
	return nil
}

func (f *fakeBackend) SetForeground(id platform.WindowID) error {
	f.foreground = append(f.foreground, id)
	return nil
}

func (f *fakeBackend) Close(id platform.WindowID) error {
	f.closed = append(f.closed, id)
	return nil
}

// lastRect returns the most recent rect applied to id.
func (f *fakeBackend) lastRect(id platform.WindowID) (platform.Rect, bool) {
	for i := len(f.setRects) - 1; i >= 0; i-- {
		if f.setRects[i].ID == id {
			return f.setRects[i].Rect, true
		}
	}
	return platform.Rect{}, false
}

type fakeBorder struct {
	cfg     platform.BorderConfig
	window  platform.WindowID
	rect    platform.Rect
	monocle bool
	visible bool
}

func (b *fakeBorder) Configure(cfg platform.BorderConfig) { b.cfg = cfg }

func (b *fakeBorder) Show(id platform.WindowID, r platform.Rect, monocle bool) error {
	b.window, b.rect, b.monocle, b.visible = id, r, monocle, true
	return nil
}

func (b *fakeBorder) Hide() { b.visible = false }

var (
	leftMonitor = platform.Monitor{
		ID: 1, Name: "DP-1", Primary: true,
		Bounds:   platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	}
	rightMonitor = platform.Monitor{
		ID: 2, Name: "DP-2",
		Bounds:   platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Gap = 0
	return s
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	backend *fakeBackend
	border  *fakeBorder
	clock   *fakeClock
	mgr     *Manager
}

// newFixture starts a manager over two side-by-side monitors with windows
// 10 and 11 on the left and 20 on the right.
func newFixture(t *testing.T, settings Settings, set *rules.Set) *fixture {
	t.Helper()
	b := newFakeBackend(leftMonitor, rightMonitor)
	b.addWindow(10, platform.Rect{X: 100, Y: 100, Width: 400, Height: 300})
	b.addWindow(11, platform.Rect{X: 600, Y: 100, Width: 400, Height: 300})
	b.addWindow(20, platform.Rect{X: 2000, Y: 100, Width: 400, Height: 300})
	return startFixture(t, b, settings, set)
}

func startFixture(t *testing.T, b *fakeBackend, settings Settings, set *rules.Set) *fixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	border := &fakeBorder{}
	mgr, err := New(b, border, set, settings, nil, WithClock(clock.now))
	require.NoError(t, err)
	return &fixture{backend: b, border: border, clock: clock, mgr: mgr}
}

// assertUnique fails if any window is tracked in more than one place.
func assertUnique(t *testing.T, m *Manager) {
	t.Helper()
	seen := make(map[platform.WindowID]bool)
	for _, mon := range m.monitors {
		for wi := range mon.Workspaces {
			for _, id := range mon.Workspaces[wi].Handles() {
				require.Falsef(t, seen[id], "window %d tracked twice", id)
				seen[id] = true
			}
		}
	}
}

func handles(m *Manager, mi, wi int) []platform.WindowID {
	return m.monitors[mi].Workspaces[wi].Handles()
}
