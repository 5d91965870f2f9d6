package daemon

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/1broseidon/bsptile/internal/platform"
)

type fakeWindow struct {
	rect    platform.Rect
	class   string
	visible bool
	cloaked bool
}

// fakeBackend is shared between the consumer goroutine and the test, so
// every method locks.
type fakeBackend struct {
	mu       sync.Mutex
	monitors []platform.Monitor
	order    []platform.WindowID
	windows  map[platform.WindowID]*fakeWindow
	uncloaks []platform.WindowID
}

var errNoWindow = errors.New("no such window")

func newFakeBackend(monitors ...platform.Monitor) *fakeBackend {
	return &fakeBackend{
		monitors: monitors,
		windows:  make(map[platform.WindowID]*fakeWindow),
	}
}

func (f *fakeBackend) addWindow(id platform.WindowID, r platform.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[id] = &fakeWindow{rect: r, class: "kitty", visible: true}
	f.order = append(f.order, id)
}

func (f *fakeBackend) setVisible(id platform.WindowID, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[id]; ok {
		w.visible = visible
	}
}

func (f *fakeBackend) setMonitors(monitors ...platform.Monitor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitors = monitors
}

func (f *fakeBackend) uncloaked() []platform.WindowID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.uncloaks)
}

func (f *fakeBackend) Monitors() ([]platform.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.monitors), nil
}

func (f *fakeBackend) Windows() ([]platform.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.order), nil
}

func (f *fakeBackend) Title(platform.WindowID) string { return "shell" }

func (f *fakeBackend) Class(id platform.WindowID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[id]; ok {
		return w.class
	}
	return ""
}

func (f *fakeBackend) Rect(id platform.WindowID) (platform.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return platform.Rect{}, errNoWindow
	}
	return w.rect, nil
}

func (f *fakeBackend) SetRect(id platform.WindowID, r platform.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return errNoWindow
	}
	w.rect = r
	return nil
}

func (f *fakeBackend) IsVisible(id platform.WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	return ok && w.visible && !w.cloaked
}

func (f *fakeBackend) IsAppWindow(id platform.WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.windows[id]
	return ok
}

func (f *fakeBackend) IsMaximized(platform.WindowID) bool { return false }

func (f *fakeBackend) Owner(platform.WindowID) (platform.WindowID, bool) {
	return platform.NoWindow, false
}

func (f *fakeBackend) Minimize(id platform.WindowID) error { return f.Hide(id) }

func (f *fakeBackend) Hide(id platform.WindowID) error {
	f.setVisible(id, false)
	return nil
}

func (f *fakeBackend) Show(id platform.WindowID) error {
	f.setVisible(id, true)
	return nil
}

func (f *fakeBackend) Cloak(id platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[id]; ok {
		w.cloaked = true
	}
	return nil
}

func (f *fakeBackend) Uncloak(id platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uncloaks = append(f.uncloaks, id)
	if w, ok := f.windows[id]; ok {
		w.cloaked = false
	}
	return nil
}

func (f *fakeBackend) ForceShow(id platform.WindowID) error { return f.Uncloak(id) }

func (f *fakeBackend) SetForeground(platform.WindowID) error { return nil }

func (f *fakeBackend) Close(platform.WindowID) error { return nil }

// fakeEvents lets a test inject notifications into the daemon.
type fakeEvents struct {
	ch chan platform.Event
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{ch: make(chan platform.Event, 16)}
}

func (e *fakeEvents) Run(ctx context.Context, emit func(platform.Event)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-e.ch:
			emit(ev)
		}
	}
}

type fakeHotkeys struct {
	mu       sync.Mutex
	bound    map[string]func()
	unbinds  int
	failKeys map[string]bool
}

func newFakeHotkeys() *fakeHotkeys {
	return &fakeHotkeys{bound: make(map[string]func())}
}

func (h *fakeHotkeys) Bind(seq string, fn func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failKeys[seq] {
		return errors.New("grab failed")
	}
	h.bound[seq] = fn
	return nil
}

func (h *fakeHotkeys) UnbindAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bound = make(map[string]func())
	h.unbinds++
}

func (h *fakeHotkeys) press(seq string) bool {
	h.mu.Lock()
	fn, ok := h.bound[seq]
	h.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

func (h *fakeHotkeys) has(seq string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.bound[seq]
	return ok
}

func (h *fakeHotkeys) unbindCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unbinds
}
