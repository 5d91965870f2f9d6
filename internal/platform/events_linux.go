//go:build linux

package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// moveSettle is how long a window must stop reporting geometry changes
// before a Moved event is emitted. X11 has no move-size-end notification.
const moveSettle = 150 * time.Millisecond

// LinuxEventSource translates X11 notifications into platform events.
//
// Client lifecycle is derived from _NET_CLIENT_LIST diffs on the root window,
// so frames created by a reparenting window manager are never reported.
type LinuxEventSource struct {
	backend *LinuxBackend
	logger  *slog.Logger

	// Only touched from the xevent goroutine.
	known map[xproto.Window]struct{}

	mu      sync.Mutex
	pending map[xproto.Window]*time.Timer
}

var _ EventSource = (*LinuxEventSource)(nil)

// NewLinuxEventSource creates an event source on the backend's connection.
func NewLinuxEventSource(b *LinuxBackend, logger *slog.Logger) *LinuxEventSource {
	return &LinuxEventSource{
		backend: b,
		logger:  logger,
		known:   make(map[xproto.Window]struct{}),
		pending: make(map[xproto.Window]*time.Timer),
	}
}

// Run subscribes to root and client notifications and runs the X event loop
// until ctx is cancelled. Hotkeys registered on the same connection are
// dispatched by this loop too.
func (s *LinuxEventSource) Run(ctx context.Context, emit func(Event)) error {
	conn := s.backend.Connection()
	xu := conn.XUtil

	root := xwindow.New(xu, conn.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		return err
	}
	if err := randr.SelectInputChecked(xu.Conn(), conn.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
		s.logger.Warn("randr screen change notifications unavailable", "error", err)
	}

	if clients, err := conn.ClientList(); err == nil {
		for _, win := range clients {
			s.known[win] = struct{}{}
			s.watch(xu, win, emit)
		}
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		s.rootProperty(xu, ev, emit)
	}).Connect(xu, conn.Root)

	xevent.HookFun(func(xu *xgbutil.XUtil, event interface{}) bool {
		if _, ok := event.(randr.ScreenChangeNotifyEvent); ok {
			emit(Event{Kind: EventDisplayChanged})
		}
		return true
	}).Connect(xu)

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.EventLoop()
	}()

	select {
	case <-ctx.Done():
		conn.Quit()
		s.stopTimers()
		return nil
	case <-done:
		s.stopTimers()
		return errors.New("x11 event loop exited")
	}
}

func (s *LinuxEventSource) rootProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent, emit func(Event)) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}

	switch name {
	case "_NET_CLIENT_LIST":
		s.syncClients(xu, emit)
	case "_NET_ACTIVE_WINDOW":
		active, err := s.backend.Connection().ActiveWindow()
		if err == nil && active != 0 {
			emit(Event{Kind: EventFocused, Window: WindowID(active)})
		}
	case "_NET_WORKAREA":
		emit(Event{Kind: EventWorkAreaChanged})
	}
}

// syncClients diffs the client list against the known set.
func (s *LinuxEventSource) syncClients(xu *xgbutil.XUtil, emit func(Event)) {
	clients, err := s.backend.Connection().ClientList()
	if err != nil {
		s.logger.Debug("client list unavailable", "error", err)
		return
	}

	current := make(map[xproto.Window]struct{}, len(clients))
	for _, win := range clients {
		current[win] = struct{}{}
		if _, ok := s.known[win]; ok {
			continue
		}
		s.known[win] = struct{}{}
		s.watch(xu, win, emit)
		emit(Event{Kind: EventCreated, Window: WindowID(win)})
	}

	for win := range s.known {
		if _, ok := current[win]; ok {
			continue
		}
		delete(s.known, win)
		xevent.Detach(xu, win)
		s.cancelSettle(win)
		emit(Event{Kind: EventDestroyed, Window: WindowID(win)})
	}
}

func (s *LinuxEventSource) watch(xu *xgbutil.XUtil, win xproto.Window, emit func(Event)) {
	if err := xwindow.New(xu, win).Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		s.logger.Debug("cannot listen on window", "window", uint32(win), "error", err)
		return
	}
	id := WindowID(win)

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		emit(Event{Kind: EventRestored, Window: id})
	}).Connect(xu, win)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		emit(Event{Kind: EventMinimized, Window: id})
	}).Connect(xu, win)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		s.settle(win, emit)
	}).Connect(xu, win)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_WM_NAME", "WM_NAME":
			emit(Event{Kind: EventTitleChanged, Window: id})
		case "_NET_WM_STATE":
			emit(Event{Kind: EventLocationChanged, Window: id})
		}
	}).Connect(xu, win)
}

// settle coalesces bursts of geometry changes into one Moved event.
func (s *LinuxEventSource) settle(win xproto.Window, emit func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[win]; ok {
		t.Reset(moveSettle)
		return
	}
	s.pending[win] = time.AfterFunc(moveSettle, func() {
		s.mu.Lock()
		delete(s.pending, win)
		s.mu.Unlock()
		emit(Event{Kind: EventMoved, Window: WindowID(win)})
	})
}

func (s *LinuxEventSource) cancelSettle(win xproto.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[win]; ok {
		t.Stop()
		delete(s.pending, win)
	}
}

func (s *LinuxEventSource) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for win, t := range s.pending {
		t.Stop()
		delete(s.pending, win)
	}
}
