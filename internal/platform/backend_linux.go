//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/bsptile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// cloakOffset parks cloaked windows far outside any realistic screen layout.
const cloakOffset = -32000

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
//
// X11 has no native cloaking, so Cloak parks the window off-screen while it
// stays mapped. The window manager sees a move, not an unmap.
type LinuxBackend struct {
	conn *x11.Connection

	mu      sync.Mutex
	cloaked map[WindowID]Rect
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, cloaked: make(map[WindowID]Rect)}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Connection exposes the X11 connection to the event source and border.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// Monitors returns all active monitors sorted by output id.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, Monitor{
			ID:       m.ID,
			Name:     m.Name,
			Bounds:   Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			WorkArea: Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkW, Height: m.WorkH},
			Primary:  m.Primary,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Windows lists the window manager's client windows in stacking-list order.
func (b *LinuxBackend) Windows() ([]WindowID, error) {
	clients, err := b.conn.ClientList()
	if err != nil {
		return nil, err
	}
	out := make([]WindowID, 0, len(clients))
	for _, c := range clients {
		out = append(out, WindowID(c))
	}
	return out, nil
}

func (b *LinuxBackend) Title(id WindowID) string {
	return b.conn.WindowTitle(xproto.Window(id))
}

func (b *LinuxBackend) Class(id WindowID) string {
	return b.conn.WindowClass(xproto.Window(id))
}

func (b *LinuxBackend) Rect(id WindowID) (Rect, error) {
	x, y, w, h, err := b.conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *LinuxBackend) SetRect(id WindowID, r Rect) error {
	if b.isCloaked(id) {
		// Remember the target; the window stays parked until Uncloak.
		b.mu.Lock()
		b.cloaked[id] = r
		b.mu.Unlock()
		return nil
	}
	return b.conn.MoveResizeWindow(xproto.Window(id), r.X, r.Y, r.Width, r.Height)
}

// IsVisible reports whether the window is mapped, not iconified and not
// cloaked.
func (b *LinuxBackend) IsVisible(id WindowID) bool {
	if b.isCloaked(id) {
		return false
	}
	return b.conn.IsViewable(xproto.Window(id))
}

func (b *LinuxBackend) IsAppWindow(id WindowID) bool {
	return b.conn.IsNormalWindow(xproto.Window(id))
}

func (b *LinuxBackend) IsMaximized(id WindowID) bool {
	return b.conn.IsMaximized(xproto.Window(id))
}

func (b *LinuxBackend) Owner(id WindowID) (WindowID, bool) {
	owner, ok := b.conn.TransientFor(xproto.Window(id))
	return WindowID(owner), ok
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (b *LinuxBackend) Minimize(id WindowID) error {
	return b.conn.IconifyWindow(xproto.Window(id))
}

// Hide withdraws a window by unmapping it.
func (b *LinuxBackend) Hide(id WindowID) error {
	return b.conn.UnmapWindow(xproto.Window(id))
}

// Show maps a window hidden by Hide or Minimize.
func (b *LinuxBackend) Show(id WindowID) error {
	return b.conn.MapWindow(xproto.Window(id))
}

func (b *LinuxBackend) Cloak(id WindowID) error {
	if b.isCloaked(id) {
		return nil
	}
	r, err := b.Rect(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.cloaked[id] = r
	b.mu.Unlock()
	return b.conn.MoveResizeWindow(xproto.Window(id), cloakOffset, cloakOffset, r.Width, r.Height)
}

func (b *LinuxBackend) Uncloak(id WindowID) error {
	b.mu.Lock()
	r, ok := b.cloaked[id]
	delete(b.cloaked, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	return b.conn.MoveResizeWindow(xproto.Window(id), r.X, r.Y, r.Width, r.Height)
}

// ForceShow undoes any hiding strategy and activates the window.
func (b *LinuxBackend) ForceShow(id WindowID) error {
	if err := b.Uncloak(id); err != nil {
		return err
	}
	if err := b.Show(id); err != nil {
		return err
	}
	if err := b.conn.RaiseWindow(xproto.Window(id)); err != nil {
		return err
	}
	return b.conn.FocusWindow(xproto.Window(id))
}

func (b *LinuxBackend) SetForeground(id WindowID) error {
	return b.conn.FocusWindow(xproto.Window(id))
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(id WindowID) error {
	return b.conn.CloseWindow(xproto.Window(id))
}

func (b *LinuxBackend) isCloaked(id WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.cloaked[id]
	return ok
}
