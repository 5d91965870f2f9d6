package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// FocusFrame is a rectangular outline made of four override-redirect windows
// so it is drawn above any client regardless of reparenting.
type FocusFrame struct {
	conn    *Connection
	sides   [4]xproto.Window // top, bottom, left, right
	created bool
	mapped  bool
}

// NewFocusFrame returns a frame bound to the connection. Windows are created
// lazily on first Show.
func NewFocusFrame(conn *Connection) *FocusFrame {
	return &FocusFrame{conn: conn}
}

// Show places the outline around the given rect with the given thickness
// and color. The outline is drawn inside the rect.
func (f *FocusFrame) Show(x, y, w, h, thickness int, color uint32) error {
	if !f.created {
		if err := f.create(); err != nil {
			return err
		}
	}

	t := max(1, thickness)
	f.place(f.sides[0], x, y, w, t, color)
	f.place(f.sides[1], x, y+h-t, w, t, color)
	f.place(f.sides[2], x, y+t, t, h-2*t, color)
	f.place(f.sides[3], x+w-t, y+t, t, h-2*t, color)

	for _, side := range f.sides {
		xproto.MapWindow(f.conn.XUtil.Conn(), side)
	}
	f.mapped = true
	return nil
}

// Hide unmaps the outline without destroying it.
func (f *FocusFrame) Hide() {
	if !f.mapped {
		return
	}
	for _, side := range f.sides {
		xproto.UnmapWindow(f.conn.XUtil.Conn(), side)
	}
	f.mapped = false
}

// Destroy releases the outline windows.
func (f *FocusFrame) Destroy() {
	if !f.created {
		return
	}
	for i, side := range f.sides {
		xproto.DestroyWindow(f.conn.XUtil.Conn(), side)
		f.sides[i] = 0
	}
	f.created = false
	f.mapped = false
}

func (f *FocusFrame) create() error {
	for i := range f.sides {
		wid, err := f.createOverrideRedirectWindow()
		if err != nil {
			f.Destroy()
			return err
		}
		f.sides[i] = wid
		f.created = true
	}
	return nil
}

func (f *FocusFrame) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := f.conn.XUtil.Conn()
	screen := f.conn.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	// Value list order follows the mask bit order: back_pixel, override_redirect.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		f.conn.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (f *FocusFrame) place(wid xproto.Window, x, y, width, height int, color uint32) {
	conn := f.conn.XUtil.Conn()

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(x)),
			uint32(int32(y)),
			uint32(max(1, width)),
			uint32(max(1, height)),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
