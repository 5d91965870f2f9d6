package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. Work* fields describe the area left
// after dock struts are subtracted.
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	WorkX   int
	WorkY   int
	WorkW   int
	WorkH   int
	Primary bool
}

// GetMonitors retrieves all active monitors using XRandR. Monitor IDs are
// the RandR output ids, which stay stable across mode changes.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		output := info.Outputs[0]
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		m := Monitor{
			ID:      int(output),
			Name:    name,
			X:       int(info.X),
			Y:       int(info.Y),
			Width:   int(info.Width),
			Height:  int(info.Height),
			Primary: output == primary,
		}
		m.WorkX, m.WorkY, m.WorkW, m.WorkH = m.X, m.Y, m.Width, m.Height
		monitors = append(monitors, m)
	}

	c.applyDockStruts(monitors)
	return monitors, nil
}

// box is a half-open rectangle in root coordinates.
type box struct {
	x1, y1, x2, y2 int
}

func (b box) intersect(o box) box {
	return box{x1: max(b.x1, o.x1), y1: max(b.y1, o.y1), x2: min(b.x2, o.x2), y2: min(b.y2, o.y2)}
}

func (b box) empty() bool {
	return b.x2 <= b.x1 || b.y2 <= b.y1
}

// strutBoxes converts a partial strut into the four reserved root regions.
func strutBoxes(sp *ewmh.WmStrutPartial, rootW, rootH int) (top, bottom, left, right box) {
	top = box{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}
	bottom = box{int(sp.BottomStartX), rootH - int(sp.Bottom), int(sp.BottomEndX) + 1, rootH}
	left = box{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}
	right = box{rootW - int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY) + 1}
	return
}

func (c *Connection) dockStruts() ([]*ewmh.WmStrutPartial, int, int) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, 0, 0
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, rootW, rootH
	}

	var struts []*ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.hasWindowType(win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY:   uint(rootH - 1),
				RightEndY:  uint(rootH - 1),
				TopEndX:    uint(rootW - 1),
				BottomEndX: uint(rootW - 1),
			})
		}
	}
	return struts, rootW, rootH
}

// applyDockStruts shrinks each monitor's work area by the dock regions that
// intersect it.
func (c *Connection) applyDockStruts(monitors []Monitor) {
	struts, rootW, rootH := c.dockStruts()
	if len(struts) == 0 {
		return
	}

	for i := range monitors {
		m := &monitors[i]
		mon := box{m.X, m.Y, m.X + m.Width, m.Y + m.Height}
		var top, bottom, left, right int
		for _, sp := range struts {
			t, b, l, r := strutBoxes(sp, rootW, rootH)
			if sp.Top > 0 {
				if is := mon.intersect(t); !is.empty() {
					top = max(top, is.y2-is.y1)
				}
			}
			if sp.Bottom > 0 {
				if is := mon.intersect(b); !is.empty() {
					bottom = max(bottom, is.y2-is.y1)
				}
			}
			if sp.Left > 0 {
				if is := mon.intersect(l); !is.empty() {
					left = max(left, is.x2-is.x1)
				}
			}
			if sp.Right > 0 {
				if is := mon.intersect(r); !is.empty() {
					right = max(right, is.x2-is.x1)
				}
			}
		}
		m.WorkX = m.X + left
		m.WorkY = m.Y + top
		m.WorkW = max(1, m.Width-left-right)
		m.WorkH = max(1, m.Height-top-bottom)
	}
}
