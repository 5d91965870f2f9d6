//go:build linux

package platform

import (
	"sync"

	"github.com/1broseidon/bsptile/internal/x11"
)

// LinuxBorder draws the focus border as an override-redirect frame.
// X11 frames are square, so CornerStyle is accepted but not rendered.
type LinuxBorder struct {
	frame *x11.FocusFrame

	mu  sync.Mutex
	cfg BorderConfig
}

var _ Border = (*LinuxBorder)(nil)

// NewLinuxBorder creates a border bound to the backend's X11 connection.
func NewLinuxBorder(b *LinuxBackend, cfg BorderConfig) *LinuxBorder {
	return &LinuxBorder{frame: x11.NewFocusFrame(b.Connection()), cfg: cfg}
}

func (l *LinuxBorder) Configure(cfg BorderConfig) {
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

func (l *LinuxBorder) Show(_ WindowID, r Rect, monocle bool) error {
	l.mu.Lock()
	cfg := l.cfg
	l.mu.Unlock()

	if cfg.Width <= 0 {
		l.frame.Hide()
		return nil
	}
	color := cfg.Color
	if monocle {
		color = cfg.MonocleColor
	}
	return l.frame.Show(r.X, r.Y, r.Width, r.Height, cfg.Width, color)
}

func (l *LinuxBorder) Hide() {
	l.frame.Hide()
}

// Destroy releases the frame windows.
func (l *LinuxBorder) Destroy() {
	l.frame.Destroy()
}
