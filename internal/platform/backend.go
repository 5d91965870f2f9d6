package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// NoWindow is the zero WindowID. It never names a real window.
const NoWindow WindowID = 0

// Monitor describes a physical display and its usable work area.
type Monitor struct {
	ID       int
	Name     string
	Bounds   Rect
	WorkArea Rect
	Primary  bool
}

// Backend abstracts the window-system operations the tiling manager needs.
//
// Calls are fire-and-forget from the manager's point of view: failures are
// logged by the caller and healed by the next layout pass.
type Backend interface {
	Monitors() ([]Monitor, error)
	Windows() ([]WindowID, error)

	Title(id WindowID) string
	Class(id WindowID) string
	Rect(id WindowID) (Rect, error)
	SetRect(id WindowID, r Rect) error

	IsVisible(id WindowID) bool
	IsAppWindow(id WindowID) bool
	IsMaximized(id WindowID) bool
	// Owner reports the window this one is transient for, if any.
	Owner(id WindowID) (WindowID, bool)

	Minimize(id WindowID) error
	Hide(id WindowID) error
	Show(id WindowID) error
	// Cloak removes a window from view without producing hide or unmap
	// notifications.
	Cloak(id WindowID) error
	Uncloak(id WindowID) error
	ForceShow(id WindowID) error
	SetForeground(id WindowID) error
	Close(id WindowID) error
}

// BorderConfig controls the focus border appearance. Colors are 0xRRGGBB.
type BorderConfig struct {
	Width        int
	Color        uint32
	MonocleColor uint32
	CornerStyle  string
}

// Border draws the focus indicator around the focused window.
type Border interface {
	Configure(cfg BorderConfig)
	Show(id WindowID, r Rect, monocle bool) error
	Hide()
}

// HotkeyBinder registers global key sequences.
type HotkeyBinder interface {
	Bind(keySequence string, fn func()) error
}
