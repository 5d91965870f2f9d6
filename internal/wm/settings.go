package wm

import (
	"fmt"

	"github.com/1broseidon/bsptile/internal/platform"
)

// Hiding selects how windows of inactive workspaces are removed from view.
type Hiding int

const (
	// HideCloak removes windows from view without OS hide notifications.
	HideCloak Hiding = iota
	// HideHide withdraws windows; the OS reports them as hidden.
	HideHide
	// HideMinimize iconifies windows; the OS reports them as minimized.
	HideMinimize
)

func (h Hiding) String() string {
	switch h {
	case HideCloak:
		return "cloak"
	case HideHide:
		return "hide"
	case HideMinimize:
		return "minimize"
	}
	return fmt.Sprintf("Hiding(%d)", int(h))
}

// echoes reports whether hiding with h produces OS notifications that must
// be suppressed.
func (h Hiding) echoes() bool {
	return h == HideHide || h == HideMinimize
}

// ParseHiding parses "cloak", "hide" or "minimize".
func ParseHiding(s string) (Hiding, error) {
	switch s {
	case "cloak":
		return HideCloak, nil
	case "hide":
		return HideHide, nil
	case "minimize":
		return HideMinimize, nil
	}
	return 0, fmt.Errorf("unknown hiding behaviour %q", s)
}

// DefaultWorkspaceCount is the number of workspaces per monitor.
const DefaultWorkspaceCount = 8

// Settings are the hot-reloadable tiling parameters. WorkspaceCount is read
// once at construction.
type Settings struct {
	Gap            int
	Ratio          float64
	Hiding         Hiding
	Border         platform.BorderConfig
	BarHeight      int
	BarMonitors    []int
	WorkspaceCount int
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Gap:            8,
		Ratio:          0.5,
		Hiding:         HideCloak,
		Border:         platform.BorderConfig{Width: 2, Color: 0x3498db, MonocleColor: 0x27ae60, CornerStyle: "square"},
		WorkspaceCount: DefaultWorkspaceCount,
	}
}
