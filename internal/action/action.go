// Package action defines the user command vocabulary shared by hotkeys, the
// IPC protocol and the MCP tools.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/bsptile/internal/tiling"
)

// MaxWorkspace is the highest workspace number an action may name.
const MaxWorkspace = 8

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrWorkspaceRange = fmt.Errorf("workspace must be between 1 and %d", MaxWorkspace)
)

// Kind identifies an action.
type Kind int

const (
	Focus Kind = iota
	Move
	Retile
	ToggleMonocle
	CloseFocused
	MinimizeFocused
	GoToWorkspace
	SendToWorkspace
)

// Action is a parsed user command. Dir is set for Focus and Move; Workspace
// is the 1-based target for GoToWorkspace and SendToWorkspace.
type Action struct {
	Kind      Kind
	Dir       tiling.Direction
	Workspace int
}

func FocusDir(d tiling.Direction) Action { return Action{Kind: Focus, Dir: d} }
func MoveDir(d tiling.Direction) Action  { return Action{Kind: Move, Dir: d} }
func GoTo(n int) Action                  { return Action{Kind: GoToWorkspace, Workspace: n} }
func SendTo(n int) Action                { return Action{Kind: SendToWorkspace, Workspace: n} }

var simple = map[string]Kind{
	"retile":           Retile,
	"toggle-monocle":   ToggleMonocle,
	"close-focused":    CloseFocused,
	"minimize-focused": MinimizeFocused,
}

// Parse converts the wire form ("focus-left", "go-to-workspace-3", ...)
// into an Action.
func Parse(s string) (Action, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if k, ok := simple[s]; ok {
		return Action{Kind: k}, nil
	}

	for prefix, kind := range map[string]Kind{"focus-": Focus, "move-": Move} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			dir, err := tiling.ParseDirection(rest)
			if err != nil {
				return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
			}
			return Action{Kind: kind, Dir: dir}, nil
		}
	}

	for prefix, kind := range map[string]Kind{"go-to-workspace-": GoToWorkspace, "send-to-workspace-": SendToWorkspace} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
			}
			if n < 1 || n > MaxWorkspace {
				return Action{}, fmt.Errorf("%q: %w", s, ErrWorkspaceRange)
			}
			return Action{Kind: kind, Workspace: n}, nil
		}
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// String returns the wire form accepted by Parse.
func (a Action) String() string {
	switch a.Kind {
	case Focus:
		return "focus-" + a.Dir.String()
	case Move:
		return "move-" + a.Dir.String()
	case Retile:
		return "retile"
	case ToggleMonocle:
		return "toggle-monocle"
	case CloseFocused:
		return "close-focused"
	case MinimizeFocused:
		return "minimize-focused"
	case GoToWorkspace:
		return "go-to-workspace-" + strconv.Itoa(a.Workspace)
	case SendToWorkspace:
		return "send-to-workspace-" + strconv.Itoa(a.Workspace)
	}
	return fmt.Sprintf("Action(%d)", int(a.Kind))
}

// All lists every action in the vocabulary in a stable order.
func All() []Action {
	var out []Action
	for _, d := range []tiling.Direction{tiling.Left, tiling.Right, tiling.Up, tiling.Down} {
		out = append(out, FocusDir(d))
	}
	for _, d := range []tiling.Direction{tiling.Left, tiling.Right, tiling.Up, tiling.Down} {
		out = append(out, MoveDir(d))
	}
	out = append(out,
		Action{Kind: Retile},
		Action{Kind: ToggleMonocle},
		Action{Kind: CloseFocused},
		Action{Kind: MinimizeFocused},
	)
	for n := 1; n <= MaxWorkspace; n++ {
		out = append(out, GoTo(n))
	}
	for n := 1; n <= MaxWorkspace; n++ {
		out = append(out, SendTo(n))
	}
	return out
}
