package action

import (
	"errors"
	"testing"

	"github.com/1broseidon/bsptile/internal/tiling"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"focus-left", FocusDir(tiling.Left)},
		{"focus-down", FocusDir(tiling.Down)},
		{"move-right", MoveDir(tiling.Right)},
		{"move-up", MoveDir(tiling.Up)},
		{"retile", Action{Kind: Retile}},
		{"toggle-monocle", Action{Kind: ToggleMonocle}},
		{"close-focused", Action{Kind: CloseFocused}},
		{"minimize-focused", Action{Kind: MinimizeFocused}},
		{"go-to-workspace-1", GoTo(1)},
		{"send-to-workspace-8", SendTo(8)},
		{"  Focus-Right ", FocusDir(tiling.Right)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"", ErrUnknownAction},
		{"jump", ErrUnknownAction},
		{"focus-sideways", ErrUnknownAction},
		{"go-to-workspace-x", ErrUnknownAction},
		{"go-to-workspace-0", ErrWorkspaceRange},
		{"go-to-workspace-9", ErrWorkspaceRange},
		{"send-to-workspace--1", ErrWorkspaceRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestAll_RoundTripsThroughParse(t *testing.T) {
	all := All()
	if len(all) != 4+4+4+2*MaxWorkspace {
		t.Fatalf("unexpected vocabulary size %d", len(all))
	}
	seen := make(map[string]bool)
	for _, a := range all {
		s := a.String()
		if seen[s] {
			t.Fatalf("duplicate action %q", s)
		}
		seen[s] = true
		got, err := Parse(s)
		if err != nil || got != a {
			t.Fatalf("Parse(%q) = (%+v, %v), want %+v", s, got, err, a)
		}
	}
}
