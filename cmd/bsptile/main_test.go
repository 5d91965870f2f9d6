package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/wm"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose = "", false
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestActionsListsEveryAction(t *testing.T) {
	out, err := execute(t, "actions")
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(action.All()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(action.All()))
	}
}

func TestActionRejectsUnknownNameBeforeDialing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	if _, err := execute(t, "action", "fly"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestConfigInitValidateExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bsptile", "config.yaml")

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, err := execute(t, "--config", path, "config", "validate")
	if err != nil || strings.TrimSpace(out) != "OK" {
		t.Fatalf("validate: out=%q err=%v", out, err)
	}

	out, err = execute(t, "--config", path, "config", "explain", "gap")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file:") {
		t.Fatalf("explain output missing file source:\n%s", out)
	}

	out, err = execute(t, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("path: out=%q err=%v", out, err)
	}
}

func TestConfigValidateRejectsBadRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ratio: 1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "config", "validate"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 1}, "file:/a.yaml:3:1"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "file:/a.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderStateMarksFocus(t *testing.T) {
	snap := &wm.Snapshot{
		Monitors: []wm.MonitorSnapshot{{
			ID:              1,
			Name:            "DP-1",
			Area:            platform.Rect{Width: 1920, Height: 1080},
			ActiveWorkspace: 2,
			Workspaces: []wm.WorkspaceSnapshot{
				{Number: 1, Windows: []platform.WindowID{0x10}},
				{Number: 2, Windows: []platform.WindowID{0x20, 0x21}, Monocle: true},
			},
		}},
		FocusedMonitor: 1,
		FocusedWindow:  0x21,
		Hiding:         "cloak",
		Managed:        3,
	}

	out := renderState(snap)
	for _, want := range []string{"DP-1 *", "1920x1080+0+0", "2 (active) monocle", "[0x21]", "0x10", "3 managed windows"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered state missing %q:\n%s", want, out)
		}
	}
}
