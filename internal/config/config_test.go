package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/wm"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Bindings) != 12+2*action.MaxWorkspace {
		t.Fatalf("expected a binding for every action, got %d", len(cfg.Bindings))
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Gap != 8 || res.Config.HidingBehaviour != "cloak" {
		t.Fatalf("expected defaults, got gap=%d hiding=%q", res.Config.Gap, res.Config.HidingBehaviour)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Ratio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", res.Config.Ratio)
	}
}

func TestLoadFromPath_OverridesAndTilingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"gap: 4",
		"ratio: 0.6",
		"hiding_behaviour: Minimize",
		"workspace_count: 5",
		"bar:",
		"  height: 28",
		"  monitors: [0]",
		"border:",
		"  width: 3",
		"  color: \"#ff0000\"",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := res.Config.TilingSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.Gap != 4 || s.Ratio != 0.6 || s.WorkspaceCount != 5 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.Hiding != wm.HideMinimize {
		t.Fatalf("expected minimize, got %v", s.Hiding)
	}
	if s.BarHeight != 28 || len(s.BarMonitors) != 1 || s.BarMonitors[0] != 0 {
		t.Fatalf("unexpected bar settings %+v", s)
	}
	if s.Border.Width != 3 || s.Border.Color != 0xff0000 || s.Border.MonocleColor != 0x27ae60 {
		t.Fatalf("unexpected border %+v", s.Border)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "border:\n  active_color: \"#ffffff\"\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "active_color") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "gap: 2\nratio: 1.5\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "ratio" {
		t.Fatalf("expected ratio path, got %q", verr.Path)
	}
	if !strings.HasPrefix(err.Error(), verr.Source.File+":2:8:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_InvalidBindingAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "bindings:\n  Mod4-x: go-to-workspace-9\n")

	_, err := LoadFromPath(path)
	if !errors.Is(err, action.ErrWorkspaceRange) {
		t.Fatalf("expected workspace range error, got %v", err)
	}
	if !strings.Contains(err.Error(), "bindings.Mod4-x") {
		t.Fatalf("expected binding path in error, got %v", err)
	}
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"gap: -1\n":                          "gap",
		"hiding_behaviour: vanish\n":         "hiding_behaviour",
		"workspace_count: 9\n":               "workspace_count",
		"border:\n  color: blue\n":           "border.color",
		"border:\n  corner_style: bevel\n":   "border.corner_style",
		"log_level: verbose\n":               "log_level",
		"bar:\n  monitors: [-1]\n":           "bar.monitors",
		"rules:\n  - manage: true\n":         "rules",
		"rules:\n  - class: \"[oops\"\n":     "rules",
		"bar:\n  height: -4\n":               "bar.height",
		"border:\n  monocle_color: \"#12\"\n": "border.monocle_color",
	}
	for data, wantPath := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, path, data)

		_, err := LoadFromPath(path)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%q: expected ValidationError, got %v", data, err)
		}
		if verr.Path != wantPath {
			t.Fatalf("%q: expected path %q, got %q", data, wantPath, verr.Path)
		}
	}
}

func TestLoadFromPath_BindingsMergeAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"bindings:",
		"  Mod4-q: \"\"",
		"  Mod1-Return: retile",
		"  Mod4-h: focus-right",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b := res.Config.Bindings
	if _, ok := b["Mod4-q"]; ok {
		t.Fatalf("expected Mod4-q to be unbound")
	}
	if b["Mod1-Return"] != "retile" {
		t.Fatalf("expected Mod1-Return bound, got %q", b["Mod1-Return"])
	}
	if b["Mod4-h"] != "focus-right" {
		t.Fatalf("expected Mod4-h override, got %q", b["Mod4-h"])
	}
	if b["Mod4-l"] != "focus-right" {
		t.Fatalf("expected default Mod4-l kept, got %q", b["Mod4-l"])
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "gap: 5\nrules:\n  - class: steam\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "gap: 6\nrules:\n  - class: gimp\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"gap: 7",
		"rules:",
		"  - class: firefox",
		"    title: \"*Picture-in-Picture*\"",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Gap != 7 {
		t.Fatalf("expected gap to be 7, got %d", res.Config.Gap)
	}
	var classes []string
	for _, r := range res.Config.Rules {
		classes = append(classes, r.Class)
	}
	if strings.Join(classes, ",") != "firefox,gimp,steam" {
		t.Fatalf("expected later files to take rule precedence, got %v", classes)
	}
	if len(res.Files) != 3 || res.Files[2] != mustCanon(t, path) {
		t.Fatalf("expected main file loaded last, got %v", res.Files)
	}

	set, err := res.Config.RuleSet()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if set.ShouldManage("Steam", "Friends") {
		t.Fatalf("expected steam to be unmanaged")
	}
}

func mustCanon(t *testing.T, path string) string {
	t.Helper()
	canon, err := canonicalPath(path)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	return canon
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), ":2:5:") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "border:\n  width: 5\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "border.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 5 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	val, src, err = Explain(res, "bindings.Mod4-m")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "toggle-monocle" || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	if _, _, err := Explain(res, "gap.size"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Gap = 12

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Gap != 12 {
		t.Fatalf("expected gap 12, got %d", res.Config.Gap)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]uint32{"#3498db": 0x3498db, "FFFFFF": 0xffffff, " #000000 ": 0}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %#x, %v; want %#x", in, got, err, want)
		}
	}
	for _, in := range []string{"", "#fff", "#gggggg", "#1234567"} {
		if _, err := ParseColor(in); err == nil {
			t.Fatalf("ParseColor(%q): expected error", in)
		}
	}
}

func TestLoadFromPath_IncludeGlobPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "10-work.yaml"), "gap: 3\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-home.yaml"), "gap: 9\n")
	writeFile(t, filepath.Join(dir, "conf.d", "30-WORK.yml"), "ratio: 0.6\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: conf.d/*-work.{yaml,yml}\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Gap != 3 {
		t.Fatalf("expected gap from 10-work.yaml only, got %d", res.Config.Gap)
	}
	if res.Config.Ratio != 0.6 {
		t.Fatalf("expected case-insensitive match of 30-WORK.yml, got ratio %v", res.Config.Ratio)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected two includes plus main, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "gap.yaml"), "gap: 11\n")
	t.Setenv("BSPTILE_SHARED", filepath.Join(dir, "shared"))

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: $BSPTILE_SHARED/gap.yaml\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Gap != 11 {
		t.Fatalf("expected gap 11, got %d", res.Config.Gap)
	}
}
