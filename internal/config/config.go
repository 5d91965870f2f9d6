package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/rules"
	"github.com/1broseidon/bsptile/internal/wm"
)

const (
	MinRatio = 0.1
	MaxRatio = 0.9
)

// BarConfig reserves space at the top of selected monitors for a status bar.
// Monitors are indices into the left-to-right monitor order.
type BarConfig struct {
	Height   int   `yaml:"height"`
	Monitors []int `yaml:"monitors,flow"`
}

// BorderConfig styles the focus border. Colors are "#RRGGBB".
type BorderConfig struct {
	Width        int    `yaml:"width"`
	Color        string `yaml:"color"`
	MonocleColor string `yaml:"monocle_color"`
	CornerStyle  string `yaml:"corner_style"`
}

// Config is the effective configuration.
type Config struct {
	Gap             int               `yaml:"gap"`
	Ratio           float64           `yaml:"ratio"`
	HidingBehaviour string            `yaml:"hiding_behaviour"`
	WorkspaceCount  int               `yaml:"workspace_count"`
	Bar             BarConfig         `yaml:"bar"`
	Border          BorderConfig      `yaml:"border"`
	LogLevel        string            `yaml:"log_level"`
	LogFile         string            `yaml:"log_file,omitempty"`
	Bindings        map[string]string `yaml:"bindings"`
	Rules           []rules.Rule      `yaml:"rules"`
}

func DefaultConfig() *Config {
	return &Config{
		Gap:             8,
		Ratio:           0.5,
		HidingBehaviour: "cloak",
		WorkspaceCount:  wm.DefaultWorkspaceCount,
		Border: BorderConfig{
			Width:        2,
			Color:        "#3498db",
			MonocleColor: "#27ae60",
			CornerStyle:  "square",
		},
		LogLevel: "info",
		Bindings: DefaultBindings(),
		Rules:    []rules.Rule{},
	}
}

// DefaultBindings maps Super-based key sequences to every action.
func DefaultBindings() map[string]string {
	b := map[string]string{
		"Mod4-h":       "focus-left",
		"Mod4-l":       "focus-right",
		"Mod4-k":       "focus-up",
		"Mod4-j":       "focus-down",
		"Mod4-Shift-h": "move-left",
		"Mod4-Shift-l": "move-right",
		"Mod4-Shift-k": "move-up",
		"Mod4-Shift-j": "move-down",
		"Mod4-r":       "retile",
		"Mod4-m":       "toggle-monocle",
		"Mod4-q":       "close-focused",
		"Mod4-n":       "minimize-focused",
	}
	for n := 1; n <= action.MaxWorkspace; n++ {
		b["Mod4-"+strconv.Itoa(n)] = action.GoTo(n).String()
		b["Mod4-Shift-"+strconv.Itoa(n)] = action.SendTo(n).String()
	}
	return b
}

// Save writes the configuration to path, creating parent directories.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Gap < 0 {
		return &ValidationError{Path: "gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Ratio < MinRatio || c.Ratio > MaxRatio {
		return &ValidationError{Path: "ratio", Err: fmt.Errorf("ratio must be between %.1f and %.1f", MinRatio, MaxRatio)}
	}
	if _, err := wm.ParseHiding(c.HidingBehaviour); err != nil {
		return &ValidationError{Path: "hiding_behaviour", Err: fmt.Errorf("hiding_behaviour must be one of: cloak, hide, minimize")}
	}
	if c.WorkspaceCount < 1 || c.WorkspaceCount > action.MaxWorkspace {
		return &ValidationError{Path: "workspace_count", Err: fmt.Errorf("workspace_count must be between 1 and %d", action.MaxWorkspace)}
	}
	if c.Bar.Height < 0 {
		return &ValidationError{Path: "bar.height", Err: fmt.Errorf("bar.height must be >= 0")}
	}
	for _, idx := range c.Bar.Monitors {
		if idx < 0 {
			return &ValidationError{Path: "bar.monitors", Err: fmt.Errorf("monitor indices must be >= 0")}
		}
	}
	if c.Border.Width < 0 {
		return &ValidationError{Path: "border.width", Err: fmt.Errorf("border.width must be >= 0")}
	}
	if _, err := ParseColor(c.Border.Color); err != nil {
		return &ValidationError{Path: "border.color", Err: err}
	}
	if _, err := ParseColor(c.Border.MonocleColor); err != nil {
		return &ValidationError{Path: "border.monocle_color", Err: err}
	}
	switch c.Border.CornerStyle {
	case "square", "round", "small":
	default:
		return &ValidationError{Path: "border.corner_style", Err: fmt.Errorf("corner_style must be one of: square, round, small")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for key, name := range c.Bindings {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "bindings", Err: fmt.Errorf("bindings contains an empty key sequence")}
		}
		if _, err := action.Parse(name); err != nil {
			return &ValidationError{Path: "bindings." + key, Err: err}
		}
	}
	if _, err := rules.Compile(c.Rules); err != nil {
		return &ValidationError{Path: "rules", Err: err}
	}
	return nil
}

// TilingSettings converts the configuration into manager settings.
func (c *Config) TilingSettings() (wm.Settings, error) {
	hiding, err := wm.ParseHiding(c.HidingBehaviour)
	if err != nil {
		return wm.Settings{}, err
	}
	color, err := ParseColor(c.Border.Color)
	if err != nil {
		return wm.Settings{}, fmt.Errorf("border.color: %w", err)
	}
	monocle, err := ParseColor(c.Border.MonocleColor)
	if err != nil {
		return wm.Settings{}, fmt.Errorf("border.monocle_color: %w", err)
	}
	return wm.Settings{
		Gap:    c.Gap,
		Ratio:  c.Ratio,
		Hiding: hiding,
		Border: platform.BorderConfig{
			Width:        c.Border.Width,
			Color:        color,
			MonocleColor: monocle,
			CornerStyle:  c.Border.CornerStyle,
		},
		BarHeight:      c.Bar.Height,
		BarMonitors:    append([]int(nil), c.Bar.Monitors...),
		WorkspaceCount: c.WorkspaceCount,
	}, nil
}

// RuleSet compiles the manage rules.
func (c *Config) RuleSet() (*rules.Set, error) {
	return rules.Compile(c.Rules)
}

// ParseColor parses "#RRGGBB" or "RRGGBB" into 0xRRGGBB.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be #RRGGBB", s)
	}
	return uint32(v), nil
}
