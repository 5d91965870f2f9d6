package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bsptile/internal/rules"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawBar struct {
	Height   *int  `yaml:"height"`
	Monitors []int `yaml:"monitors"`
}

type RawBorder struct {
	Width        *int    `yaml:"width"`
	Color        *string `yaml:"color"`
	MonocleColor *string `yaml:"monocle_color"`
	CornerStyle  *string `yaml:"corner_style"`
}

// RawConfig is one YAML file as written. Nil fields are unset.
type RawConfig struct {
	Include         IncludeList       `yaml:"include"`
	Gap             *int              `yaml:"gap"`
	Ratio           *float64          `yaml:"ratio"`
	HidingBehaviour *string           `yaml:"hiding_behaviour"`
	WorkspaceCount  *int              `yaml:"workspace_count"`
	Bar             *RawBar           `yaml:"bar"`
	Border          *RawBorder        `yaml:"border"`
	LogLevel        *string           `yaml:"log_level"`
	LogFile         *string           `yaml:"log_file"`
	Bindings        map[string]string `yaml:"bindings"`
	Rules           []rules.Rule      `yaml:"rules"`
}

// merge layers overlay on top of c. Scalars override, bindings merge per key
// and overlay rules are placed ahead of existing ones so they match first.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Gap != nil {
		out.Gap = overlay.Gap
	}
	if overlay.Ratio != nil {
		out.Ratio = overlay.Ratio
	}
	if overlay.HidingBehaviour != nil {
		out.HidingBehaviour = overlay.HidingBehaviour
	}
	if overlay.WorkspaceCount != nil {
		out.WorkspaceCount = overlay.WorkspaceCount
	}
	if overlay.Bar != nil {
		bar := RawBar{}
		if c.Bar != nil {
			bar = *c.Bar
		}
		if overlay.Bar.Height != nil {
			bar.Height = overlay.Bar.Height
		}
		if overlay.Bar.Monitors != nil {
			bar.Monitors = overlay.Bar.Monitors
		}
		out.Bar = &bar
	}
	if overlay.Border != nil {
		border := RawBorder{}
		if c.Border != nil {
			border = *c.Border
		}
		if overlay.Border.Width != nil {
			border.Width = overlay.Border.Width
		}
		if overlay.Border.Color != nil {
			border.Color = overlay.Border.Color
		}
		if overlay.Border.MonocleColor != nil {
			border.MonocleColor = overlay.Border.MonocleColor
		}
		if overlay.Border.CornerStyle != nil {
			border.CornerStyle = overlay.Border.CornerStyle
		}
		out.Border = &border
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.Bindings != nil {
		merged := make(map[string]string, len(c.Bindings)+len(overlay.Bindings))
		maps.Copy(merged, c.Bindings)
		maps.Copy(merged, overlay.Bindings)
		out.Bindings = merged
	}
	if len(overlay.Rules) > 0 {
		out.Rules = append(append([]rules.Rule{}, overlay.Rules...), c.Rules...)
	}
	return out
}
