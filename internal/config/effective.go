package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. A binding mapped to
// an empty action removes the default binding for that key.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Gap != nil {
		cfg.Gap = *raw.Gap
	}
	if raw.Ratio != nil {
		cfg.Ratio = *raw.Ratio
	}
	if raw.HidingBehaviour != nil {
		cfg.HidingBehaviour = strings.ToLower(strings.TrimSpace(*raw.HidingBehaviour))
	}
	if raw.WorkspaceCount != nil {
		cfg.WorkspaceCount = *raw.WorkspaceCount
	}
	if raw.Bar != nil {
		if raw.Bar.Height != nil {
			cfg.Bar.Height = *raw.Bar.Height
		}
		if raw.Bar.Monitors != nil {
			cfg.Bar.Monitors = append([]int(nil), raw.Bar.Monitors...)
		}
	}
	if raw.Border != nil {
		if raw.Border.Width != nil {
			cfg.Border.Width = *raw.Border.Width
		}
		if raw.Border.Color != nil {
			cfg.Border.Color = *raw.Border.Color
		}
		if raw.Border.MonocleColor != nil {
			cfg.Border.MonocleColor = *raw.Border.MonocleColor
		}
		if raw.Border.CornerStyle != nil {
			cfg.Border.CornerStyle = *raw.Border.CornerStyle
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	for key, name := range raw.Bindings {
		if strings.TrimSpace(name) == "" {
			delete(cfg.Bindings, key)
			continue
		}
		cfg.Bindings[key] = name
	}
	if raw.Rules != nil {
		cfg.Rules = append(cfg.Rules, raw.Rules...)
	}

	return cfg, nil
}
