package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	gap
//	ratio
//	hiding_behaviour
//	workspace_count
//	bar, bar.height, bar.monitors
//	border, border.width, border.color, border.monocle_color, border.corner_style
//	log_level
//	log_file
//	bindings, bindings.<key sequence>
//	rules
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	head, rest, nested := strings.Cut(path, ".")
	scalar := func(v any) (any, error) {
		if nested {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch head {
	case "gap":
		return scalar(cfg.Gap)
	case "ratio":
		return scalar(cfg.Ratio)
	case "hiding_behaviour":
		return scalar(cfg.HidingBehaviour)
	case "workspace_count":
		return scalar(cfg.WorkspaceCount)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "log_file":
		return scalar(cfg.LogFile)
	case "rules":
		return scalar(cfg.Rules)
	case "bar":
		if !nested {
			return cfg.Bar, nil
		}
		switch rest {
		case "height":
			return cfg.Bar.Height, nil
		case "monitors":
			return cfg.Bar.Monitors, nil
		}
	case "border":
		if !nested {
			return cfg.Border, nil
		}
		switch rest {
		case "width":
			return cfg.Border.Width, nil
		case "color":
			return cfg.Border.Color, nil
		case "monocle_color":
			return cfg.Border.MonocleColor, nil
		case "corner_style":
			return cfg.Border.CornerStyle, nil
		}
	case "bindings":
		if !nested {
			return cfg.Bindings, nil
		}
		if name, ok := cfg.Bindings[rest]; ok {
			return name, nil
		}
		return nil, fmt.Errorf("no binding for %q", rest)
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
