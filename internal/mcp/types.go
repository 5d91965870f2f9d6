package mcp

import "github.com/1broseidon/bsptile/internal/wm"

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"required,Action name such as focus-left, move-right, toggle-monocle or go-to-workspace-3 (see list_actions)"`
}

// RunActionOutput is the output for the run_action tool.
type RunActionOutput struct {
	Action string `json:"action"`
	// State is the layout after the action ran.
	State *wm.Snapshot `json:"state,omitempty"`
}

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}

// GetStateOutput is the output for the get_state tool.
type GetStateOutput struct {
	State wm.Snapshot `json:"state"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}

// ListActionsInput is the input for the list_actions tool.
type ListActionsInput struct{}

// ActionInfo describes one action.
type ActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListActionsOutput is the output for the list_actions tool.
type ListActionsOutput struct {
	Actions []ActionInfo `json:"actions"`
}
