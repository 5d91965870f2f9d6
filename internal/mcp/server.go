// Package mcp exposes the running daemon to MCP clients over stdio. Every
// tool is a thin wrapper over the IPC client.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/wm"
)

const (
	ServerName    = "bsptile"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools need.
type Daemon interface {
	RunAction(name string) error
	GetState() (*wm.Snapshot, error)
	Reload() error
}

// Server is the MCP server for bsptile.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a tiling action in the bsptile daemon: move focus or the focused window in a direction, retile, toggle monocle, close or minimize the focused window, or switch/send to a workspace. Returns the resulting layout state.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Return the current tiling state: monitors with their work areas, active workspace and the windows of each non-empty workspace in layout order, plus the focused window.",
	}, s.handleGetState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the bsptile configuration file. Invalid configuration is rejected and the running layout is kept.",
	}, s.handleReloadConfig)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List every action name accepted by run_action.",
	}, s.handleListActions)
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	a, err := action.Parse(args.Action)
	if err != nil {
		return nil, RunActionOutput{}, fmt.Errorf("%w (call list_actions for valid names)", err)
	}
	if err := s.daemon.RunAction(a.String()); err != nil {
		s.logger.Warn("run_action failed", "action", a.String(), "error", err)
		return nil, RunActionOutput{}, err
	}
	s.logger.Debug("run_action", "action", a.String())

	out := RunActionOutput{Action: a.String()}
	if snap, err := s.daemon.GetState(); err == nil {
		out.State = snap
	}
	return nil, out, nil
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, GetStateOutput, error) {
	snap, err := s.daemon.GetState()
	if err != nil {
		return nil, GetStateOutput{}, err
	}
	return nil, GetStateOutput{State: *snap}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: "Configuration reloaded"},
		},
	}, ReloadConfigOutput{Reloaded: true}, nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListActionsInput) (*mcpsdk.CallToolResult, ListActionsOutput, error) {
	all := action.All()
	out := ListActionsOutput{Actions: make([]ActionInfo, 0, len(all))}
	for _, a := range all {
		out.Actions = append(out.Actions, ActionInfo{
			Name:        a.String(),
			Description: describe(a),
		})
	}
	return nil, out, nil
}

func describe(a action.Action) string {
	switch a.Kind {
	case action.Focus:
		return "Focus the nearest window " + directionPhrase(a)
	case action.Move:
		return "Swap the focused window with its neighbour " + directionPhrase(a) + ", crossing monitors at the edge"
	case action.Retile:
		return "Re-apply the layout on every monitor"
	case action.ToggleMonocle:
		return "Toggle monocle mode: the focused window fills the work area"
	case action.CloseFocused:
		return "Close the focused window"
	case action.MinimizeFocused:
		return "Minimize the focused window and drop it from the layout"
	case action.GoToWorkspace:
		return fmt.Sprintf("Switch the focused monitor to workspace %d", a.Workspace)
	case action.SendToWorkspace:
		return fmt.Sprintf("Send the focused window to workspace %d and follow it", a.Workspace)
	}
	return ""
}

func directionPhrase(a action.Action) string {
	d := a.Dir.String()
	switch d {
	case "up":
		return "above"
	case "down":
		return "below"
	}
	return "to the " + d
}
