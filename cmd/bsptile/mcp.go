package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/mcp"
)

var _ mcp.Daemon = (*ipc.Client)(nil)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients,
for example:

  claude mcp add bsptile -- bsptile mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServe(cmd.Context())
		},
	})
	return cmd
}

func runMCPServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol; logs go to stderr only.
	level := "warning"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Output: os.Stderr, Prefix: "mcp"})
	if err != nil {
		return err
	}
	defer logger.Close()

	return mcp.NewServer(ipc.NewClient(), logger.Logger).Run(ctx)
}
