package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bsptile",
		Short: "Binary space partition tiling for X11 desktops",
		Long: `bsptile tiles application windows on every monitor with a binary space
partition layout, keeps eight workspaces per monitor and is driven by global
hotkeys, the command line or MCP clients.

Start the daemon with 'bsptile daemon'; every other command talks to it over
a unix socket.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/bsptile/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(newDaemonCmd())
	rootCmd.AddCommand(newActionCmd())
	rootCmd.AddCommand(newActionsCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newReloadCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMCPCmd())

	return rootCmd
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}
