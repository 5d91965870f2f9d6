package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/runtimepath"
)

func newDaemonCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start the tiling daemon (foreground)",
		Long: `Start the tiling daemon in the foreground. It tiles every manageable
window, registers the configured hotkeys and listens for commands on the IPC
socket. SIGHUP reloads the configuration; SIGINT and SIGTERM restore hidden
windows and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file (overrides log_file; default $XDG_STATE_HOME/bsptile/bsptile.log)")
	return cmd
}

func runDaemon(ctx context.Context, logFile string) error {
	path := configPath()
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile == "" {
		logFile = runtimepath.DefaultLogPath()
	}
	logger, err := logging.New(logging.Options{Level: level, File: logFile})
	if err != nil {
		return err
	}
	defer logger.Close()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if _, err := ipc.NewClientWithPath(socketPath).Ping(); err == nil {
		return errors.New("bsptile daemon is already running")
	}

	settings, err := cfg.TilingSettings()
	if err != nil {
		return err
	}
	plat, err := openPlatform(settings.Border, logger.Logger)
	if err != nil {
		return err
	}
	defer plat.Close()

	setLevel := logger.SetLevel
	if verbose {
		setLevel = func(string) {}
	}

	d, err := daemon.New(daemon.Options{
		Backend:       plat.Backend,
		Border:        plat.Border,
		Events:        plat.Events,
		Hotkeys:       plat.Hotkeys,
		Config:        cfg,
		ConfigPath:    path,
		WatchConfig:   true,
		SocketPath:    socketPath,
		HandleSignals: true,
		Logger:        logger.Logger,
		SetLogLevel:   setLevel,
	})
	if err != nil {
		return err
	}

	logger.Info("starting bsptile daemon",
		"config", path,
		"socket", socketPath,
		"pid", os.Getpid())
	return d.Run(ctx)
}
