//go:build linux

package main

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/hotkeys"
	"github.com/1broseidon/bsptile/internal/platform"
)

type nativePlatform struct {
	Backend platform.Backend
	Border  platform.Border
	Events  platform.EventSource
	Hotkeys daemon.Hotkeys

	conn   *platform.LinuxBackend
	border *platform.LinuxBorder
}

func openPlatform(border platform.BorderConfig, logger *slog.Logger) (*nativePlatform, error) {
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	p := &nativePlatform{
		Backend: backend,
		Events:  platform.NewLinuxEventSource(backend, logger),
		conn:    backend,
	}
	p.border = platform.NewLinuxBorder(backend, border)
	p.Border = p.border

	handler, err := hotkeys.NewHandler(backend)
	if err != nil {
		logger.Warn("global hotkeys unavailable", "error", err)
	} else {
		p.Hotkeys = handler
	}
	return p, nil
}

func (p *nativePlatform) Close() {
	p.border.Destroy()
	p.conn.Disconnect()
}
