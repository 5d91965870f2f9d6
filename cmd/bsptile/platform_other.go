//go:build !linux

package main

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/platform"
)

type nativePlatform struct {
	Backend platform.Backend
	Border  platform.Border
	Events  platform.EventSource
	Hotkeys daemon.Hotkeys
}

func openPlatform(platform.BorderConfig, *slog.Logger) (*nativePlatform, error) {
	return nil, errors.New("the bsptile daemon requires an X11 session on Linux")
}

func (p *nativePlatform) Close() {}
