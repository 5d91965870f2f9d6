package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/platform"
)

// pumpEvents forwards window-system notifications. Display and work-area
// changes arrive in bursts while outputs are reconfigured, so they are
// coalesced into one DisplayChanged after TopologyDelay of quiet.
func (d *Daemon) pumpEvents(ctx context.Context, errCh chan<- error) {
	topology := newDebouncer(d.opts.TopologyDelay, func() {
		d.send(EventMsg{Event: platform.Event{Kind: platform.EventDisplayChanged}})
	})
	defer topology.Stop()

	err := d.opts.Events.Run(ctx, func(ev platform.Event) {
		if ev.Kind.Global() {
			topology.Trigger()
			return
		}
		d.send(EventMsg{Event: ev})
	})
	if err != nil && ctx.Err() == nil {
		d.logger.Error("event source stopped", "error", err)
		select {
		case errCh <- err:
		default:
		}
	}
}

func (d *Daemon) handleSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				d.logger.Info("received SIGHUP, reloading config")
				d.reloadFromDisk(ctx, "SIGHUP")
			default:
				d.logger.Info("shutting down", "signal", sig.String())
				d.send(StopMsg{})
				return
			}
		}
	}
}

// loadConfig parses the configuration on the calling producer goroutine so
// the consumer only ever sees validated configs.
func (d *Daemon) loadConfig() (*config.Config, error) {
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if d.watcher != nil {
		d.watcher.Watch(append([]string{d.opts.ConfigPath}, res.Files...))
	}
	return res.Config, nil
}

func (d *Daemon) reloadFromDisk(ctx context.Context, reason string) {
	cfg, err := d.loadConfig()
	if err != nil {
		d.logger.Error("config reload failed", "reason", reason, "error", err)
		return
	}
	if err := d.sendContext(ctx, ReloadMsg{Config: cfg}); err != nil {
		d.logger.Debug("dropping reload", "reason", reason, "error", err)
	}
}

func (d *Daemon) watchedFiles() []string {
	files := []string{d.opts.ConfigPath}
	if res, err := config.LoadFromPath(d.opts.ConfigPath); err == nil {
		files = append(files, res.Files...)
	}
	return files
}
