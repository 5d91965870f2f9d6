package daemon

import (
	"context"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/wm"
)

// RunAction queues a and waits for the manager's result.
func (d *Daemon) RunAction(ctx context.Context, a action.Action) error {
	reply := make(chan error, 1)
	if err := d.sendContext(ctx, ActionMsg{Action: a, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// State returns a snapshot taken on the consumer goroutine.
func (d *Daemon) State(ctx context.Context) (wm.Snapshot, error) {
	reply := make(chan wm.Snapshot, 1)
	if err := d.sendContext(ctx, StateMsg{Reply: reply}); err != nil {
		return wm.Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return wm.Snapshot{}, ctx.Err()
	case <-d.stopped:
		return wm.Snapshot{}, ErrStopped
	}
}

// Reload re-reads the config file and applies it. Parse and validation
// errors are returned without touching the running state.
func (d *Daemon) Reload(ctx context.Context) error {
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}
	reply := make(chan error, 1)
	if err := d.sendContext(ctx, ReloadMsg{Config: cfg, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// Stop asks the consumer to exit. It does not wait for shutdown.
func (d *Daemon) Stop(ctx context.Context) error {
	return d.sendContext(ctx, StopMsg{})
}
