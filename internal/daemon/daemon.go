// Package daemon runs the tiling manager. Producers (window-system events,
// hotkeys, IPC, the config watcher, signals and a periodic reconciler) send
// messages into one queue; a single consumer goroutine owns the manager and
// applies them in order.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/wm"
)

const (
	DefaultQueueSize     = 256
	DefaultTickInterval  = time.Second
	DefaultReloadDelay   = 200 * time.Millisecond
	DefaultTopologyDelay = 250 * time.Millisecond
)

// ErrStopped is returned to producers once the consumer has exited.
var ErrStopped = errors.New("daemon stopped")

// Hotkeys registers global key sequences. UnbindAll drops every binding so
// they can be re-registered after a reload.
type Hotkeys interface {
	platform.HotkeyBinder
	UnbindAll()
}

// Options configures a Daemon. Backend and Config are required.
type Options struct {
	Backend platform.Backend
	Border  platform.Border
	Events  platform.EventSource
	Hotkeys Hotkeys

	Config     *config.Config
	ConfigPath string
	// WatchConfig reloads when ConfigPath or one of its includes changes.
	WatchConfig bool

	// SocketPath enables the IPC server when set.
	SocketPath string
	// HandleSignals reloads on SIGHUP and stops on SIGINT/SIGTERM.
	HandleSignals bool

	Logger      *slog.Logger
	SetLogLevel func(level string)

	QueueSize     int
	TickInterval  time.Duration
	ReloadDelay   time.Duration
	TopologyDelay time.Duration

	// ManagerOptions are passed through to wm.New.
	ManagerOptions []wm.Option
}

// Daemon serializes all tiling work onto one goroutine.
type Daemon struct {
	opts   Options
	logger *slog.Logger
	msgs   chan Message

	stopped  chan struct{}
	stopOnce sync.Once

	watcher *configWatcher

	// Owned by the consumer goroutine.
	manager *wm.Manager
	cfg     *config.Config
}

var _ ipc.Handler = (*Daemon)(nil)

// New validates opts and fills in defaults.
func New(opts Options) (*Daemon, error) {
	if opts.Backend == nil {
		return nil, errors.New("daemon: backend is required")
	}
	if opts.Config == nil {
		return nil, errors.New("daemon: config is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = DefaultReloadDelay
	}
	if opts.TopologyDelay <= 0 {
		opts.TopologyDelay = DefaultTopologyDelay
	}

	return &Daemon{
		opts:    opts,
		logger:  opts.Logger,
		msgs:    make(chan Message, opts.QueueSize),
		stopped: make(chan struct{}),
		cfg:     opts.Config,
	}, nil
}

// Run builds the manager, starts the producers and consumes messages until
// ctx is cancelled or a StopMsg arrives. Hidden windows are restored before
// Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer d.markStopped()

	settings, err := d.cfg.TilingSettings()
	if err != nil {
		return fmt.Errorf("invalid tiling settings: %w", err)
	}
	set, err := d.cfg.RuleSet()
	if err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	mgr, err := wm.New(d.opts.Backend, d.opts.Border, set, settings, d.logger, d.opts.ManagerOptions...)
	if err != nil {
		return fmt.Errorf("failed to start tiling manager: %w", err)
	}
	d.manager = mgr

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	d.bindHotkeys(d.cfg.Bindings)

	if d.opts.Events != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.pumpEvents(ctx, errCh)
		}()
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: d.opts.TickInterval,
		Logger:   d.logger,
	}, d.send)
	wg.Add(1)
	go func() {
		defer wg.Done()
		reconciler.Run(ctx)
	}()

	if d.opts.WatchConfig {
		if w, err := newConfigWatcher(d.opts.ReloadDelay, d.logger, func() { d.reloadFromDisk(ctx, "config file changed") }); err != nil {
			d.logger.Warn("config watcher disabled", "error", err)
		} else {
			w.Watch(d.watchedFiles())
			d.watcher = w
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.Run(ctx)
			}()
		}
	}

	if d.opts.HandleSignals {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.handleSignals(ctx)
		}()
	}

	var server *ipc.Server
	if d.opts.SocketPath != "" {
		server = ipc.NewServer(d.opts.SocketPath, d, d.logger)
		if err := server.Start(); err != nil {
			cancel()
			d.shutdown(&wg, nil)
			return err
		}
	}

	d.logger.Info("daemon running")
	runErr := d.consume(ctx, errCh)
	d.markStopped()
	cancel()
	d.shutdown(&wg, server)
	return runErr
}

func (d *Daemon) shutdown(wg *sync.WaitGroup, server *ipc.Server) {
	if server != nil {
		server.Stop()
	}
	d.manager.RestoreAllWindows()
	if d.opts.Hotkeys != nil {
		d.opts.Hotkeys.UnbindAll()
	}
	wg.Wait()
	d.logger.Info("daemon stopped")
}

func (d *Daemon) consume(ctx context.Context, errCh <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case msg := <-d.msgs:
			if d.dispatch(msg) {
				return nil
			}
		}
	}
}

// dispatch applies one message and reports whether the loop should stop.
func (d *Daemon) dispatch(msg Message) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("message handler panic recovered", "message", fmt.Sprintf("%T", msg), "error", r)
		}
	}()

	switch m := msg.(type) {
	case EventMsg:
		if m.Event.Kind.Global() {
			d.refreshMonitors()
			return false
		}
		d.manager.HandleEvent(m.Event)
	case ActionMsg:
		err := d.manager.HandleAction(m.Action)
		if err != nil {
			d.logger.Warn("action failed", "action", m.Action.String(), "error", err)
		}
		if m.Reply != nil {
			m.Reply <- err
		}
	case ReloadMsg:
		err := d.applyConfig(m.Config)
		if err != nil {
			d.logger.Error("config reload failed", "error", err)
		}
		if m.Reply != nil {
			m.Reply <- err
		}
	case TickMsg:
		d.manager.Tick()
	case StateMsg:
		m.Reply <- d.manager.Snapshot()
	case StopMsg:
		d.logger.Info("stop requested")
		return true
	default:
		d.logger.Warn("unknown message", "message", fmt.Sprintf("%T", msg))
	}
	return false
}

func (d *Daemon) refreshMonitors() {
	pms, err := d.opts.Backend.Monitors()
	if err != nil {
		d.logger.Warn("failed to enumerate monitors", "error", err)
		return
	}
	d.manager.HandleDisplayChange(pms)
}

func (d *Daemon) applyConfig(cfg *config.Config) error {
	settings, err := cfg.TilingSettings()
	if err != nil {
		return err
	}
	set, err := cfg.RuleSet()
	if err != nil {
		return err
	}

	d.manager.ReloadConfig(settings)
	d.manager.ReloadRules(set)
	if d.opts.SetLogLevel != nil {
		d.opts.SetLogLevel(cfg.LogLevel)
	}
	if !maps.Equal(d.cfg.Bindings, cfg.Bindings) && d.opts.Hotkeys != nil {
		d.opts.Hotkeys.UnbindAll()
		d.bindHotkeys(cfg.Bindings)
	}
	d.cfg = cfg

	d.logger.Info("configuration reloaded",
		"gap", cfg.Gap,
		"ratio", cfg.Ratio,
		"hiding", cfg.HidingBehaviour,
		"rules", set.Len())
	return nil
}

func (d *Daemon) bindHotkeys(bindings map[string]string) {
	if d.opts.Hotkeys == nil {
		return
	}
	keys := slices.Sorted(maps.Keys(bindings))
	bound := 0
	for _, key := range keys {
		name := bindings[key]
		if name == "" {
			continue
		}
		a, err := action.Parse(name)
		if err != nil {
			d.logger.Warn("skipping binding", "key", key, "error", err)
			continue
		}
		if err := d.opts.Hotkeys.Bind(key, func() {
			d.send(ActionMsg{Action: a})
		}); err != nil {
			d.logger.Warn("failed to register hotkey", "key", key, "error", err)
			continue
		}
		bound++
	}
	d.logger.Info("hotkeys registered", "count", bound)
}

// Done is closed once the consumer has stopped accepting messages.
func (d *Daemon) Done() <-chan struct{} {
	return d.stopped
}

func (d *Daemon) markStopped() {
	d.stopOnce.Do(func() { close(d.stopped) })
}

// send enqueues msg from a producer. It gives up once the daemon is
// shutting down.
func (d *Daemon) send(msg Message) bool {
	return d.sendContext(context.Background(), msg) == nil
}

func (d *Daemon) sendContext(ctx context.Context, msg Message) error {
	select {
	case <-d.stopped:
		return ErrStopped
	default:
	}
	select {
	case d.msgs <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}
