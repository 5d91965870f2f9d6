package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/wm"
)

const (
	waitFor = 2 * time.Second
	poll    = 10 * time.Millisecond
)

var (
	leftMonitor = platform.Monitor{
		ID: 1, Name: "DP-1", Primary: true,
		Bounds:   platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	}
	rightMonitor = platform.Monitor{
		ID: 2, Name: "DP-2",
		Bounds:   platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
)

type fixture struct {
	d       *Daemon
	backend *fakeBackend
	events  *fakeEvents
	hotkeys *fakeHotkeys
	cancel  context.CancelFunc
	errCh   chan error

	mu     sync.Mutex
	levels []string
}

func (f *fixture) loggedLevels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.levels...)
}

func startDaemon(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()

	backend := newFakeBackend(leftMonitor)
	backend.addWindow(10, platform.Rect{X: 10, Y: 10, Width: 400, Height: 300})
	backend.addWindow(11, platform.Rect{X: 500, Y: 10, Width: 400, Height: 300})

	cfg := config.DefaultConfig()
	cfg.Gap = 0

	f := &fixture{
		backend: backend,
		events:  newFakeEvents(),
		hotkeys: newFakeHotkeys(),
		errCh:   make(chan error, 1),
	}
	opts := Options{
		Backend:       backend,
		Events:        f.events,
		Hotkeys:       f.hotkeys,
		Config:        cfg,
		ConfigPath:    filepath.Join(t.TempDir(), "config.yaml"),
		TickInterval:  time.Hour,
		ReloadDelay:   20 * time.Millisecond,
		TopologyDelay: 20 * time.Millisecond,
		SetLogLevel: func(level string) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.levels = append(f.levels, level)
		},
	}
	if mutate != nil {
		mutate(&opts)
	}

	d, err := New(opts)
	require.NoError(t, err)
	f.d = d

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.errCh <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-f.errCh:
		case <-time.After(waitFor):
			t.Error("daemon did not stop")
		}
	})

	// The first state reply is served by the consumer, so the initial
	// window scan is complete once it returns.
	f.state(t)
	return f
}

func (f *fixture) state(t *testing.T) wm.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	snap, err := f.d.State(ctx)
	require.NoError(t, err)
	return snap
}

func (f *fixture) run(t *testing.T, a action.Action) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	return f.d.RunAction(ctx, a)
}

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestNew_RequiresBackendAndConfig(t *testing.T) {
	_, err := New(Options{Config: config.DefaultConfig()})
	require.Error(t, err)

	_, err = New(Options{Backend: newFakeBackend(leftMonitor)})
	require.Error(t, err)
}

func TestDaemon_StateAfterStartup(t *testing.T) {
	f := startDaemon(t, nil)

	snap := f.state(t)
	require.Len(t, snap.Monitors, 1)
	assert.Equal(t, 2, snap.Managed)
	assert.Equal(t, 1, snap.Monitors[0].ActiveWorkspace)
	assert.Equal(t, platform.WindowID(10), snap.FocusedWindow)
}

func TestDaemon_ActionsAreSerialized(t *testing.T) {
	f := startDaemon(t, nil)

	require.NoError(t, f.run(t, action.SendTo(2)))
	require.NoError(t, f.run(t, action.GoTo(2)))

	snap := f.state(t)
	assert.Equal(t, 2, snap.Monitors[0].ActiveWorkspace)
	assert.Equal(t, platform.WindowID(10), snap.FocusedWindow)
}

func TestDaemon_ActionErrorIsReturned(t *testing.T) {
	f := startDaemon(t, func(o *Options) {
		o.Config.WorkspaceCount = 4
	})

	err := f.run(t, action.GoTo(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, action.ErrWorkspaceRange)
}

func TestDaemon_CreatedEventIsTiled(t *testing.T) {
	f := startDaemon(t, nil)

	f.backend.addWindow(12, platform.Rect{X: 100, Y: 100, Width: 300, Height: 200})
	f.events.ch <- platform.Event{Kind: platform.EventCreated, Window: 12}

	require.Eventually(t, func() bool {
		return f.state(t).Managed == 3
	}, waitFor, poll)
	assert.Equal(t, platform.WindowID(12), f.state(t).FocusedWindow)
}

func TestDaemon_DisplayChangesAreCoalesced(t *testing.T) {
	f := startDaemon(t, nil)

	f.backend.setMonitors(leftMonitor, rightMonitor)
	for range 5 {
		f.events.ch <- platform.Event{Kind: platform.EventDisplayChanged}
	}
	f.events.ch <- platform.Event{Kind: platform.EventWorkAreaChanged}

	require.Eventually(t, func() bool {
		return len(f.state(t).Monitors) == 2
	}, waitFor, poll)
}

func TestDaemon_TickPrunesVanishedWindows(t *testing.T) {
	f := startDaemon(t, func(o *Options) {
		o.TickInterval = 10 * time.Millisecond
	})

	f.backend.setVisible(11, false)

	require.Eventually(t, func() bool {
		return f.state(t).Managed == 1
	}, waitFor, poll)
}

func TestDaemon_HotkeysSendActions(t *testing.T) {
	f := startDaemon(t, nil)

	require.Eventually(t, func() bool { return f.hotkeys.has("Mod4-3") }, waitFor, poll)
	require.True(t, f.hotkeys.press("Mod4-3"))

	require.Eventually(t, func() bool {
		return f.state(t).Monitors[0].ActiveWorkspace == 3
	}, waitFor, poll)
}

func TestDaemon_HotkeyBindFailureIsNotFatal(t *testing.T) {
	f := startDaemon(t, func(o *Options) {
		o.Hotkeys.(*fakeHotkeys).failKeys = map[string]bool{"Mod4-h": true}
	})

	require.Eventually(t, func() bool { return f.hotkeys.has("Mod4-l") }, waitFor, poll)
	assert.False(t, f.hotkeys.has("Mod4-h"))
	assert.Equal(t, 2, f.state(t).Managed)
}

func TestDaemon_ReloadAppliesConfig(t *testing.T) {
	f := startDaemon(t, nil)
	writeConfig(t, f.d.opts.ConfigPath, `
hiding_behaviour: hide
log_level: debug
bindings:
  Mod4-x: retile
rules:
  - class: kitty
    manage: false
`)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, f.d.Reload(ctx))

	snap := f.state(t)
	assert.Equal(t, "hide", snap.Hiding)
	assert.Equal(t, 0, snap.Managed)
	assert.Equal(t, []string{"debug"}, f.loggedLevels())
	assert.Equal(t, 1, f.hotkeys.unbindCount())
	assert.True(t, f.hotkeys.has("Mod4-x"))
}

func TestDaemon_InvalidReloadKeepsState(t *testing.T) {
	f := startDaemon(t, nil)
	writeConfig(t, f.d.opts.ConfigPath, "ratio: 2\n")

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	err := f.d.Reload(ctx)
	require.Error(t, err)

	snap := f.state(t)
	assert.Equal(t, "cloak", snap.Hiding)
	assert.Equal(t, 2, snap.Managed)
	assert.Empty(t, f.loggedLevels())
}

func TestDaemon_WatchedConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "gap: 0\n")

	f := startDaemon(t, func(o *Options) {
		o.ConfigPath = path
		o.WatchConfig = true
	})
	require.Equal(t, "cloak", f.state(t).Hiding)

	writeConfig(t, path, "gap: 0\nhiding_behaviour: minimize\n")

	require.Eventually(t, func() bool {
		return f.state(t).Hiding == "minimize"
	}, waitFor, poll)
}

func TestDaemon_StopRestoresHiddenWindows(t *testing.T) {
	f := startDaemon(t, nil)

	// Sending follows the window, leaving 11 cloaked on workspace 1.
	require.NoError(t, f.run(t, action.SendTo(2)))
	require.Equal(t, 2, f.state(t).Monitors[0].ActiveWorkspace)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, f.d.Stop(ctx))

	select {
	case err := <-f.errCh:
		require.NoError(t, err)
		f.errCh <- err
	case <-time.After(waitFor):
		t.Fatal("daemon did not stop")
	}

	assert.Contains(t, f.backend.uncloaked(), platform.WindowID(11))
	assert.Equal(t, 1, f.hotkeys.unbindCount())

	_, err := f.d.State(ctx)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDaemon_CancelStopsRun(t *testing.T) {
	f := startDaemon(t, nil)
	_ = f.state(t)

	f.cancel()
	select {
	case <-f.d.Done():
	case <-time.After(waitFor):
		t.Fatal("daemon did not stop")
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	b := newDebouncer(20*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer b.Stop()

	for range 10 {
		b.Trigger()
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, waitFor, poll)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestReconciler_StopsWhenSendFails(t *testing.T) {
	sent := make(chan Message, 4)
	count := 0
	r := NewReconciler(ReconcilerConfig{Interval: 5 * time.Millisecond}, func(m Message) bool {
		count++
		sent <- m
		return count < 2
	})

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("reconciler kept running")
	}
	assert.Len(t, sent, 2)
	assert.IsType(t, TickMsg{}, <-sent)
}
