package daemon

import (
	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/wm"
)

// Message is anything the consumer loop accepts. Producers construct
// messages and never touch manager state directly.
type Message interface {
	message()
}

// EventMsg carries one window-system notification.
type EventMsg struct {
	Event platform.Event
}

// ActionMsg runs a user action. Reply, when non-nil, receives the result.
type ActionMsg struct {
	Action action.Action
	Reply  chan<- error
}

// ReloadMsg applies an already parsed and validated configuration.
type ReloadMsg struct {
	Config *config.Config
	Reply  chan<- error
}

// TickMsg triggers the periodic stale-window sweep.
type TickMsg struct{}

// StateMsg requests a snapshot of the manager.
type StateMsg struct {
	Reply chan<- wm.Snapshot
}

// StopMsg ends the consumer loop.
type StopMsg struct{}

func (EventMsg) message()  {}
func (ActionMsg) message() {}
func (ReloadMsg) message() {}
func (TickMsg) message()   {}
func (StateMsg) message()  {}
func (StopMsg) message()   {}
