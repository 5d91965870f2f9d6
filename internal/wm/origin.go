package wm

import (
	"time"

	"github.com/1broseidon/bsptile/internal/platform"
)

// settleWindow is how long a freshly shown window is exempt from stale
// pruning while the window system catches up.
const settleWindow = 2 * time.Second

// origin tracks which window-system notifications were caused by the
// manager itself.
//
// applying only guards against re-entrant layout within one call: the
// Moved notifications a retile triggers are delivered through the event
// queue after retile has returned, so onMoved never observes inLayout in
// practice. Those echoes are suppressed by comparing the reported geometry
// with the placed rect under snapTolerance.
type origin struct {
	applying bool
	hidden   map[platform.WindowID]struct{}
	shown    map[platform.WindowID]time.Time
}

func newOrigin() origin {
	return origin{
		hidden: make(map[platform.WindowID]struct{}),
		shown:  make(map[platform.WindowID]time.Time),
	}
}

// beginLayout marks the start of a programmatic geometry change. It returns
// false if a layout is already in progress.
func (o *origin) beginLayout() bool {
	if o.applying {
		return false
	}
	o.applying = true
	return true
}

func (o *origin) endLayout() {
	o.applying = false
}

func (o *origin) inLayout() bool {
	return o.applying
}

// markHidden records that id is about to be hidden by a workspace switch.
func (o *origin) markHidden(id platform.WindowID) {
	o.hidden[id] = struct{}{}
}

// markShown clears the hidden marker and starts the settle window.
func (o *origin) markShown(id platform.WindowID, now time.Time) {
	delete(o.hidden, id)
	o.shown[id] = now
}

func (o *origin) isHidden(id platform.WindowID) bool {
	_, ok := o.hidden[id]
	return ok
}

func (o *origin) settling(id platform.WindowID, now time.Time) bool {
	at, ok := o.shown[id]
	if !ok {
		return false
	}
	if now.Sub(at) >= settleWindow {
		delete(o.shown, id)
		return false
	}
	return true
}

func (o *origin) forget(id platform.WindowID) {
	delete(o.hidden, id)
	delete(o.shown, id)
}

func (o *origin) hiddenIDs() []platform.WindowID {
	out := make([]platform.WindowID, 0, len(o.hidden))
	for id := range o.hidden {
		out = append(out, id)
	}
	return out
}

func (o *origin) reset() {
	clear(o.hidden)
	clear(o.shown)
}
