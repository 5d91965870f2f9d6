package platform

import "context"

// EventKind enumerates window-system notifications the manager consumes.
type EventKind int

const (
	EventCreated EventKind = iota
	EventDestroyed
	EventFocused
	EventMoved
	EventMinimized
	EventRestored
	EventTitleChanged
	EventLocationChanged
	EventDisplayChanged
	EventWorkAreaChanged
)

var eventKindNames = [...]string{
	EventCreated:         "created",
	EventDestroyed:       "destroyed",
	EventFocused:         "focused",
	EventMoved:           "moved",
	EventMinimized:       "minimized",
	EventRestored:        "restored",
	EventTitleChanged:    "title_changed",
	EventLocationChanged: "location_changed",
	EventDisplayChanged:  "display_changed",
	EventWorkAreaChanged: "work_area_changed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Global reports whether the event concerns the display topology rather
// than a single window.
func (k EventKind) Global() bool {
	return k == EventDisplayChanged || k == EventWorkAreaChanged
}

// Event is a single window-system notification. Window is zero for global
// events.
type Event struct {
	Kind   EventKind
	Window WindowID
}

// EventSource pumps window-system notifications until ctx is cancelled.
type EventSource interface {
	Run(ctx context.Context, emit func(Event)) error
}
