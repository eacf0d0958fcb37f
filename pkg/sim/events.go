package sim

import "fmt"

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventReset
	EventSpeedChanged
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventReset:
		return "reset"
	case EventSpeedChanged:
		return "speed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind  EventKind
	RunID string
	Epoch int
	Speed int
}

// Message is the notification text shown to the user for the event.
func (e Event) Message() string {
	switch e.Kind {
	case EventStarted:
		return "Training started"
	case EventPaused:
		return "Training paused"
	case EventReset:
		return "Training reset"
	case EventSpeedChanged:
		return fmt.Sprintf("Training speed: %dx", e.Speed)
	case EventCompleted:
		return "Training completed successfully!"
	default:
		return ""
	}
}

// Success reports whether the event should be shown as a success notice
// rather than an informational one.
func (e Event) Success() bool {
	return e.Kind == EventCompleted
}
