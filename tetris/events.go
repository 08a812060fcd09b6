package tetris

// EventKind identifies what happened during a match.
type EventKind string

const (
	EventPieceLocked  EventKind = "piece_locked"
	EventLinesCleared EventKind = "lines_cleared"
	EventEnteringName EventKind = "entering_name"
	EventGameOver     EventKind = "game_over"
)

// Event is emitted synchronously while a command runs. Lines is only set
// for EventLinesCleared.
type Event struct {
	Kind  EventKind
	Lines int
}

// Listener is called for every event, e.g. to play a sound.
type Listener func(Event)
