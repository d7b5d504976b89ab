package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

type EventType string

const (
	EventMoveApplied EventType = "move:applied"
	EventGameEnded   EventType = "game:ended"
)

type Event struct {
	Type    EventType       `json:"type"`
	Move    *entity.Move    `json:"move,omitempty"`
	Mark    entity.Mark     `json:"mark,omitempty"`
	Outcome *entity.Outcome `json:"outcome,omitempty"`
}

// Recorder is a Listener that keeps events in the order they were raised.
type Recorder struct {
	Events []Event
}

func (that *Recorder) MoveApplied(move entity.Move, mark entity.Mark) {
	that.Events = append(that.Events, Event{Type: EventMoveApplied, Move: &move, Mark: mark})
}

func (that *Recorder) GameEnded(outcome entity.Outcome) {
	that.Events = append(that.Events, Event{Type: EventGameEnded, Outcome: &outcome})
}
