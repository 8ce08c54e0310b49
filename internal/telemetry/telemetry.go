package telemetry

import (
	"context"
	"log"
	"time"
)

// Event names emitted by the practice service.
const (
	PracticeStarted  = "practice_started"
	AnswerSubmitted  = "answer_submitted"
	PracticeFinished = "practice_finished"
	PracticeReset    = "practice_reset"
)

// Event is a single usage record.
type Event struct {
	Name       string    `json:"name"`
	SessionID  string    `json:"sessionId"`
	Screen     string    `json:"screen"`
	Assignment string    `json:"assignment,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	Correct    *bool     `json:"correct,omitempty"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	At         time.Time `json:"at"`
}

// Recorder is a fire-and-forget sink. Implementations must not block for long
// and swallow their own errors.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// LogRecorder writes events to the standard logger.
type LogRecorder struct {
	Logger *log.Logger // nil uses the default logger
}

func (r LogRecorder) Record(_ context.Context, ev Event) {
	logf := log.Printf
	if r.Logger != nil {
		logf = r.Logger.Printf
	}
	logf("telemetry: %s session=%s screen=%s score=%d/%d", ev.Name, ev.SessionID, ev.Screen, ev.Score, ev.Total)
}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Record(ctx, ev)
	}
}
