package orchestrator

import (
	"github.com/brandlens/brandlens/internal/models"
)

// EventType identifies a progress event emitted during a measurement run
type EventType string

const (
	EventStart    EventType = "start"
	EventProgress EventType = "progress"
	EventSuccess  EventType = "success"
	EventSkipped  EventType = "skipped"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
)

// Event is one entry in a run's progress stream. The stream is the single
// source of truth for what succeeded, skipped or failed within a run.
type Event struct {
	Type       EventType                 `json:"type"`
	PromptID   string                    `json:"prompt_id,omitempty"`
	PromptText string                    `json:"prompt_text,omitempty"`
	TopicID    string                    `json:"topic_id,omitempty"`
	Provider   string                    `json:"provider,omitempty"`
	Message    string                    `json:"message,omitempty"`
	Reason     string                    `json:"reason,omitempty"`
	Snapshot   *models.PromptKPISnapshot `json:"snapshot,omitempty"`
	Summary    *Summary                  `json:"summary,omitempty"`
}

// Summary counts the per-outcome totals of one run
type Summary struct {
	TotalPrompts int `json:"total_prompts"`
	Processed    int `json:"processed"`
	Skipped      int `json:"skipped"`
	Errors       int `json:"errors"`
}

// Sink receives progress events. Emission is fire-and-forget: a sink must
// not block, and a sink failure never aborts the run.
type Sink func(Event)

// emit sends an event to the sink, absorbing a nil sink and any panic so a
// broken consumer cannot take the run down with it
func emit(sink Sink, event Event) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink(event)
}

// failBatch reports a batch that could not start. The error and an empty
// complete summary still reach the sink, so every invocation ends with a
// terminal complete event no matter how early it failed.
func failBatch(sink Sink, err error) error {
	emit(sink, Event{Type: EventError, Message: err.Error()})
	emit(sink, Event{Type: EventComplete, Summary: &Summary{}})
	return err
}
