// Package event decodes the JSON payload the Codex CLI passes to its notify hook.
package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeAgentTurnComplete is the only event type that triggers a notification
const TypeAgentTurnComplete = "agent-turn-complete"

// DefaultSummary is used when the event carries no last assistant message
const DefaultSummary = "Codex CLI session completed"

// Event is a Codex notify payload. Only Type, LastAssistantMessage and Cwd
// drive behavior; the remaining fields are kept for logging.
type Event struct {
	Type                 string   `json:"type"`
	LastAssistantMessage *string  `json:"last-assistant-message,omitempty"`
	Cwd                  string   `json:"cwd,omitempty"`
	ThreadID             string   `json:"thread-id,omitempty"`
	TurnID               string   `json:"turn-id,omitempty"`
	InputMessages        []string `json:"input-messages,omitempty"`
}

// Parse decodes raw as an Event. The payload must be a single JSON object.
func Parse(raw string) (Event, error) {
	if strings.TrimSpace(raw) == "" {
		return Event{}, fmt.Errorf("invalid JSON: empty input")
	}

	// decode loosely first so a wrongly typed optional field is ignored
	// rather than rejecting the whole event
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Event{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if fields == nil {
		return Event{}, fmt.Errorf("invalid JSON: event must be an object")
	}

	var ev Event
	decodeString(fields, "type", &ev.Type)
	decodeString(fields, "cwd", &ev.Cwd)
	decodeString(fields, "thread-id", &ev.ThreadID)
	decodeString(fields, "turn-id", &ev.TurnID)

	if msg, ok := fields["last-assistant-message"]; ok {
		var s *string
		if err := json.Unmarshal(msg, &s); err == nil {
			ev.LastAssistantMessage = s
		}
	}
	if msgs, ok := fields["input-messages"]; ok {
		_ = json.Unmarshal(msgs, &ev.InputMessages)
	}

	return ev, nil
}

func decodeString(fields map[string]json.RawMessage, key string, dst *string) {
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, dst)
	}
}

// IsTurnComplete reports whether the event should trigger a notification
func (e Event) IsTurnComplete() bool {
	return e.Type == TypeAgentTurnComplete
}

// Summary returns the last assistant message, or DefaultSummary when the
// field is absent or null. An explicitly empty message is returned as-is.
func (e Event) Summary() string {
	if e.LastAssistantMessage == nil {
		return DefaultSummary
	}
	return *e.LastAssistantMessage
}
