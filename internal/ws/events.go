// Package ws streams traversal progress to WebSocket clients.
package ws

import (
	"encoding/json"
	"time"
)

// Event types sent on a level stream.
const (
	EventLevel = "level"
	EventDone  = "done"
	EventError = "error"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type  string          `json:"type"`
	ID    uint64          `json:"id"`
	RunID string          `json:"run_id"`
	Data  json.RawMessage `json:"data"`
	Time  time.Time       `json:"time"`
}

// LevelData is the payload of a level event.
type LevelData struct {
	Depth int      `json:"depth"`
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}

// DoneData is the payload of the final event of a successful run.
type DoneData struct {
	Counts         []int   `json:"counts"`
	Total          int     `json:"total"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ErrorData is the payload of the final event of a failed run.
type ErrorData struct {
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

func newEvent(typ, runID string, seq uint64, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:  typ,
		ID:    seq,
		RunID: runID,
		Data:  raw,
		Time:  time.Now().UTC(),
	})
}
