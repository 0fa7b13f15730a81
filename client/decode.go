package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// NeighborsField is the payload field holding the neighbor list.
const NeighborsField = "neighbors"

// NeighborResponse is the wire shape of a neighbor lookup.
type NeighborResponse struct {
	Neighbors []string `json:"neighbors"`
}

var (
	errNotObject = errors.New("payload is not a JSON object")
	errNotArray  = errors.New(`"neighbors" is not an array`)
)

// DecodeNeighbors parses a lookup payload into its ordered neighbor list.
// A missing or null "neighbors" field yields an empty list.
func DecodeNeighbors(payload []byte) ([]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &DecodeError{Payload: snippet(payload), Err: err}
	}
	if doc == nil {
		return nil, &DecodeError{Payload: snippet(payload), Err: errNotObject}
	}

	raw, ok := doc[NeighborsField]
	if !ok || isNull(raw) {
		return []string{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Payload: snippet(payload), Err: errNotArray}
	}

	neighbors := make([]string, 0, len(entries))
	for i, entry := range entries {
		entry = bytes.TrimSpace(entry)
		// null unmarshals into a string without error, so check the token first.
		if len(entry) == 0 || entry[0] != '"' {
			return nil, &DecodeError{
				Payload: snippet(payload),
				Err:     fmt.Errorf("neighbor %d is not a string: %s", i, entry),
			}
		}
		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			return nil, &DecodeError{Payload: snippet(payload), Err: fmt.Errorf("neighbor %d: %w", i, err)}
		}
		neighbors = append(neighbors, s)
	}

	return neighbors, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
