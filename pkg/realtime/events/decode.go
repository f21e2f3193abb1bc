package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Parse decodes a raw text frame into a typed event. Malformed JSON and
// frames without a type field are decode failures; unknown but well-formed
// event types pass through untouched.
func Parse(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal server event: %w", err)
	}
	if ev.Type == "" {
		return nil, errors.New("server event missing type")
	}
	return &ev, nil
}
