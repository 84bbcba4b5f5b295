package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns evt's payload as T. Payloads published in-process are
// already T (or *T); payloads read back from JSON arrive as maps and are re-decoded.
func DecodePayload[T any](evt Event) (T, error) {
	switch p := evt.Payload.(type) {
	case T:
		return p, nil
	case *T:
		if p != nil {
			return *p, nil
		}
	}

	var out T
	if evt.Payload == nil {
		return out, fmt.Errorf("%s: %s", ErrMsgEmptyPayload, evt.Type)
	}
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, evt.Type, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, evt.Type, err)
	}
	return out, nil
}
