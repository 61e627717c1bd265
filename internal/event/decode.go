package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. Payloads published on the in-process
// bus already hold the notice struct; anything else (a dead-letter replay, a
// map from a JSON source) goes through a JSON round trip.
func DecodePayload[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}
	var out T
	data, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("%s %T: %w", ErrMsgDecodePayload, out, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%s %T: %w", ErrMsgDecodePayload, out, err)
	}
	return out, nil
}
