package usecase

import (
	"encoding/json"
	"fmt"
)

// eventObject extracts the provider object out of a full webhook event
// payload (`data.object`).
func eventObject(payload json.RawMessage) (json.RawMessage, error) {
	var envelope struct {
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}
	if len(envelope.Data.Object) == 0 {
		return nil, fmt.Errorf("event payload has no data object")
	}
	return envelope.Data.Object, nil
}

// unmarshalObject decodes data.object into the given provider type.
func unmarshalObject(payload json.RawMessage, dst interface{}) error {
	object, err := eventObject(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(object, dst); err != nil {
		return fmt.Errorf("failed to parse event object: %w", err)
	}
	return nil
}
