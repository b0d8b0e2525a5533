package client

import (
	"encoding/json"
	"fmt"
)

// Envelope is the backend's uniform response wrapper. The data field holds
// either a single object or an array depending on the endpoint, so it is kept
// raw until the caller knows what to expect.
type Envelope struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// ParseEnvelope decodes a response body into an Envelope.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed response envelope: %w", err)
	}
	return env, nil
}

// HasData reports whether the envelope carries a non-null, non-empty payload.
func (e Envelope) HasData() bool {
	switch string(e.Data) {
	case "", "null", "{}", "[]":
		return false
	}
	return true
}

// Object decodes the data field into out, expecting a single JSON object.
func (e Envelope) Object(out interface{}) error {
	if !e.HasData() {
		return ErrEmptyData
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// List decodes the data field into out, tolerating endpoints that wrap a
// single object where an array is expected.
func (e Envelope) List(out interface{}) error {
	if !e.HasData() {
		return ErrEmptyData
	}
	if err := json.Unmarshal(e.Data, out); err == nil {
		return nil
	}
	// Some endpoints return a lone object for single-element results.
	wrapped := append([]byte{'['}, e.Data...)
	wrapped = append(wrapped, ']')
	if err := json.Unmarshal(wrapped, out); err != nil {
		return fmt.Errorf("decode response list: %w", err)
	}
	return nil
}
