package catalog

import (
	"bytes"
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// List endpoints answer with either a bare array or an envelope holding
// the array under "data". decodeList accepts both and is the only place
// that knows about the split.
func decodeList(op string, raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &DecodeError{Op: op, Err: errors.New("empty response body")}
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return &DecodeError{Op: op, Err: err}
		}
		return nil
	}

	var envelope struct {
		Data jsoniter.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	if envelope.Data == nil {
		return &DecodeError{Op: op, Err: errors.New("response has neither array body nor data field")}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func decodeObject(op string, raw []byte, out interface{}) error {
	if err := json.Unmarshal(bytes.TrimSpace(raw), out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
