package comm

import (
	"encoding/json"
	"errors"
	"fmt"

	"stopwatch/network/messages"

	"github.com/tidwall/gjson"
)

var ErrMalformedMessage = errors.New("malformed message")

type envelope struct {
	Type    messages.MessageType `json:"type"`
	Payload any                  `json:"payload"`
}

// Encode wraps payload in a typed envelope.
func Encode(msgType messages.MessageType, payload any) ([]byte, error) {
	data, err := json.Marshal(envelope{Type: msgType, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return data, nil
}

// Decode returns the envelope type and the raw payload so the caller can
// unmarshal into the matching struct.
func Decode(data []byte) (messages.MessageType, []byte, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, ErrMalformedMessage
	}
	msgType := gjson.GetBytes(data, "type")
	payload := gjson.GetBytes(data, "payload")
	if msgType.Type != gjson.String || !payload.IsObject() {
		return "", nil, ErrMalformedMessage
	}
	return messages.MessageType(msgType.String()), []byte(payload.Raw), nil
}
