// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package feed implements the JSON wire format spoken with the sign list
// endpoint. Inbound frames carry either a full snapshot ("list") or a single
// additional record ("push"); outbound frames request a snapshot or keep the
// connection alive.
package feed // import "github.com/toeirei/signwatch/internal/feed"

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/toeirei/signwatch/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformed is returned by Decode for payloads that are not a JSON object.
var ErrMalformed = errors.New("feed: malformed message")

// Kind identifies a message type.
type Kind string

const (
	KindList      Kind = "list"
	KindPush      Kind = "push"
	KindKeepalive Kind = "keepalive"
	// KindIgnored marks well-formed messages of an unrecognized shape.
	KindIgnored Kind = ""
)

// Message is a decoded inbound frame.
type Message struct {
	Kind    Kind
	Records []model.ServiceRecord
	// Type is the raw "type" field, kept for logging ignored messages.
	Type string
}

// Known reports whether the message changes the service list.
func (m Message) Known() bool {
	return m.Kind == KindList || m.Kind == KindPush
}

type envelope struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

// Decode parses one inbound frame. Only payloads that are not JSON objects
// yield an error; any other unexpected shape decodes to a KindIgnored message.
func Decode(data []byte) (Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, ErrMalformed
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	msg := Message{Type: env.Type}
	payload := bytes.TrimSpace(env.Data)
	switch Kind(env.Type) {
	case KindList:
		if len(payload) == 0 || payload[0] != '[' {
			return msg, nil
		}
		var records []model.ServiceRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return msg, nil
		}
		if records == nil {
			records = []model.ServiceRecord{}
		}
		msg.Kind = KindList
		msg.Records = records
	case KindPush:
		if len(payload) == 0 || payload[0] != '{' {
			return msg, nil
		}
		var record model.ServiceRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return msg, nil
		}
		msg.Kind = KindPush
		msg.Records = []model.ServiceRecord{record}
	}
	return msg, nil
}

type request struct {
	Type Kind `json:"type"`
}

// Encode builds an outbound request frame of the given kind.
func Encode(kind Kind) ([]byte, error) {
	switch kind {
	case KindList, KindKeepalive:
		return json.Marshal(request{Type: kind})
	default:
		return nil, fmt.Errorf("feed: cannot encode request of kind %q", kind)
	}
}

// ListRequest returns the snapshot request frame.
func ListRequest() []byte { return mustEncode(KindList) }

// KeepaliveRequest returns the keepalive frame.
func KeepaliveRequest() []byte { return mustEncode(KindKeepalive) }

func mustEncode(kind Kind) []byte {
	b, err := Encode(kind)
	if err != nil {
		panic(err)
	}
	return b
}
