// Package api defines the signaling protocol shared by the relay server and callers.
//
// Each message is a JSON-encoded "packet" of the following structure:
//
//	t - (required) one of the predefined event kinds;
//	p - (optional) packet payload with the event data.
//
// The payload schema is fixed per event kind, and packets are unwrapped in
// two passes: the envelope first, then the payload into the typed structure
// of its kind. Session descriptions and ICE candidates are carried as raw
// JSON and never interpreted, so the relay forwards them byte-for-byte.
package api

import (
	"github.com/goccy/go-json"
)

// Event enumerates the signaling message kinds.
type Event string

const (
	JoinRoom     Event = "join-room"
	RoomInfo     Event = "room-info"
	UserJoined   Event = "user-joined"
	UserLeft     Event = "user-left"
	Offer        Event = "offer"
	Answer       Event = "answer"
	IceCandidate Event = "ice-candidate"
	Error        Event = "error"
)

// Valid tells if the event kind is part of the protocol.
func (e Event) Valid() bool {
	switch e {
	case JoinRoom, RoomInfo, UserJoined, UserLeft, Offer, Answer, IceCandidate, Error:
		return true
	}
	return false
}

func (e Event) String() string { return string(e) }

type In struct {
	T       Event           `json:"t"`
	Payload json.RawMessage `json:"p,omitempty"` // should be json.RawMessage for 2-pass unmarshal
}

type Out struct {
	T       Event `json:"t"`
	Payload any   `json:"p,omitempty"`
}

func (o *Out) Encode() ([]byte, error) { return json.Marshal(o) }

// Unwrap decodes a payload into the T structure, nil on malformed data.
func Unwrap[T any](data []byte) *T {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}
