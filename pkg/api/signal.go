package api

import (
	"github.com/goccy/go-json"
)

// Signal is the payload of the offer, answer and ice-candidate events.
// Inbound packets carry To, relayed packets carry From; the negotiation
// data stays opaque raw JSON all the way through.
type Signal struct {
	To        string          `json:"to,omitempty"`
	From      string          `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Forward readdresses an inbound signal for its target.
func (s Signal) Forward(from string) Signal {
	s.To = ""
	s.From = from
	return s
}

// RoomInfoData is sent to a participant right after a room join,
// the member list excludes the joiner.
type RoomInfoData struct {
	RoomId       string   `json:"roomId"`
	Participants []string `json:"participants"`
}

// ErrorData is sent to a participant when its join failed.
type ErrorData struct {
	Message string `json:"message"`
}

// The join-room, user-joined and user-left events carry a bare JSON string
// (the room id and the participant id accordingly).

func NewOffer(to string, offer json.RawMessage) Out {
	return Out{T: Offer, Payload: Signal{To: to, Offer: offer}}
}

func NewAnswer(to string, answer json.RawMessage) Out {
	return Out{T: Answer, Payload: Signal{To: to, Answer: answer}}
}

func NewIceCandidate(to string, candidate json.RawMessage) Out {
	return Out{T: IceCandidate, Payload: Signal{To: to, Candidate: candidate}}
}

func NewJoinRoom(roomId string) Out { return Out{T: JoinRoom, Payload: roomId} }
