package api

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
)

func TestEnvelope(t *testing.T) {
	out := NewJoinRoom("abc123")
	data, err := out.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(data) != `{"t":"join-room","p":"abc123"}` {
		t.Errorf("unexpected wire form %s", data)
	}

	var in In
	if err := json.Unmarshal(data, &in); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if in.T != JoinRoom || string(in.Payload) != `"abc123"` {
		t.Errorf("unexpected packet %+v", in)
	}
}

func TestEventValidation(t *testing.T) {
	for _, e := range []Event{JoinRoom, RoomInfo, UserJoined, UserLeft, Offer, Answer, IceCandidate, Error} {
		if !e.Valid() {
			t.Errorf("[%v] should be a protocol event", e)
		}
	}
	for _, e := range []Event{"", "join", "JOIN-ROOM", "self-destruct"} {
		if e.Valid() {
			t.Errorf("[%v] should not be a protocol event", e)
		}
	}
}

func TestUnwrap(t *testing.T) {
	signal := Unwrap[Signal]([]byte(`{"to":"p2","offer":{"type":"offer","sdp":"v=0"}}`))
	if signal == nil || signal.To != "p2" {
		t.Fatalf("unexpected signal %+v", signal)
	}
	if got := Unwrap[Signal]([]byte(`}garbage{`)); got != nil {
		t.Errorf("malformed data should unwrap to nil, got %+v", got)
	}
}

func TestSignalForward(t *testing.T) {
	// the blob content and key order must survive the relay untouched
	offer := json.RawMessage(`{"sdp":"v=0\r\n","type":"offer"}`)
	signal := Signal{To: "p2", Offer: offer}

	forwarded := signal.Forward("p1")
	if forwarded.To != "" || forwarded.From != "p1" {
		t.Errorf("bad readdressing %+v", forwarded)
	}
	if !bytes.Equal(forwarded.Offer, offer) {
		t.Errorf("the blob was touched:\n%s\n%s", offer, forwarded.Offer)
	}
	// the original is left alone
	if signal.To != "p2" || signal.From != "" {
		t.Errorf("the source signal changed %+v", signal)
	}

	data, err := json.Marshal(forwarded)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !bytes.Contains(data, offer) {
		t.Errorf("the blob was re-encoded: %s", data)
	}
}
