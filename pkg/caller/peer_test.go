package caller

import (
	"errors"
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/visavis-rtc/visavis/pkg/config"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

func newTestPeer(t *testing.T, remoteId string) *PeerSession {
	t.Helper()
	factory, err := NewApiFactory(config.Webrtc{LogLevel: 4}, logger.Default())
	if err != nil {
		t.Fatalf("couldn't build the factory: %v", err)
	}
	s, err := NewPeerSession(remoteId, factory, logger.Default(), nil, nil)
	if err != nil {
		t.Fatalf("couldn't build the session: %v", err)
	}
	t.Cleanup(s.Close)

	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}, "video", "peer-test")
	if err != nil {
		t.Fatalf("couldn't make a track: %v", err)
	}
	if err := s.AttachLocalStream(track); err != nil {
		t.Fatalf("couldn't attach the track: %v", err)
	}
	return s
}

func expectCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected a typed failure, got %v", err)
	}
	if e.Code != code {
		t.Fatalf("expected %v, got %v", code, e.Code)
	}
}

func TestNegotiation(t *testing.T) {
	offerer := newTestPeer(t, "p2")
	answerer := newTestPeer(t, "p1")

	if got := offerer.State(); got != Idle {
		t.Fatalf("a fresh session should be idle, got %v", got)
	}

	offer, err := offerer.CreateOffer()
	if err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if got := offerer.State(); got != HaveLocalOffer {
		t.Fatalf("expected have-local-offer, got %v", got)
	}

	answer, err := answerer.AcceptOffer(offer)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := answerer.State(); got != HaveRemoteOffer {
		t.Fatalf("expected have-remote-offer, got %v", got)
	}

	if err := offerer.AcceptAnswer(answer); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if got := offerer.State(); got != Connected {
		t.Fatalf("expected connected, got %v", got)
	}
}

func TestNegotiationStateGuards(t *testing.T) {
	s := newTestPeer(t, "p2")
	if _, err := s.CreateOffer(); err != nil {
		t.Fatalf("offer failed: %v", err)
	}

	// once past idle no second negotiation can start
	_, err := s.CreateOffer()
	expectCode(t, err, ErrInvalidState)
	_, err = s.AcceptOffer(webrtc.SessionDescription{})
	expectCode(t, err, ErrInvalidState)

	other := newTestPeer(t, "p3")
	// an answer without a local offer in place has nothing to pair with
	expectCode(t, other.AcceptAnswer(webrtc.SessionDescription{}), ErrInvalidState)
}

func TestCandidatesQueueUntilRemoteDescription(t *testing.T) {
	offerer := newTestPeer(t, "p2")
	answerer := newTestPeer(t, "p1")

	mid := "0"
	candidate := webrtc.ICECandidateInit{
		Candidate: "candidate:1 1 UDP 2122252543 127.0.0.1 54400 typ host",
		SDPMid:    &mid,
	}
	if err := answerer.AddRemoteCandidate(candidate); err != nil {
		t.Fatalf("an early candidate should be accepted: %v", err)
	}
	answerer.mu.Lock()
	queued := len(answerer.pending)
	answerer.mu.Unlock()
	if queued != 1 {
		t.Fatalf("expected the candidate on the queue, got %v", queued)
	}

	offer, err := offerer.CreateOffer()
	if err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if _, err := answerer.AcceptOffer(offer); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	answerer.mu.Lock()
	queued, hasRemote := len(answerer.pending), answerer.hasRemote
	answerer.mu.Unlock()
	if queued != 0 || !hasRemote {
		t.Fatalf("the queue should be drained on the remote description, got %v left", queued)
	}

	// with the description in place candidates go straight through
	if err := answerer.AddRemoteCandidate(candidate); err != nil {
		t.Fatalf("a late candidate should be applied: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestPeer(t, "p2")
	s.Close()
	s.Close()
	if got := s.State(); got != Closed {
		t.Fatalf("expected closed, got %v", got)
	}

	expectCode(t, s.AddRemoteCandidate(webrtc.ICECandidateInit{}), ErrSessionClosed)
	expectCode(t, s.AttachLocalStream(), ErrSessionClosed)
	_, err := s.CreateOffer()
	expectCode(t, err, ErrInvalidState)
}

func TestStateNames(t *testing.T) {
	for state, want := range map[State]string{
		Idle: "idle", HaveLocalOffer: "have-local-offer", HaveRemoteOffer: "have-remote-offer",
		Connected: "connected", Closed: "closed", State(99): "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("%d: expected %v, got %v", state, want, got)
		}
	}
}
