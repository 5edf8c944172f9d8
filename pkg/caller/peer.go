package caller

import (
	"sync"

	"github.com/pion/webrtc/v3"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

// State tracks where a peer session is in the offer/answer exchange.
type State uint8

const (
	Idle State = iota
	HaveLocalOffer
	HaveRemoteOffer
	Connected
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HaveLocalOffer:
		return "have-local-offer"
	case HaveRemoteOffer:
		return "have-remote-offer"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

type (
	// RemoteTrackHandler surfaces inbound media of the remote peer.
	RemoteTrackHandler func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
	// LocalCandidateHandler is called for every locally discovered ICE
	// candidate, which should be signaled to the remote peer.
	LocalCandidateHandler func(candidate webrtc.ICECandidateInit)
)

// PeerSession drives the negotiation with one remote participant.
//
// The engine callbacks and the relayed signaling events may interleave
// arbitrarily, so every operation is serialized on the session mutex.
// Candidates arriving before the remote description are queued and flushed
// once it is applied; the engine rejects them in the other order.
type PeerSession struct {
	RemoteId string

	conn *webrtc.PeerConnection
	log  *logger.Logger

	mu        sync.Mutex
	state     State
	hasRemote bool
	pending   []webrtc.ICECandidateInit
}

func NewPeerSession(remoteId string, factory *ApiFactory, log *logger.Logger,
	onTrack RemoteTrackHandler, onCandidate LocalCandidateHandler) (*PeerSession, error) {
	conn, err := factory.NewPeer()
	if err != nil {
		return nil, err
	}
	s := &PeerSession{
		RemoteId: remoteId,
		conn:     conn,
		log:      log.Wrap(log.With().Str("peer", remoteId)),
	}
	conn.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		if s.State() == Closed {
			return
		}
		s.log.Info().Msgf("remote [%v] track", track.Kind())
		if onTrack != nil {
			onTrack(track, receiver)
		}
	})
	conn.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		// nil marks the end of the gathering
		if candidate == nil || s.State() == Closed {
			return
		}
		if onCandidate != nil {
			onCandidate(candidate.ToJSON())
		}
	})
	conn.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		s.log.Debug().Msgf("ice state [%v]", state)
		if state == webrtc.ICEConnectionStateConnected {
			s.mu.Lock()
			if s.state == HaveRemoteOffer {
				s.state = Connected
			}
			s.mu.Unlock()
		}
	})
	return s, nil
}

func (s *PeerSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AttachLocalStream registers the local media tracks with the connection.
// Must be called before an offer or answer is created; a failure leaves
// the session in its prior state.
func (s *PeerSession) AttachLocalStream(tracks ...webrtc.TrackLocal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return negotiationError(ErrSessionClosed, nil)
	}
	for _, track := range tracks {
		if _, err := s.conn.AddTrack(track); err != nil {
			return negotiationError(ErrSetLocalStream, err)
		}
	}
	return nil
}

// CreateOffer produces and applies the local session description.
// Valid from the idle state only.
func (s *PeerSession) CreateOffer() (webrtc.SessionDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return webrtc.SessionDescription{}, negotiationError(ErrInvalidState, nil)
	}
	offer, err := s.conn.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, negotiationError(ErrCreateOffer, err)
	}
	if err = s.conn.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, negotiationError(ErrCreateOffer, err)
	}
	s.state = HaveLocalOffer
	s.log.Debug().Msg("created offer")
	return offer, nil
}

// AcceptOffer applies the remote offer and produces the local answer.
// Valid from the idle state only.
func (s *PeerSession) AcceptOffer(remote webrtc.SessionDescription) (webrtc.SessionDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return webrtc.SessionDescription{}, negotiationError(ErrInvalidState, nil)
	}
	if err := s.conn.SetRemoteDescription(remote); err != nil {
		return webrtc.SessionDescription{}, negotiationError(ErrHandleOffer, err)
	}
	s.remoteApplied()
	answer, err := s.conn.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, negotiationError(ErrHandleOffer, err)
	}
	if err = s.conn.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, negotiationError(ErrHandleOffer, err)
	}
	s.state = HaveRemoteOffer
	s.log.Debug().Msg("accepted offer")
	return answer, nil
}

// AcceptAnswer applies the remote answer and completes the description
// pairing. Valid when a local offer is in place.
func (s *PeerSession) AcceptAnswer(remote webrtc.SessionDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != HaveLocalOffer {
		return negotiationError(ErrInvalidState, nil)
	}
	if err := s.conn.SetRemoteDescription(remote); err != nil {
		return negotiationError(ErrHandleAnswer, err)
	}
	s.remoteApplied()
	s.state = Connected
	s.log.Debug().Msg("accepted answer")
	return nil
}

// AddRemoteCandidate feeds a relayed ICE candidate into the engine.
// Candidates that arrive before the remote description are queued and
// applied on the description, none are lost.
func (s *PeerSession) AddRemoteCandidate(candidate webrtc.ICECandidateInit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return negotiationError(ErrSessionClosed, nil)
	}
	if !s.hasRemote {
		s.pending = append(s.pending, candidate)
		return nil
	}
	if err := s.conn.AddICECandidate(candidate); err != nil {
		return negotiationError(ErrAddIceCandidate, err)
	}
	return nil
}

// remoteApplied flushes the candidates queued before the remote
// description existed. Callers must hold the mutex.
func (s *PeerSession) remoteApplied() {
	s.hasRemote = true
	for _, candidate := range s.pending {
		if err := s.conn.AddICECandidate(candidate); err != nil {
			s.log.Error().Err(err).Msg("queued candidate failed")
		}
	}
	s.pending = nil
}

// Close releases the engine and makes any in-flight callback a no-op.
// Safe to call from a callback, idempotent.
func (s *PeerSession) Close() {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.state = Closed
	s.pending = nil
	conn := s.conn
	s.mu.Unlock()

	if err := conn.Close(); err != nil {
		s.log.Error().Err(err).Msg("close fail")
	}
	s.log.Debug().Msg("closed")
}
