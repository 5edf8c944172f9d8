package signaler

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/visavis-rtc/visavis/pkg/api"
	"github.com/visavis-rtc/visavis/pkg/com"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

// transport is the outbound side of one participant connection.
type transport interface {
	Write(data []byte)
}

// Session binds one websocket connection to one participant identity and
// interprets its inbound signaling messages.
//
// Events of a session are processed sequentially by the connection's read
// pump, so there are no intra-session races; the shared directory carries
// its own lock. A closed session ignores every further event.
type Session struct {
	id   com.Uid
	hub  *Hub
	conn transport
	log  *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewSession(id com.Uid, conn transport, hub *Hub, log *logger.Logger) *Session {
	return &Session{
		id:   id,
		hub:  hub,
		conn: conn,
		log:  log.Wrap(log.With().Str("cid", id.Short())),
	}
}

func (s *Session) Id() string { return s.id.String() }

func (s *Session) handleMessage(message []byte, err error) {
	if err != nil {
		return
	}
	var in api.In
	if err := json.Unmarshal(message, &in); err != nil {
		s.log.Warn().Err(err).Msg("malformed packet")
		return
	}
	if !in.T.Valid() {
		s.log.Warn().Msgf("unknown event [%v]", in.T)
		return
	}
	if s.isClosed() {
		return
	}

	switch in.T {
	case api.JoinRoom:
		s.handleJoinRoom(in.Payload)
	case api.Offer, api.Answer, api.IceCandidate:
		s.handleRelay(in.T, in.Payload)
	default:
		s.log.Warn().Msgf("not a client event [%v]", in.T)
	}
}

// handleJoinRoom puts the participant into the room, announces it to the
// other members and reports the current member list back.
func (s *Session) handleJoinRoom(payload json.RawMessage) {
	var roomId string
	if err := json.Unmarshal(payload, &roomId); err != nil || roomId == "" {
		s.send(api.Out{T: api.Error, Payload: api.ErrorData{Message: "a room id is required to join"}})
		return
	}

	if s.hub.directory.AddParticipant(roomId, s.Id()) {
		s.hub.metrics.RoomAdded()
	}

	others := exclude(s.hub.directory.ParticipantsOf(roomId), s.Id())
	for _, member := range others {
		s.hub.sendTo(member, api.Out{T: api.UserJoined, Payload: s.Id()})
	}
	s.send(api.Out{T: api.RoomInfo, Payload: api.RoomInfoData{RoomId: roomId, Participants: others}})
	s.log.Debug().Msgf("joined room [%v] with %v others", roomId, len(others))
}

// handleRelay forwards a negotiation message to its target verbatim.
// Messages to disconnected targets are dropped without feedback, the
// protocol has no acknowledgement layer.
func (s *Session) handleRelay(event api.Event, payload json.RawMessage) {
	signal := api.Unwrap[api.Signal](payload)
	if signal == nil || signal.To == "" {
		s.log.Warn().Msgf("undeliverable [%v] signal", event)
		return
	}
	if s.hub.sendTo(signal.To, api.Out{T: event, Payload: signal.Forward(s.Id())}) {
		s.hub.metrics.Relayed(event)
	} else {
		s.hub.metrics.Dropped()
		s.log.Debug().Msgf("dropped [%v] for a gone target", event)
	}
}

// Disconnect removes the participant from every room it was in, lets the
// remaining members know and deletes the rooms it emptied.
// Runs at most once, late events after it are ignored.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, roomId := range s.hub.directory.RoomsOf(s.Id()) {
		s.hub.directory.RemoveParticipant(roomId, s.Id())
		remaining := s.hub.directory.ParticipantsOf(roomId)
		for _, member := range remaining {
			s.hub.sendTo(member, api.Out{T: api.UserLeft, Payload: s.Id()})
		}
		if len(remaining) == 0 {
			s.hub.directory.RemoveRoom(roomId)
			s.hub.metrics.RoomRemoved()
		}
	}
}

func (s *Session) send(out api.Out) bool {
	data, err := out.Encode()
	if err != nil {
		s.log.Error().Err(err).Msgf("couldn't encode [%v]", out.T)
		return false
	}
	s.conn.Write(data)
	return true
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func exclude(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
