package caller

import (
	"context"
	"errors"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v3"
	"github.com/visavis-rtc/visavis/pkg/api"
	"github.com/visavis-rtc/visavis/pkg/com"
	"github.com/visavis-rtc/visavis/pkg/config"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

// Caller is the headless call application: it joins a room on the
// signaling server and negotiates a media session with every peer the
// relay introduces. An existing room member initiates the offer towards
// a newcomer; the newcomer answers.
type Caller struct {
	conf    config.CallerConfig
	client  *Client
	factory *ApiFactory
	media   *Media
	peers   com.Map[string, *PeerSession]
	log     *logger.Logger
}

func New(conf config.CallerConfig, log *logger.Logger) (*Caller, error) {
	if !conf.Webrtc.HasValidIceServers() {
		return nil, errors.New("TURN servers require both username and credential")
	}
	factory, err := NewApiFactory(conf.Webrtc, log)
	if err != nil {
		return nil, err
	}
	media, err := NewMedia()
	if err != nil {
		return nil, err
	}
	return &Caller{
		conf:    conf,
		factory: factory,
		media:   media,
		peers:   com.NewMap[string, *PeerSession](),
		log:     log,
	}, nil
}

// Run connects to the signaler, joins the room and keeps negotiating
// until the context ends or the socket goes away.
func (c *Caller) Run(ctx context.Context) error {
	address, err := url.Parse(c.conf.Caller.Signaler)
	if err != nil {
		return err
	}
	client, err := Connect(*address, c.log)
	if err != nil {
		return err
	}
	c.client = client
	client.OnPacket(c.handlePacket)
	done := client.Listen()

	pumpCtx, stopPump := context.WithCancel(ctx)
	defer stopPump()
	c.media.Pump(pumpCtx)

	room := c.conf.Caller.Room
	if room == "" {
		room = com.NewUid().String()
		c.log.Info().Msgf("no room was given, made up [%v]", room)
	}
	if err := client.Send(api.NewJoinRoom(room)); err != nil {
		return err
	}
	c.log.Info().Msgf("joining room [%v]", room)

	select {
	case <-ctx.Done():
		client.Close()
		<-done
	case <-done:
	}
	c.hangup()
	return nil
}

func (c *Caller) handlePacket(in api.In) {
	switch in.T {
	case api.RoomInfo:
		if info := api.Unwrap[api.RoomInfoData](in.Payload); info != nil {
			c.log.Info().Msgf("room [%v] has %v other participant(s)", info.RoomId, len(info.Participants))
		}
	case api.UserJoined:
		var id string
		if err := json.Unmarshal(in.Payload, &id); err == nil && id != "" {
			c.call(id)
		}
	case api.Offer:
		if signal := api.Unwrap[api.Signal](in.Payload); signal != nil {
			c.answer(signal.From, signal.Offer)
		}
	case api.Answer:
		if signal := api.Unwrap[api.Signal](in.Payload); signal != nil {
			c.complete(signal.From, signal.Answer)
		}
	case api.IceCandidate:
		if signal := api.Unwrap[api.Signal](in.Payload); signal != nil {
			c.remoteCandidate(signal.From, signal.Candidate)
		}
	case api.UserLeft:
		var id string
		if err := json.Unmarshal(in.Payload, &id); err == nil {
			c.drop(id)
		}
	case api.Error:
		if e := api.Unwrap[api.ErrorData](in.Payload); e != nil {
			c.log.Error().Msgf("signaler: %v", e.Message)
		}
	}
}

// call starts the negotiation towards a freshly joined peer.
func (c *Caller) call(remoteId string) {
	session, err := c.session(remoteId)
	if err != nil {
		c.log.Error().Err(err).Msg("couldn't open a session")
		return
	}
	offer, err := session.CreateOffer()
	if err != nil {
		c.log.Error().Err(err).Msg("call failed")
		c.drop(remoteId)
		return
	}
	c.signal(api.Offer, remoteId, offer)
}

// answer responds to an inbound offer of a peer not called before.
func (c *Caller) answer(remoteId string, offer json.RawMessage) {
	sdp, err := decodeSDP(offer)
	if err != nil {
		c.log.Error().Err(err).Msg("bad offer")
		return
	}
	session, err := c.session(remoteId)
	if err != nil {
		c.log.Error().Err(err).Msg("couldn't open a session")
		return
	}
	answer, err := session.AcceptOffer(sdp)
	if err != nil {
		c.log.Error().Err(err).Msg("answer failed")
		c.drop(remoteId)
		return
	}
	c.signal(api.Answer, remoteId, answer)
}

func (c *Caller) complete(remoteId string, answer json.RawMessage) {
	session, err := c.peers.Find(remoteId)
	if err != nil {
		return
	}
	sdp, err := decodeSDP(answer)
	if err != nil {
		c.log.Error().Err(err).Msg("bad answer")
		return
	}
	if err := session.AcceptAnswer(sdp); err != nil {
		c.log.Error().Err(err).Msg("pairing failed")
	}
}

func (c *Caller) remoteCandidate(remoteId string, data json.RawMessage) {
	session, err := c.peers.Find(remoteId)
	if err != nil {
		return
	}
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal(data, &candidate); err != nil {
		c.log.Error().Err(err).Msg("bad candidate")
		return
	}
	if err := session.AddRemoteCandidate(candidate); err != nil {
		c.log.Error().Err(err).Msg("candidate failed")
	}
}

// session returns the peer's negotiation session, making a fresh one
// with the local stream attached when the peer wasn't seen before.
func (c *Caller) session(remoteId string) (*PeerSession, error) {
	if session, err := c.peers.Find(remoteId); err == nil {
		return session, nil
	}
	session, err := NewPeerSession(remoteId, c.factory, c.log,
		func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) { go drain(track) },
		func(candidate webrtc.ICECandidateInit) { c.signal(api.IceCandidate, remoteId, candidate) },
	)
	if err != nil {
		return nil, err
	}
	if err := session.AttachLocalStream(c.media.Tracks()...); err != nil {
		session.Close()
		return nil, err
	}
	c.peers.Put(remoteId, session)
	return session, nil
}

func (c *Caller) drop(remoteId string) {
	if session, err := c.peers.Find(remoteId); err == nil {
		session.Close()
	}
	c.peers.RemoveByKey(remoteId)
}

func (c *Caller) hangup() {
	c.peers.ForEach(func(session *PeerSession) { session.Close() })
}

// signal encodes a negotiation payload and relays it to the target peer.
func (c *Caller) signal(event api.Event, to string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Error().Err(err).Msgf("couldn't encode [%v]", event)
		return
	}
	var out api.Out
	switch event {
	case api.Offer:
		out = api.NewOffer(to, data)
	case api.Answer:
		out = api.NewAnswer(to, data)
	case api.IceCandidate:
		out = api.NewIceCandidate(to, data)
	default:
		return
	}
	if err := c.client.Send(out); err != nil {
		c.log.Error().Err(err).Msgf("couldn't send [%v]", event)
	}
}

func decodeSDP(data json.RawMessage) (sdp webrtc.SessionDescription, err error) {
	err = json.Unmarshal(data, &sdp)
	return
}

// drain consumes inbound RTP of a remote track; a headless caller has
// no renderer for it.
func drain(track *webrtc.TrackRemote) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := track.Read(buf); err != nil {
			return
		}
	}
}
