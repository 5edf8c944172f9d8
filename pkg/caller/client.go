package caller

import (
	"net/url"

	"github.com/goccy/go-json"
	"github.com/visavis-rtc/visavis/pkg/api"
	"github.com/visavis-rtc/visavis/pkg/logger"
	"github.com/visavis-rtc/visavis/pkg/network/websocket"
)

// Client is the caller's side of the signaling socket.
type Client struct {
	conn *websocket.WS
	log  *logger.Logger
}

func Connect(address url.URL, log *logger.Logger) (*Client, error) {
	conn, err := websocket.NewClient(address, log)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, log: log}, nil
}

// OnPacket sets the callback for inbound signaling packets.
// Packets that don't parse into a known event are dropped at the boundary.
func (c *Client) OnPacket(fn func(in api.In)) {
	c.conn.SetMessageHandler(func(message []byte, err error) {
		if err != nil {
			return
		}
		var in api.In
		if err := json.Unmarshal(message, &in); err != nil {
			c.log.Warn().Err(err).Msg("malformed packet")
			return
		}
		if !in.T.Valid() {
			c.log.Warn().Msgf("unknown event [%v]", in.T)
			return
		}
		fn(in)
	})
}

// Listen starts the socket pumps, the returned channel closes on
// disconnect.
func (c *Client) Listen() chan struct{} { return c.conn.Listen() }

func (c *Client) Send(out api.Out) error {
	data, err := out.Encode()
	if err != nil {
		return err
	}
	c.conn.Write(data)
	return nil
}

func (c *Client) Close() { c.conn.Close() }
