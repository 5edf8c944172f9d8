package signaler

import (
	"net/http"

	"github.com/visavis-rtc/visavis/pkg/api"
	"github.com/visavis-rtc/visavis/pkg/com"
	"github.com/visavis-rtc/visavis/pkg/logger"
	"github.com/visavis-rtc/visavis/pkg/network/websocket"
)

// Hub keeps the live relay sessions and routes messages between them
// through the shared room directory.
type Hub struct {
	directory *Directory
	sessions  com.Map[string, *Session]
	wu        *websocket.Upgrader
	metrics   *Metrics
	log       *logger.Logger
}

func NewHub(directory *Directory, metrics *Metrics, origin string, log *logger.Logger) *Hub {
	wu := &websocket.DefaultUpgrader
	if origin != "" {
		wu = websocket.NewUpgrader(origin)
	}
	return &Hub{
		directory: directory,
		sessions:  com.NewMap[string, *Session](),
		wu:        wu,
		metrics:   metrics,
		log:       log,
	}
}

// handleConnection upgrades an HTTP request into a relay session and
// blocks until the connection goes away, then runs the cleanup.
func (h *Hub) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wu.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("the socket upgrade failed")
		return
	}
	ws, err := websocket.NewServerWithConn(conn, h.log)
	if err != nil {
		h.log.Error().Err(err).Msg("couldn't init the socket")
		return
	}

	session := NewSession(com.NewUid(), ws, h, h.log)
	h.sessions.Put(session.Id(), session)
	h.metrics.Connected()
	session.log.Debug().Msg("Connect")

	ws.SetMessageHandler(session.handleMessage)
	done := ws.Listen()
	<-done

	h.sessions.RemoveByKey(session.Id())
	session.Disconnect()
	h.metrics.Disconnected()
	session.log.Debug().Msg("Disconnect")
}

// sendTo relays a packet to the participant's connection,
// false when the target is not connected.
func (h *Hub) sendTo(participantId string, out api.Out) bool {
	session, err := h.sessions.Find(participantId)
	if err != nil {
		return false
	}
	return session.send(out)
}
