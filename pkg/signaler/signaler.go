package signaler

import (
	"context"
	"net/http"

	"github.com/visavis-rtc/visavis/pkg/config"
	"github.com/visavis-rtc/visavis/pkg/logger"
	"github.com/visavis-rtc/visavis/pkg/monitoring"
	"github.com/visavis-rtc/visavis/pkg/network/httpx"
	"github.com/visavis-rtc/visavis/pkg/service"
)

// Signaler is the relay server application: the websocket hub,
// the room HTTP API and the optional monitoring side server.
type Signaler struct {
	conf     config.SignalerConfig
	hub      *Hub
	log      *logger.Logger
	services service.Group
}

func New(conf config.SignalerConfig, log *logger.Logger) *Signaler {
	directory := NewDirectory()
	var metrics *Metrics
	if conf.Signaler.Monitoring.MetricEnabled {
		metrics = NewMetrics()
	}
	hub := NewHub(directory, metrics, conf.Signaler.Origin, log)
	rooms := NewRoomApi(directory, log)

	s := &Signaler{conf: conf, hub: hub, log: log}

	server, err := httpx.NewServer(
		conf.Signaler.Server.GetAddr(),
		func(*httpx.Server) httpx.Handler {
			h := httpx.NewServeMux("")
			h.HandleFunc("/", banner)
			h.HandleFunc("/ws", hub.handleConnection)
			h.Handle("/api/rooms/", rooms.Handler("/api/rooms"))
			return h
		},
		httpx.WithServerConfig(conf.Signaler.Server),
		httpx.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't start the server")
	}
	s.services.Add(server)
	if conf.Signaler.Monitoring.IsEnabled() {
		s.services.Add(monitoring.New(conf.Signaler.Monitoring, "sig", log))
	}
	return s
}

func (s *Signaler) Start() { s.services.Start() }

func (s *Signaler) Shutdown(ctx context.Context) error { return s.services.Shutdown(ctx) }

func banner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte("visavis signaling server is running"))
}
