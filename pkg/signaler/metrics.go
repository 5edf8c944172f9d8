package signaler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/visavis-rtc/visavis/pkg/api"
)

// Metrics holds the relay counters exposed on the monitoring endpoint.
// A nil receiver disables the instrumentation.
type Metrics struct {
	rooms        prometheus.Gauge
	participants prometheus.Gauge
	relayed      *prometheus.CounterVec
	dropped      prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaler_rooms_active",
			Help: "The number of rooms with at least one participant.",
		}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaler_participants_connected",
			Help: "The number of live websocket connections.",
		}),
		relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaler_messages_relayed_total",
			Help: "The number of relayed signaling messages by kind.",
		}, []string{"event"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaler_messages_dropped_total",
			Help: "The number of messages addressed to disconnected targets.",
		}),
	}
	prometheus.MustRegister(m.rooms, m.participants, m.relayed, m.dropped)
	return m
}

func (m *Metrics) RoomAdded() {
	if m != nil {
		m.rooms.Inc()
	}
}

func (m *Metrics) RoomRemoved() {
	if m != nil {
		m.rooms.Dec()
	}
}

func (m *Metrics) Connected() {
	if m != nil {
		m.participants.Inc()
	}
}

func (m *Metrics) Disconnected() {
	if m != nil {
		m.participants.Dec()
	}
}

func (m *Metrics) Relayed(event api.Event) {
	if m != nil {
		m.relayed.WithLabelValues(event.String()).Inc()
	}
}

func (m *Metrics) Dropped() {
	if m != nil {
		m.dropped.Inc()
	}
}
