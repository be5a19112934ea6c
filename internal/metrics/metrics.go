package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus collectors. Each relay instance owns
// its registry so independent relays (and tests) never collide.
type Metrics struct {
	reg *prometheus.Registry

	activeParticipants prometheus.Gauge
	joins              *prometheus.CounterVec
	forwarded          *prometheus.CounterVec
	violations         *prometheus.CounterVec
	dropped            prometheus.Counter
}

func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		reg: reg,
		activeParticipants: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signaling_active_participants",
			Help: "Number of participants currently joined to a session",
		}),
		joins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signaling_joins_total",
			Help: "Total accepted session joins",
		}, []string{"role"}),
		forwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signaling_messages_forwarded_total",
			Help: "Total signaling messages forwarded, by type",
		}, []string{"type"}),
		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signaling_protocol_violations_total",
			Help: "Total dropped messages, by violation reason",
		}, []string{"reason"}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_backpressure_drops_total",
			Help: "Total deliveries dropped due to a full send buffer",
		}),
	}
}

func (m *Metrics) JoinAccepted(role string) {
	m.joins.WithLabelValues(role).Inc()
	m.activeParticipants.Inc()
}

func (m *Metrics) ParticipantLeft() { m.activeParticipants.Dec() }

func (m *Metrics) MessageForwarded(msgType string, n int) {
	m.forwarded.WithLabelValues(msgType).Add(float64(n))
}

func (m *Metrics) ProtocolViolation(reason string) {
	m.violations.WithLabelValues(reason).Inc()
}

func (m *Metrics) BackpressureDrop(n int) { m.dropped.Add(float64(n)) }

// Handler exposes the registry for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
