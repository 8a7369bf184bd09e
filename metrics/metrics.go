// Package metrics exposes the Hermes engine's operational counters and
// gauges as Prometheus collectors: per-lane connection/reconnect
// activity, per-kind message throughput, and live session counts for
// the vertical/configuration services, per spec.md §7's observability
// surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks Hermes engine metrics with an hermes_ prefix. All
// methods are nil-receiver-safe so an embedder that does not want
// Prometheus wiring can pass a nil *Metrics everywhere without branching.
type Metrics struct {
	SessionsConnected   *prometheus.GaugeVec
	ConnectsTotal       *prometheus.CounterVec
	DisconnectsTotal    *prometheus.CounterVec
	MessagesSentTotal   *prometheus.CounterVec
	MessagesRecvTotal   *prometheus.CounterVec
	ProtocolErrorsTotal *prometheus.CounterVec
	VerticalSessions    prometheus.Gauge
}

// New creates Hermes metrics and registers them against reg (typically
// prometheus.DefaultRegisterer). Panics if registration fails, which is
// expected during initialization only (e.g. a duplicate registration
// across two engines sharing a registry).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsConnected: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hermes_sessions_connected",
				Help: "Whether a lane currently has a live session (1) or not (0), by lane role.",
			},
			[]string{"role"},
		),
		ConnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_connects_total",
				Help: "Total accepted or dialled connections, by lane role.",
			},
			[]string{"role"},
		),
		DisconnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_disconnects_total",
				Help: "Total session disconnects, by lane role and cause.",
			},
			[]string{"role", "cause"},
		),
		MessagesSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_messages_sent_total",
				Help: "Total Hermes messages sent, by message kind.",
			},
			[]string{"kind"},
		),
		MessagesRecvTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_messages_received_total",
				Help: "Total Hermes messages received, by message kind.",
			},
			[]string{"kind"},
		),
		ProtocolErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_protocol_errors_total",
				Help: "Total PROTOCOL_ERROR notifications raised, by lane role.",
			},
			[]string{"role"},
		),
		VerticalSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hermes_vertical_sessions",
				Help: "Current number of connected vertical/configuration stations.",
			},
		),
	}

	reg.MustRegister(
		m.SessionsConnected,
		m.ConnectsTotal,
		m.DisconnectsTotal,
		m.MessagesSentTotal,
		m.MessagesRecvTotal,
		m.ProtocolErrorsTotal,
		m.VerticalSessions,
	)

	return m
}

// Null returns nil, a no-op Metrics: every method below tolerates a nil
// receiver.
func Null() *Metrics {
	return nil
}

// SetConnected records whether role currently has a live session.
func (m *Metrics) SetConnected(role string, connected bool) {
	if m == nil {
		return
	}
	v := 0.0
	if connected {
		v = 1.0
	}
	m.SessionsConnected.WithLabelValues(role).Set(v)
}

// RecordConnect counts one accepted or dialled connection for role.
func (m *Metrics) RecordConnect(role string) {
	if m == nil {
		return
	}
	m.ConnectsTotal.WithLabelValues(role).Inc()
}

// RecordDisconnect counts one session teardown for role, classified by
// cause (the supervisors pass "clean" or an errors.Kind name such as
// "NETWORK_ERROR" or "PROTOCOL_ERROR").
func (m *Metrics) RecordDisconnect(role, cause string) {
	if m == nil {
		return
	}
	m.DisconnectsTotal.WithLabelValues(role, cause).Inc()
}

// RecordSent counts one outbound message of the given kind.
func (m *Metrics) RecordSent(kind string) {
	if m == nil {
		return
	}
	m.MessagesSentTotal.WithLabelValues(kind).Inc()
}

// RecordReceived counts one inbound message of the given kind.
func (m *Metrics) RecordReceived(kind string) {
	if m == nil {
		return
	}
	m.MessagesRecvTotal.WithLabelValues(kind).Inc()
}

// RecordProtocolError counts one PROTOCOL_ERROR raised by role.
func (m *Metrics) RecordProtocolError(role string) {
	if m == nil {
		return
	}
	m.ProtocolErrorsTotal.WithLabelValues(role).Inc()
}

// SetVerticalSessions records the current number of connected stations.
func (m *Metrics) SetVerticalSessions(n int) {
	if m == nil {
		return
	}
	m.VerticalSessions.Set(float64(n))
}
