package metrics_test

import (
	"testing"

	"github.com/EuroplacerUk/hermes-sdk/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "metrics Suite")
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	Expect(g.Write(&m)).To(Succeed())
	return m.GetGauge().GetValue()
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	Expect(c.Write(&m)).To(Succeed())
	return m.GetCounter().GetValue()
}

var _ = Describe("Metrics", func() {
	It("registers every collector exactly once", func() {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		Expect(m).NotTo(BeNil())

		// A vec exports no family until it has a child, so give each one.
		m.SessionsConnected.WithLabelValues("downstream")
		m.ConnectsTotal.WithLabelValues("downstream")
		m.DisconnectsTotal.WithLabelValues("downstream", "clean")
		m.MessagesSentTotal.WithLabelValues("CheckAlive")
		m.MessagesRecvTotal.WithLabelValues("CheckAlive")
		m.ProtocolErrorsTotal.WithLabelValues("downstream")

		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(families).To(HaveLen(7))
	})

	It("tracks connect/disconnect and connected-state transitions", func() {
		m := metrics.New(prometheus.NewRegistry())

		m.RecordConnect("downstream")
		m.SetConnected("downstream", true)
		Expect(counterValue(m.ConnectsTotal.WithLabelValues("downstream"))).To(Equal(1.0))
		Expect(gaugeValue(m.SessionsConnected.WithLabelValues("downstream"))).To(Equal(1.0))

		m.RecordDisconnect("downstream", "clean")
		m.SetConnected("downstream", false)
		Expect(counterValue(m.DisconnectsTotal.WithLabelValues("downstream", "clean"))).To(Equal(1.0))
		Expect(gaugeValue(m.SessionsConnected.WithLabelValues("downstream"))).To(Equal(0.0))
	})

	It("tracks message throughput by kind", func() {
		m := metrics.New(prometheus.NewRegistry())
		m.RecordSent("CheckAlive")
		m.RecordSent("CheckAlive")
		m.RecordReceived("BoardAvailable")

		Expect(counterValue(m.MessagesSentTotal.WithLabelValues("CheckAlive"))).To(Equal(2.0))
		Expect(counterValue(m.MessagesRecvTotal.WithLabelValues("BoardAvailable"))).To(Equal(1.0))
	})

	It("tracks vertical session count", func() {
		m := metrics.New(prometheus.NewRegistry())
		m.SetVerticalSessions(3)
		Expect(gaugeValue(m.VerticalSessions)).To(Equal(3.0))
	})

	It("is nil-safe so an embedder can opt out of metrics entirely", func() {
		var m *metrics.Metrics
		Expect(func() {
			m.RecordConnect("downstream")
			m.SetConnected("downstream", true)
			m.RecordDisconnect("downstream", "clean")
			m.RecordSent("CheckAlive")
			m.RecordReceived("CheckAlive")
			m.RecordProtocolError("downstream")
			m.SetVerticalSessions(1)
		}).NotTo(Panic())
	})
})
