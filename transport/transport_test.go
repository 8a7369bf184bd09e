package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "transport Suite")
}

type recorder struct {
	data          chan []byte
	disconnected  chan error
	keepAliveHits chan struct{}
}

func newRecorder() *recorder {
	return &recorder{
		data:          make(chan []byte, 16),
		disconnected:  make(chan error, 1),
		keepAliveHits: make(chan struct{}, 16),
	}
}

func (r *recorder) OnData(b []byte)       { r.data <- append([]byte(nil), b...) }
func (r *recorder) OnKeepAliveTimeout()    { r.keepAliveHits <- struct{}{} }
func (r *recorder) OnDisconnected(e error) { r.disconnected <- e }

var _ = Describe("Conn", func() {
	var a, b net.Conn

	BeforeEach(func() {
		a, b = net.Pipe()
	})

	It("delivers written bytes to the peer's OnData", func() {
		ca := transport.Adopt(a, transport.DefaultConfig())
		cb := transport.Adopt(b, transport.DefaultConfig())
		ra, rb := newRecorder(), newRecorder()
		ca.Start(ra)
		cb.Start(rb)

		Expect(ca.Send([]byte("hello"))).To(Succeed())

		var got []byte
		Eventually(rb.data).Should(Receive(&got))
		Expect(got).To(Equal([]byte("hello")))

		ca.Close()
		cb.Close()
	})

	It("fires OnDisconnected on a local Close", func() {
		ca := transport.Adopt(a, transport.DefaultConfig())
		cb := transport.Adopt(b, transport.DefaultConfig())
		ra, rb := newRecorder(), newRecorder()
		ca.Start(ra)
		cb.Start(rb)

		Expect(ca.Close()).To(Succeed())

		var errB error
		Eventually(rb.disconnected).Should(Receive(&errB))
	})

	It("fires OnKeepAliveTimeout after the configured idle period", func() {
		cfg := transport.DefaultConfig()
		cfg.KeepAlivePeriod = 20 * time.Millisecond

		ca := transport.Adopt(a, cfg)
		cb := transport.Adopt(b, transport.DefaultConfig())
		ra, rb := newRecorder(), newRecorder()
		ca.Start(ra)
		cb.Start(rb)

		Eventually(ra.keepAliveHits, "200ms").Should(Receive())

		ca.Close()
		cb.Close()
	})

	It("rejects a Send that would exceed the send queue budget", func() {
		cfg := transport.DefaultConfig()
		cfg.SendQueueBytes = 4

		ca := transport.Adopt(a, cfg)
		ra := newRecorder()
		ca.Start(ra)

		err := ca.Send([]byte("too long"))
		Expect(err).To(HaveOccurred())

		ca.Close()
		b.Close()
	})
})
