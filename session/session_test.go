package session_test

import (
	"net"
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "session Suite")
}

type recordingCallback struct {
	connected     chan session.ConnectionInfo
	states        chan message.State
	messages      chan message.Message
	disconnected  chan error
}

func newRecordingCallback() *recordingCallback {
	return &recordingCallback{
		connected:    make(chan session.ConnectionInfo, 1),
		states:       make(chan message.State, 32),
		messages:     make(chan message.Message, 32),
		disconnected: make(chan error, 1),
	}
}

func (c *recordingCallback) OnSocketConnected(info session.ConnectionInfo) { c.connected <- info }
func (c *recordingCallback) OnState(s message.State)                      { c.states <- s }
func (c *recordingCallback) On(msg message.Message)                        { c.messages <- msg }
func (c *recordingCallback) OnDisconnected(_ *message.NotificationData, err error) {
	c.disconnected <- err
}
func (c *recordingCallback) OnTrace(_ logger.TraceType, _ string) {}

var _ = Describe("Session handshake", func() {
	It("exchanges ServiceDescription and reaches AVAILABLE_AND_READY both ways", func() {
		a, b := net.Pipe()
		connDown := transport.Adopt(a, transport.DefaultConfig())
		connUp := transport.Adopt(b, transport.DefaultConfig())

		down := session.New(1, session.RoleDownstream, session.Settings{}, connDown, session.ConnectionInfo{}, nil)
		up := session.New(2, session.RoleUpstream, session.Settings{}, connUp, session.ConnectionInfo{}, nil)

		cbDown, cbUp := newRecordingCallback(), newRecordingCallback()
		down.Start(cbDown)
		up.Start(cbUp)

		Eventually(cbDown.connected).Should(Receive())
		Eventually(cbUp.connected).Should(Receive())

		Eventually(down.State, "1s").Should(Equal(message.NotAvailableNotReady))
		Eventually(up.State, "1s").Should(Equal(message.NotAvailableNotReady))

		Expect(down.Signal(message.BoardAvailableData{BoardId: "B1"})).To(Succeed())
		Eventually(up.State, "1s").Should(Equal(message.BoardAvailableState))

		Expect(up.Signal(message.MachineReadyData{BoardId: "B1"})).To(Succeed())
		Eventually(up.State, "1s").Should(Equal(message.AvailableAndReady))
		Eventually(down.State, "1s").Should(Equal(message.AvailableAndReady))

		down.Disconnect(nil)
		up.Disconnect(nil)
	})

	It("refuses to originate a message outside the role's ownership", func() {
		a, b := net.Pipe()
		connDown := transport.Adopt(a, transport.DefaultConfig())
		connUp := transport.Adopt(b, transport.DefaultConfig())

		down := session.New(1, session.RoleDownstream, session.Settings{}, connDown, session.ConnectionInfo{}, nil)
		up := session.New(2, session.RoleUpstream, session.Settings{}, connUp, session.ConnectionInfo{}, nil)
		down.Start(newRecordingCallback())
		up.Start(newRecordingCallback())

		err := down.Signal(message.MachineReadyData{BoardId: "B1"})
		Expect(err).To(HaveOccurred())

		down.Disconnect(nil)
		up.Disconnect(nil)
	})

	It("closes the session with a PROTOCOL_ERROR notification on an illegal incoming message", func() {
		a, b := net.Pipe()
		connDown := transport.Adopt(a, transport.DefaultConfig())
		connUp := transport.Adopt(b, transport.DefaultConfig())

		down := session.New(1, session.RoleDownstream, session.Settings{}, connDown, session.ConnectionInfo{}, nil)
		up := session.New(2, session.RoleUpstream, session.Settings{}, connUp, session.ConnectionInfo{}, nil)

		cbDown := newRecordingCallback()
		down.Start(cbDown)
		up.Start(newRecordingCallback())

		// StartTransport is illegal before AVAILABLE_AND_READY.
		Expect(up.Signal(message.StartTransportData{BoardId: "B1"})).To(Succeed())

		var cause error
		Eventually(cbDown.disconnected, "1s").Should(Receive(&cause))
		Expect(cause).To(HaveOccurred())
	})

	It("auto-pongs a CheckAlive Ping when configured for AUTO response", func() {
		a, b := net.Pipe()
		connA := transport.Adopt(a, transport.DefaultConfig())
		connB := transport.Adopt(b, transport.DefaultConfig())

		sa := session.New(1, session.RoleDownstream, session.Settings{CheckAliveResponseMode: message.CheckAliveAuto}, connA, session.ConnectionInfo{}, nil)
		sb := session.New(2, session.RoleUpstream, session.Settings{}, connB, session.ConnectionInfo{}, nil)

		cbA, cbB := newRecordingCallback(), newRecordingCallback()
		sa.Start(cbA)
		sb.Start(cbB)

		ping := message.CheckAlivePing
		Expect(sb.Signal(message.CheckAliveData{Type: &ping, Id: "1"})).To(Succeed())

		// B's callback first sees A's ServiceDescription; skip ahead to
		// the CheckAlive reply.
		var got message.Message
		Eventually(func() message.Kind {
			select {
			case m := <-cbB.messages:
				got = m
				return m.Kind()
			default:
				return message.KindUnknown
			}
		}, "1s").Should(Equal(message.KindCheckAlive))
		pong, ok := got.(message.CheckAliveData)
		Expect(ok).To(BeTrue())
		Expect(*pong.Type).To(Equal(message.CheckAlivePong))

		sa.Disconnect(nil)
		sb.Disconnect(nil)
	})

	It("times out keep-alive and pings the peer", func() {
		a, b := net.Pipe()
		cfg := transport.DefaultConfig()
		cfg.KeepAlivePeriod = 30 * time.Millisecond
		connA := transport.Adopt(a, cfg)
		connB := transport.Adopt(b, transport.DefaultConfig())

		sa := session.New(1, session.RoleDownstream, session.Settings{}, connA, session.ConnectionInfo{}, nil)
		sb := session.New(2, session.RoleUpstream, session.Settings{}, connB, session.ConnectionInfo{}, nil)
		cbB := newRecordingCallback()
		sa.Start(newRecordingCallback())
		sb.Start(cbB)

		Eventually(func() message.Kind {
			select {
			case m := <-cbB.messages:
				return m.Kind()
			default:
				return message.KindUnknown
			}
		}, "2s").Should(Equal(message.KindCheckAlive))

		sa.Disconnect(nil)
		sb.Disconnect(nil)
	})
})
