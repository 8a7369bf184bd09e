package supervisor_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/duration"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/supervisor"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSupervisor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "supervisor Suite")
}

type recordingEndpoint struct {
	accepted     chan uint32
	states       chan message.State
	messages     chan message.Message
	disconnected chan disconnectRecord
}

type disconnectRecord struct {
	id    uint32
	notif *message.NotificationData
	cause error
}

func newRecordingEndpoint() *recordingEndpoint {
	return &recordingEndpoint{
		accepted:     make(chan uint32, 8),
		states:       make(chan message.State, 64),
		messages:     make(chan message.Message, 64),
		disconnected: make(chan disconnectRecord, 8),
	}
}

func (e *recordingEndpoint) OnAccepted(id uint32, _ session.ConnectionInfo) { e.accepted <- id }
func (e *recordingEndpoint) OnState(_ uint32, s message.State)              { e.states <- s }
func (e *recordingEndpoint) OnMessage(_ uint32, m message.Message)          { e.messages <- m }
func (e *recordingEndpoint) OnDisconnected(id uint32, notif *message.NotificationData, cause error) {
	e.disconnected <- disconnectRecord{id: id, notif: notif, cause: cause}
}
func (e *recordingEndpoint) OnTrace(uint32, logger.TraceType, string) {}

func timeoutDeadline() time.Time {
	return time.Now().Add(2 * time.Second)
}

func freePort() int {
	l, err := net.Listen("tcp", ":0")
	Expect(err).NotTo(HaveOccurred())
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

var _ = Describe("SinglePeer", func() {
	It("connects upstream to downstream and reaches AVAILABLE_AND_READY both ways", func() {
		port := freePort()

		downCb := newRecordingEndpoint()
		down := supervisor.NewSinglePeer(downCb, nil)
		down.Enable(supervisor.SinglePeerSettings{
			NetworkConfiguration: supervisor.NetworkConfiguration{Port: port, RetryDelay: duration.Seconds(1)},
			Role:                 session.RoleDownstream,
		})

		upCb := newRecordingEndpoint()
		up := supervisor.NewSinglePeer(upCb, nil)
		up.Enable(supervisor.SinglePeerSettings{
			NetworkConfiguration: supervisor.NetworkConfiguration{HostName: "127.0.0.1", Port: port, RetryDelay: duration.Seconds(1)},
			Role:                 session.RoleUpstream,
		})

		Eventually(downCb.accepted, "2s").Should(Receive())
		Eventually(upCb.accepted, "2s").Should(Receive())
		Eventually(downCb.states, "2s").Should(Receive(Equal(message.NotAvailableNotReady)))
		Eventually(upCb.states, "2s").Should(Receive(Equal(message.NotAvailableNotReady)))

		Expect(down.Signal(message.BoardAvailableData{BoardId: "B1"})).To(Succeed())

		var sawAvailable bool
		Eventually(func() bool {
			select {
			case s := <-upCb.states:
				if s == message.BoardAvailableState {
					sawAvailable = true
				}
			default:
			}
			return sawAvailable
		}, "2s").Should(BeTrue())

		Expect(up.Signal(message.MachineReadyData{BoardId: "B1"})).To(Succeed())

		down.Stop()
		up.Stop()
	})

	It("refuses a second incomer while a session is established (scenario S3)", func() {
		port := strconv.Itoa(freePort())

		downCb := newRecordingEndpoint()
		down := supervisor.NewSinglePeer(downCb, nil)
		p, _ := strconv.Atoi(port)
		down.Enable(supervisor.SinglePeerSettings{
			NetworkConfiguration: supervisor.NetworkConfiguration{Port: p, RetryDelay: duration.Seconds(1)},
			Role:                 session.RoleDownstream,
		})

		first, err := net.Dial("tcp", "127.0.0.1:"+port)
		Expect(err).NotTo(HaveOccurred())
		defer first.Close()
		Eventually(downCb.accepted, "2s").Should(Receive())

		second, err := net.Dial("tcp", "127.0.0.1:"+port)
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()

		buf := make([]byte, 4096)
		second.SetReadDeadline(timeoutDeadline())
		n, _ := second.Read(buf)
		Expect(string(buf[:n])).To(ContainSubstring("CONNECTION_REFUSED_BECAUSE_OF_ESTABLISHED_CONNECTION"))

		down.Stop()
	})
})

var _ = Describe("MultiPeer", func() {
	It("accepts multiple vertical sessions and tracks them by id", func() {
		port := freePort()
		cb := newMultiRecordingEndpoint()
		mp := supervisor.NewMultiPeer(cb, nil)
		mp.Enable(supervisor.MultiPeerSettings{NetworkConfiguration: supervisor.NetworkConfiguration{Port: port}})

		c1, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
		Expect(err).NotTo(HaveOccurred())
		defer c1.Close()
		c2, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
		Expect(err).NotTo(HaveOccurred())
		defer c2.Close()

		Eventually(cb.accepted, "2s").Should(Receive())
		Eventually(cb.accepted, "2s").Should(Receive())
		Eventually(func() int { return len(mp.SessionIDs()) }, "2s").Should(Equal(2))

		mp.Stop()
	})
})

type multiRecordingEndpoint struct {
	accepted chan uint32
}

func newMultiRecordingEndpoint() *multiRecordingEndpoint {
	return &multiRecordingEndpoint{accepted: make(chan uint32, 8)}
}

func (e *multiRecordingEndpoint) OnAccepted(id uint32, _ session.ConnectionInfo) { e.accepted <- id }
func (e *multiRecordingEndpoint) OnState(uint32, message.VerticalState)          {}
func (e *multiRecordingEndpoint) OnMessage(uint32, message.Message)              {}
func (e *multiRecordingEndpoint) OnDisconnected(uint32, *message.NotificationData, error) {}
func (e *multiRecordingEndpoint) OnTrace(uint32, logger.TraceType, string) {}
