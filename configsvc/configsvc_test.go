package configsvc_test

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/configsvc"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/supervisor"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfigsvc(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "configsvc Suite")
}

// memStore is a ConfigStore backed by an in-memory map, keyed by
// station id, standing in for an embedder's persistence layer.
type memStore struct {
	mu      sync.Mutex
	current map[uint32]map[string]string
	rejectNext bool
}

func newMemStore() *memStore {
	return &memStore{current: make(map[uint32]map[string]string)}
}

func (m *memStore) Get(id uint32) (message.CurrentConfigurationData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings := m.current[id]
	if settings == nil {
		settings = map[string]string{"retryDelaySec": "5"}
	}
	return message.CurrentConfigurationData{Settings: settings}, nil
}

func (m *memStore) Set(id uint32, req message.SetConfigurationData) (message.CurrentConfigurationData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejectNext {
		m.rejectNext = false
		return message.CurrentConfigurationData{Settings: m.current[id]}, errInvalidSetting
	}
	m.current[id] = req.Settings
	return message.CurrentConfigurationData{Settings: req.Settings}, nil
}

var errInvalidSetting = &settingError{"unsupported setting"}

type settingError struct{ msg string }

func (e *settingError) Error() string { return e.msg }

func freePort() int {
	l, err := net.Listen("tcp", ":0")
	Expect(err).NotTo(HaveOccurred())
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

var _ = Describe("Service", func() {
	It("answers Get and Set requests from the configured store", func() {
		port := freePort()
		store := newMemStore()
		svc := configsvc.NewService(store, nil)
		svc.Enable(supervisor.MultiPeerSettings{
			NetworkConfiguration: supervisor.NetworkConfiguration{Port: port},
		})
		defer svc.Stop()

		client := configsvc.NewClient()
		addr := "127.0.0.1:" + strconv.Itoa(port)

		cur, notifications, err := client.Get(context.Background(), addr, 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(notifications).To(BeEmpty())
		Expect(cur.Settings).To(HaveKeyWithValue("retryDelaySec", "5"))

		cur, notifications, err = client.Set(context.Background(), addr, 2*time.Second, map[string]string{
			"retryDelaySec": "10",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(notifications).To(BeEmpty())
		Expect(cur.Settings).To(HaveKeyWithValue("retryDelaySec", "10"))

		cur, _, err = client.Get(context.Background(), addr, 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(cur.Settings).To(HaveKeyWithValue("retryDelaySec", "10"))
	})

	It("reports a store rejection as a CONFIGURATION_ERROR notification ahead of the current configuration", func() {
		port := freePort()
		store := newMemStore()
		store.rejectNext = true
		svc := configsvc.NewService(store, nil)
		svc.Enable(supervisor.MultiPeerSettings{
			NetworkConfiguration: supervisor.NetworkConfiguration{Port: port},
		})
		defer svc.Stop()

		client := configsvc.NewClient()
		addr := "127.0.0.1:" + strconv.Itoa(port)

		cur, notifications, err := client.Set(context.Background(), addr, 2*time.Second, map[string]string{
			"retryDelaySec": "bogus",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(notifications).To(HaveLen(1))
		Expect(notifications[0].Code).To(Equal(message.CodeConfigurationError))
		Expect(cur.Settings).NotTo(HaveKey("retryDelaySec"))
	})

	It("times out a Get against a station that never answers", func() {
		port := freePort()
		l, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
		Expect(err).NotTo(HaveOccurred())
		defer l.Close()
		go func() {
			c, err := l.Accept()
			if err == nil {
				defer c.Close()
				time.Sleep(3 * time.Second)
			}
		}()

		client := configsvc.NewClient()
		_, _, err = client.Get(context.Background(), "127.0.0.1:"+strconv.Itoa(port), 200*time.Millisecond)
		Expect(err).To(HaveOccurred())
	})
})

