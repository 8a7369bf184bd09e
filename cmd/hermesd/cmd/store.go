package cmd

import (
	"sync"

	"github.com/EuroplacerUk/hermes-sdk/message"
)

// memConfigStore is the default configsvc.ConfigStore: an in-memory,
// per-station settings map. A deployment that needs persistence
// implements configsvc.ConfigStore against its own database instead;
// hermesd ships this one so `hermesd serve` works standalone.
type memConfigStore struct {
	mu       sync.Mutex
	settings map[uint32]map[string]string
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{settings: make(map[uint32]map[string]string)}
}

func (s *memConfigStore) Get(stationID uint32) (message.CurrentConfigurationData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return message.CurrentConfigurationData{Settings: cloneSettings(s.settings[stationID])}, nil
}

func (s *memConfigStore) Set(stationID uint32, req message.SetConfigurationData) (message.CurrentConfigurationData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := cloneSettings(s.settings[stationID])
	if cur == nil {
		cur = make(map[string]string)
	}
	for k, v := range req.Settings {
		cur[k] = v
	}
	s.settings[stationID] = cur
	return message.CurrentConfigurationData{Settings: cloneSettings(cur)}, nil
}

func cloneSettings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
