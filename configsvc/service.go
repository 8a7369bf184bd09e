package configsvc

import (
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/metrics"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/supervisor"
)

// Service is the configuration-service endpoint of spec.md §4.6: a
// supervisor.MultiPeer whose vertical sessions are driven entirely by
// GetConfiguration/SetConfiguration requests answered from a
// ConfigStore. It reuses the vertical state machine (spec.md §4.5)
// rather than inventing a third one, since a configuration session's
// handshake and keep-alive behaviour match a vertical session exactly.
type Service struct {
	mp    *supervisor.MultiPeer
	store ConfigStore
	log   logger.Logger
}

// NewService returns a disabled Service. Call Enable to start listening.
func NewService(store ConfigStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.Noop()
	}
	s := &Service{store: store, log: log}
	s.mp = supervisor.NewMultiPeer(s, log)
	return s
}

// SetMetrics attaches m as the destination for this service's connection
// counters; pass nil (or never call this) to keep metrics disabled.
func (s *Service) SetMetrics(m *metrics.Metrics) { s.mp.SetMetrics(m) }

// Enable starts (or reconfigures) the listening socket.
func (s *Service) Enable(settings supervisor.MultiPeerSettings) { s.mp.Enable(settings) }

// Disable tears down every live session, sending notification first if
// non-nil, and stops listening.
func (s *Service) Disable(notification *message.NotificationData) { s.mp.Disable(notification) }

// Stop is Disable with no farewell notification.
func (s *Service) Stop() { s.mp.Stop() }

// SessionIDs returns the ids of every currently connected station.
func (s *Service) SessionIDs() []uint32 { return s.mp.SessionIDs() }

// OnAccepted satisfies supervisor.MultiEndpointCallback; the service has
// nothing to do until a request arrives.
func (s *Service) OnAccepted(uint32, session.ConnectionInfo) {}

// OnState satisfies supervisor.MultiEndpointCallback.
func (s *Service) OnState(uint32, message.VerticalState) {}

// OnDisconnected satisfies supervisor.MultiEndpointCallback.
func (s *Service) OnDisconnected(uint32, *message.NotificationData, error) {}

// OnTrace satisfies supervisor.MultiEndpointCallback.
func (s *Service) OnTrace(sessionID uint32, kind logger.TraceType, text string) {
	s.log.Trace(sessionID, kind, text, nil)
}

// OnMessage answers GetConfiguration and SetConfiguration requests,
// per spec.md §4.6's request/response pair: GetConfiguration answers
// with CurrentConfiguration, or with only a CONFIGURATION_ERROR
// notification when the store's Get fails; SetConfiguration answers with
// a CONFIGURATION_ERROR notification before the CurrentConfiguration
// reply when the store rejects the request, so the station learns both
// that its request was rejected and what configuration is actually in
// effect.
func (s *Service) OnMessage(sessionID uint32, msg message.Message) {
	switch m := msg.(type) {
	case message.GetConfigurationData:
		cur, err := s.store.Get(sessionID)
		if err != nil {
			s.sendError(sessionID, err)
			return
		}
		s.reply(sessionID, cur)
	case message.SetConfigurationData:
		cur, err := s.store.Set(sessionID, m)
		if err != nil {
			s.sendError(sessionID, err)
		}
		s.reply(sessionID, cur)
	}
}

func (s *Service) sendError(sessionID uint32, err error) {
	s.reply(sessionID, message.NotificationData{
		Code:        message.CodeConfigurationError,
		Severity:    message.SeverityError,
		Description: err.Error(),
	})
}

func (s *Service) reply(sessionID uint32, msg message.Message) {
	if err := s.mp.Signal(sessionID, msg); err != nil {
		s.log.Trace(sessionID, logger.Warning, "configsvc reply: "+err.Error(), nil)
	}
}
