package session

import (
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
)

// ConnectionInfo is spec.md §3's per-session peer record: the address and
// port the TCP peer connected from or to, plus hostName when a reverse
// DNS lookup (server side) or the configured target (client side)
// resolved one.
type ConnectionInfo struct {
	Address  string
	Port     int
	HostName string
}

// Callback receives a Session's event stream, always on the session's own
// executor goroutine and always in the temporal order OnSocketConnected,
// OnState*, On(message)*, OnTrace* (interleaved), OnDisconnected — with
// OnDisconnected guaranteed to be the last call the Session ever makes,
// per spec.md §4.4's invariant.
type Callback interface {
	OnSocketConnected(info ConnectionInfo)
	OnState(state message.State)
	On(msg message.Message)
	OnDisconnected(notification *message.NotificationData, cause error)
	OnTrace(kind logger.TraceType, text string)
}
