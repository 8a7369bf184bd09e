package supervisor

import (
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/session"
)

// EndpointCallback receives a SinglePeer's event stream, annotated with
// the id of the session that produced it (spec.md §4.5's lane
// supervisor holds at most one session at a time, but the caller still
// needs the id to correlate traces/signals, per spec.md §3: "Zero is
// reserved to mean 'no session'").
type EndpointCallback interface {
	OnAccepted(sessionID uint32, info session.ConnectionInfo)
	OnState(sessionID uint32, state message.State)
	OnMessage(sessionID uint32, msg message.Message)
	OnDisconnected(sessionID uint32, notification *message.NotificationData, cause error)
	OnTrace(sessionID uint32, kind logger.TraceType, text string)
}

// MultiEndpointCallback is EndpointCallback's counterpart for the
// multi-peer supervisor (vertical/configuration services), whose
// sessions run the vertical state machine.
type MultiEndpointCallback interface {
	OnAccepted(sessionID uint32, info session.ConnectionInfo)
	OnState(sessionID uint32, state message.VerticalState)
	OnMessage(sessionID uint32, msg message.Message)
	OnDisconnected(sessionID uint32, notification *message.NotificationData, cause error)
	OnTrace(sessionID uint32, kind logger.TraceType, text string)
}

// laneProgress tracks, for one SinglePeer session, whether the peer has
// been observed past its own ServiceDescription handshake — the fact
// spec.md §4.5 uses to pick between the 1.0s fast reconnect and the
// configured reconnectWaitTimeSec.
type laneProgressState uint8

const (
	stillHandshaking laneProgressState = iota
	pastServiceDescription
)

func progressFromState(s message.State) laneProgressState {
	switch s {
	case message.NotConnected, message.SocketConnected,
		message.ServiceDescriptionDownstream, message.ServiceDescriptionUpstream:
		return stillHandshaking
	default:
		return pastServiceDescription
	}
}

// sessionCallback adapts session.Callback onto an EndpointCallback plus a
// local "peer got past the handshake" flag and a one-shot done signal the
// SinglePeer's control loop waits on before scheduling the next attempt.
type sessionCallback struct {
	id       uint32
	up       EndpointCallback
	progress *laneProgressState
	done     chan disconnectEvent
}

type disconnectEvent struct {
	notification *message.NotificationData
	cause        error
}

func (c *sessionCallback) OnSocketConnected(info session.ConnectionInfo) {
	c.up.OnAccepted(c.id, info)
}

func (c *sessionCallback) OnState(state message.State) {
	if progressFromState(state) == pastServiceDescription {
		*c.progress = pastServiceDescription
	}
	c.up.OnState(c.id, state)
}

func (c *sessionCallback) On(msg message.Message) {
	c.up.OnMessage(c.id, msg)
}

func (c *sessionCallback) OnDisconnected(notification *message.NotificationData, cause error) {
	c.up.OnDisconnected(c.id, notification, cause)
	c.done <- disconnectEvent{notification: notification, cause: cause}
}

func (c *sessionCallback) OnTrace(kind logger.TraceType, text string) {
	c.up.OnTrace(c.id, kind, text)
}

// multiSessionCallback is sessionCallback's counterpart for a
// VerticalSession owned by a MultiPeer; it has no fast-reconnect flag
// since the multi-peer supervisor never reconnects on a peer's behalf
// (spec.md §4.5: stations reconnect to the service, not the reverse).
type multiSessionCallback struct {
	id   uint32
	up   MultiEndpointCallback
	done chan disconnectEvent
}

func (c *multiSessionCallback) OnSocketConnected(info session.ConnectionInfo) {
	c.up.OnAccepted(c.id, info)
}

func (c *multiSessionCallback) OnState(state message.VerticalState) {
	c.up.OnState(c.id, state)
}

func (c *multiSessionCallback) On(msg message.Message) {
	c.up.OnMessage(c.id, msg)
}

func (c *multiSessionCallback) OnDisconnected(notification *message.NotificationData, cause error) {
	c.up.OnDisconnected(c.id, notification, cause)
	c.done <- disconnectEvent{notification: notification, cause: cause}
}

func (c *multiSessionCallback) OnTrace(kind logger.TraceType, text string) {
	c.up.OnTrace(c.id, kind, text)
}
