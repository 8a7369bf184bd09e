package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/codec"
	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/statemachine"
	"github.com/EuroplacerUk/hermes-sdk/transport"
)

// verticalPassthroughKinds mirrors passthroughKinds for the vertical role:
// every supervisory/configuration kind advances VerticalTable's single
// CONNECTED state without a separate gating list, so only Notification
// and Command bypass the table outright (they are legal at any point,
// same as the lane roles).
var verticalPassthroughKinds = map[message.Kind]bool{
	message.KindNotification: true,
	message.KindCommand:      true,
}

// VerticalCallback receives a VerticalSession's event stream, on the
// session's own executor goroutine, in the same temporal order as
// Callback (spec.md §4.4).
type VerticalCallback interface {
	OnSocketConnected(info ConnectionInfo)
	OnState(state message.VerticalState)
	On(msg message.Message)
	OnDisconnected(notification *message.NotificationData, cause error)
	OnTrace(kind logger.TraceType, text string)
}

// VerticalSession owns one L1+L2+L3 triple for a vertical-service,
// vertical-client or configuration-service peer (spec.md §4.3.3).
type VerticalSession struct {
	id     uint32
	table  *statemachine.Table[message.VerticalState]
	conn   *transport.Conn
	reader *codec.Reader
	writer *codec.Writer
	log    logger.Logger
	peer   ConnectionInfo
	cb     VerticalCallback

	mu                  sync.Mutex
	state               message.VerticalState
	peerSupervisoryDesc *message.SupervisoryServiceDescriptionData

	posts               chan func()
	disconnectOnce      sync.Once
	disconnected        bool
	pendingNotification *message.NotificationData
}

// NewVertical builds a VerticalSession around an already-adopted
// transport.Conn. id must already be assigned by the multi-peer
// supervisor (spec.md §3's SessionId rule).
func NewVertical(id uint32, conn *transport.Conn, peer ConnectionInfo, log logger.Logger) *VerticalSession {
	if log == nil {
		log = logger.Noop()
	}
	return &VerticalSession{
		id:     id,
		table:  statemachine.VerticalTable(),
		conn:   conn,
		reader: codec.NewReader(),
		writer: codec.NewWriter(),
		log:    log,
		peer:   peer,
		state:  message.VerticalSocketConnected,
		posts:  make(chan func(), 256),
	}
}

// ID returns this session's stable identity.
func (s *VerticalSession) ID() uint32 { return s.id }

// State returns the current vertical state. Safe for any goroutine.
func (s *VerticalSession) State() message.VerticalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SupportsBoardTracking reports whether the peer's
// SupervisoryServiceDescription, once received, advertised the
// BoardTracking feature — the multi-peer supervisor's broadcast filter
// (spec.md §4.5) consults this before fanning out a BoardArrived/
// BoardDeparted Signal.
func (s *VerticalSession) SupportsBoardTracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerSupervisoryDesc != nil && s.peerSupervisoryDesc.SupportedFeatures.BoardTracking
}

func (s *VerticalSession) setState(next message.VerticalState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.cb.OnState(next)
}

// Start begins the session: delivers OnSocketConnected, then enqueues the
// local SupervisoryServiceDescription before starting the transport's
// read loop, so a peer ServiceDescription arriving on an already-buffered
// socket can never reach handleEnvelope (and default to ProtocolErr, per
// VerticalTable having no entry for VerticalSocketConnected) ahead of the
// local side queuing its own.
func (s *VerticalSession) Start(cb VerticalCallback) {
	s.cb = cb
	go s.run()
	s.post(func() { s.cb.OnSocketConnected(s.peer) })
	s.post(s.sendServiceDescription)
	s.conn.Start(&verticalConnAdapter{s: s})
}

func (s *VerticalSession) run() {
	for work := range s.posts {
		work()
	}
}

func (s *VerticalSession) post(fn func()) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	s.posts <- fn
	return true
}

func (s *VerticalSession) sendServiceDescription() {
	sd := message.SupervisoryServiceDescriptionData{Version: "1.4"}
	if err := s.send(sd); err != nil {
		s.trace(logger.ErrorTrace, "send initial SupervisoryServiceDescription: "+err.Error())
		return
	}
	s.setState(message.VerticalServiceDescription)
}

// Signal enqueues an outgoing typed message, subject to L3 gating.
func (s *VerticalSession) Signal(msg message.Message) error {
	result := make(chan error, 1)
	if !s.post(func() { result <- s.signalOnExecutor(msg) }) {
		return hermeserrors.New(hermeserrors.ImplementationError, "session closed")
	}
	return <-result
}

func (s *VerticalSession) signalOnExecutor(msg message.Message) error {
	if s.disconnected {
		s.trace(logger.Warning, "Signal after OnDisconnected: ignored")
		return hermeserrors.New(hermeserrors.ClientError, "session already disconnected")
	}
	kind := msg.Kind()
	if !verticalPassthroughKinds[kind] && kind != message.KindCheckAlive && !s.table.MayOriginate(kind) {
		s.trace(logger.Warning, fmt.Sprintf("refusing to originate %s from vertical role", kind))
		return hermeserrors.New(hermeserrors.ImplementationError, kind.String()+" is not legal for this role")
	}
	return s.send(msg)
}

func (s *VerticalSession) send(msg message.Message) error {
	raw, err := s.writer.Encode(time.Now(), msg)
	if err != nil {
		return err
	}
	s.trace(logger.Sent, msg.Kind().String())
	return s.conn.Send(raw)
}

// Disconnect sends an optional farewell Notification, then closes the
// session. Idempotent.
func (s *VerticalSession) Disconnect(notification *message.NotificationData) error {
	done := make(chan error, 1)
	if !s.post(func() { done <- s.disconnectOnExecutor(notification) }) {
		return nil
	}
	return <-done
}

func (s *VerticalSession) disconnectOnExecutor(notification *message.NotificationData) error {
	return s.disconnectOnExecutorWithCause(notification, nil)
}

// disconnectOnExecutorWithCause is disconnectOnExecutor plus the
// hermeserrors.Error (if any) that drove this disconnect, threaded down
// to transport.Conn so the eventual OnDisconnected reports a populated
// Error for a protocol/peer violation instead of always nil (spec.md §7).
func (s *VerticalSession) disconnectOnExecutorWithCause(notification *message.NotificationData, cause error) error {
	if s.disconnected {
		return nil
	}
	s.pendingNotification = notification
	if notification == nil {
		return s.conn.Close()
	}
	raw, err := s.writer.Encode(time.Now(), *notification)
	if err != nil {
		return s.conn.Close()
	}
	return s.conn.SendAndClose(raw, cause)
}

func (s *VerticalSession) protocolError(cause error) {
	reason := cause.Error()
	notif := message.NotificationData{Code: message.CodeProtocolError, Severity: message.SeverityError, Description: reason}
	s.trace(logger.ErrorTrace, "PROTOCOL_ERROR: "+reason)
	_ = s.disconnectOnExecutorWithCause(&notif, cause)
}

func (s *VerticalSession) trace(kind logger.TraceType, text string) {
	s.log.Trace(s.id, kind, text, nil)
	if s.cb != nil {
		s.cb.OnTrace(kind, text)
	}
}

type verticalConnAdapter struct{ s *VerticalSession }

func (a *verticalConnAdapter) OnData(data []byte) {
	a.s.post(func() { a.s.handleData(data) })
}

func (a *verticalConnAdapter) OnKeepAliveTimeout() {
	a.s.post(func() { a.s.handleKeepAliveTimeout() })
}

func (a *verticalConnAdapter) OnDisconnected(cause error) {
	a.s.post(func() { a.s.handleDisconnected(cause) })
}

func (s *VerticalSession) handleData(data []byte) {
	if s.disconnected {
		return
	}
	envs, err := s.reader.Feed(data)
	for _, env := range envs {
		s.handleEnvelope(env)
		if s.disconnected {
			return
		}
	}
	if err != nil {
		s.protocolError(err)
	}
}

func (s *VerticalSession) handleEnvelope(env codec.Envelope) {
	if env.Unhandled {
		notif := env.Message.(message.NotificationData)
		s.protocolError(hermeserrors.New(hermeserrors.ProtocolError, notif.Description))
		return
	}

	kind := env.Message.Kind()

	if kind == message.KindCheckAlive {
		s.trace(logger.Received, "CheckAlive")
		s.cb.On(env.Message)
		return
	}
	if verticalPassthroughKinds[kind] {
		s.trace(logger.Received, kind.String())
		s.cb.On(env.Message)
		return
	}

	tr := s.table.Lookup(s.State(), kind)
	switch tr.Action {
	case statemachine.Ignore:
		s.trace(logger.Received, kind.String()+" ignored")
		return
	case statemachine.ProtocolErr:
		s.protocolError(hermeserrors.New(hermeserrors.ProtocolError, fmt.Sprintf("%s illegal in state %s", kind, s.State())))
		return
	}

	if sd, ok := env.Message.(message.SupervisoryServiceDescriptionData); ok {
		s.mu.Lock()
		s.peerSupervisoryDesc = &sd
		s.mu.Unlock()
	}

	s.trace(logger.Received, kind.String())
	if tr.Action == statemachine.Accept {
		s.setState(tr.Next)
	}
	s.cb.On(env.Message)
}

func (s *VerticalSession) handleKeepAliveTimeout() {
	if s.disconnected {
		return
	}
	s.cb.OnTrace(logger.Info, "keep-alive period elapsed with no outbound traffic")
	ping := message.CheckAlivePing
	_ = s.send(message.CheckAliveData{Type: &ping})
}

func (s *VerticalSession) handleDisconnected(cause error) {
	if s.disconnected {
		return
	}
	s.disconnected = true
	s.setStateQuiet(message.VerticalDisconnected)

	if cause != nil {
		s.trace(logger.ErrorTrace, cause.Error())
	}
	s.cb.OnDisconnected(s.pendingNotification, cause)
	close(s.posts)
}

func (s *VerticalSession) setStateQuiet(next message.VerticalState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
