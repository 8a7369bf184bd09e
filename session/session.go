// Package session implements the Hermes per-peer session (spec.md §4.4,
// "L4"): one goroutine-owned executor wrapping a transport.Conn, a
// codec.Reader/Writer pair, and a role's statemachine.Table, delivering
// a strictly ordered event stream to a single Callback.
package session

import (
	"fmt"
	"sync"
	"time"

	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/codec"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/statemachine"
	"github.com/EuroplacerUk/hermes-sdk/transport"
)

// Role selects which lane table and which entry ServiceDescription state
// a Session uses.
type Role uint8

const (
	RoleDownstream Role = iota
	RoleUpstream
)

func (r Role) String() string {
	if r == RoleUpstream {
		return "upstream"
	}
	return "downstream"
}

func tableFor(role Role) *statemachine.Table[message.State] {
	if role == RoleUpstream {
		return statemachine.UpstreamTable()
	}
	return statemachine.DownstreamTable()
}

func entryStateFor(role Role) message.State {
	if role == RoleUpstream {
		return message.ServiceDescriptionUpstream
	}
	return message.ServiceDescriptionDownstream
}

// passthroughKinds are message kinds legal in any state: they carry no
// state-machine transition of their own and are always forwarded to the
// application, per spec.md §4.3's state tables never listing them as a
// column (Notification and Command apply at any point in a session's
// life; CheckAlive is handled specially, see handleCheckAlive).
var passthroughKinds = map[message.Kind]bool{
	message.KindNotification: true,
	message.KindCommand:      true,
}

// Settings configures a Session's protocol-level behavior, independent
// of the transport.Config the caller used to build its Conn.
type Settings struct {
	AgentName              string
	LaneID                 *uint32
	CheckAliveResponseMode message.CheckAliveResponseMode
}

// Session owns one L1+L2+L3 triple for one peer connection.
type Session struct {
	id       uint32
	role     Role
	settings Settings
	table    *statemachine.Table[message.State]
	conn     *transport.Conn
	reader   *codec.Reader
	writer   *codec.Writer
	log      logger.Logger
	peer     ConnectionInfo
	cb       Callback

	mu                     sync.Mutex
	state                  message.State
	peerServiceDescription *message.ServiceDescriptionData

	posts               chan func()
	disconnectOnce      sync.Once
	disconnected        bool
	pendingNotification *message.NotificationData
}

// New builds a Session around an already-adopted transport.Conn. id must
// already be assigned by the supervisor (spec.md §3's SessionId rule).
func New(id uint32, role Role, settings Settings, conn *transport.Conn, peer ConnectionInfo, log logger.Logger) *Session {
	if log == nil {
		log = logger.Noop()
	}
	return &Session{
		id:       id,
		role:     role,
		settings: settings,
		table:    tableFor(role),
		conn:     conn,
		reader:   codec.NewReader(),
		writer:   codec.NewWriter(),
		log:      log,
		peer:     peer,
		state:    message.SocketConnected,
		posts:    make(chan func(), 256),
	}
}

// ID returns this session's stable identity.
func (s *Session) ID() uint32 { return s.id }

// State returns the current lane state. Safe for any goroutine.
func (s *Session) State() message.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PeerServiceDescription returns the peer's ServiceDescription once
// received, or nil before that. Safe for any goroutine.
func (s *Session) PeerServiceDescription() *message.ServiceDescriptionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerServiceDescription
}

func (s *Session) setState(next message.State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.cb.OnState(next)
}

// Start begins the session: delivers OnSocketConnected, then enqueues the
// role's initial ServiceDescription before starting the transport's read
// loop. The enqueue must happen first: SocketConnected has no entry in
// the role's Table, so if the peer's bytes were already buffered (e.g. on
// an accepted socket) and conn.Start ran first, a fast-arriving peer
// ServiceDescription could reach handleEnvelope and default to
// ProtocolErr before the local side had even queued its own.
func (s *Session) Start(cb Callback) {
	s.cb = cb
	go s.run()
	s.post(func() { s.cb.OnSocketConnected(s.peer) })
	s.post(s.sendServiceDescription)
	s.conn.Start(&connAdapter{s: s})
}

func (s *Session) run() {
	for work := range s.posts {
		work()
	}
}

// post enqueues fn onto the executor, returning false if the session's
// work queue has already been closed (because OnDisconnected already
// ran) rather than panicking on a send to a closed channel.
func (s *Session) post(fn func()) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	s.posts <- fn
	return true
}

func (s *Session) sendServiceDescription() {
	sd := message.ServiceDescriptionData{
		Version:   "1.4",
		AgentName: s.settings.AgentName,
		LaneId:    s.settings.LaneID,
	}
	if err := s.send(sd); err != nil {
		s.trace(logger.ErrorTrace, "send initial ServiceDescription: "+err.Error())
		return
	}
	s.setState(entryStateFor(s.role))
}

// Signal enqueues an outgoing typed message, subject to L3 gating: it is
// refused as a no-op (traced as a warning) if msg's Kind is not one this
// role may originate, per spec.md §4.3.1/4.3.2.
func (s *Session) Signal(msg message.Message) error {
	result := make(chan error, 1)
	if !s.post(func() { result <- s.signalOnExecutor(msg) }) {
		return hermeserrors.New(hermeserrors.ImplementationError, "session closed")
	}
	return <-result
}

func (s *Session) signalOnExecutor(msg message.Message) error {
	if s.disconnected {
		s.trace(logger.Warning, "Signal after OnDisconnected: ignored")
		return hermeserrors.New(hermeserrors.ClientError, "session already disconnected")
	}
	kind := msg.Kind()
	if !passthroughKinds[kind] && kind != message.KindCheckAlive && !s.table.MayOriginate(kind) {
		s.trace(logger.Warning, fmt.Sprintf("refusing to originate %s from %s role", kind, s.role))
		return hermeserrors.New(hermeserrors.ImplementationError, kind.String()+" is not legal for this role")
	}
	if err := s.send(msg); err != nil {
		return err
	}
	if tr, ok := s.table.LookupOutgoing(s.State(), kind); ok {
		s.setState(tr.Next)
	}
	return nil
}

func (s *Session) send(msg message.Message) error {
	raw, err := s.writer.Encode(time.Now(), msg)
	if err != nil {
		return err
	}
	s.trace(logger.Sent, msg.Kind().String())
	return s.conn.Send(raw)
}

// Disconnect sends an optional farewell Notification, then closes the
// session. It is idempotent; only the first call has any effect.
func (s *Session) Disconnect(notification *message.NotificationData) error {
	done := make(chan error, 1)
	if !s.post(func() { done <- s.disconnectOnExecutor(notification) }) {
		return nil
	}
	return <-done
}

func (s *Session) disconnectOnExecutor(notification *message.NotificationData) error {
	return s.disconnectOnExecutorWithCause(notification, nil)
}

// disconnectOnExecutorWithCause is disconnectOnExecutor plus the
// hermeserrors.Error (if any) that drove this disconnect, threaded down
// to transport.Conn so the eventual OnDisconnected reports a populated
// Error for a protocol/peer violation instead of always nil (spec.md §7).
func (s *Session) disconnectOnExecutorWithCause(notification *message.NotificationData, cause error) error {
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

func (s *Session) protocolError(cause error) {
	reason := cause.Error()
	notif := message.NotificationData{Code: message.CodeProtocolError, Severity: message.SeverityError, Description: reason}
	s.trace(logger.ErrorTrace, "PROTOCOL_ERROR: "+reason)
	_ = s.disconnectOnExecutorWithCause(&notif, cause)
}

func (s *Session) trace(kind logger.TraceType, text string) {
	s.log.Trace(s.id, kind, text, nil)
	if s.cb != nil {
		s.cb.OnTrace(kind, text)
	}
}

// connAdapter bridges transport.Callback onto Session's executor: every
// method just posts a closure, so Conn's own goroutines never touch
// Session state directly.
type connAdapter struct{ s *Session }

func (a *connAdapter) OnData(data []byte) {
	a.s.post(func() { a.s.handleData(data) })
}

func (a *connAdapter) OnKeepAliveTimeout() {
	a.s.post(func() { a.s.handleKeepAliveTimeout() })
}

func (a *connAdapter) OnDisconnected(cause error) {
	a.s.post(func() { a.s.handleDisconnected(cause) })
}

func (s *Session) handleData(data []byte) {
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

func (s *Session) handleEnvelope(env codec.Envelope) {
	if env.Unhandled {
		notif := env.Message.(message.NotificationData)
		s.protocolError(hermeserrors.New(hermeserrors.ProtocolError, notif.Description))
		return
	}

	kind := env.Message.Kind()

	if kind == message.KindCheckAlive {
		s.handleCheckAlive(env.Message.(message.CheckAliveData))
		return
	}
	if passthroughKinds[kind] {
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

	if sd, ok := env.Message.(message.ServiceDescriptionData); ok {
		s.mu.Lock()
		s.peerServiceDescription = &sd
		s.mu.Unlock()
	}

	s.trace(logger.Received, kind.String())
	if tr.Action == statemachine.Accept {
		s.setState(tr.Next)
	}
	s.cb.On(env.Message)
}

func (s *Session) handleCheckAlive(ca message.CheckAliveData) {
	if s.settings.CheckAliveResponseMode == message.CheckAliveAuto && ca.Type != nil && *ca.Type == message.CheckAlivePing {
		pong := message.CheckAlivePong
		_ = s.send(message.CheckAliveData{Type: &pong, Id: ca.Id})
		return
	}
	s.trace(logger.Received, "CheckAlive")
	s.cb.On(ca)
}

func (s *Session) handleKeepAliveTimeout() {
	if s.disconnected {
		return
	}
	s.cb.OnTrace(logger.Info, "keep-alive period elapsed with no outbound traffic")
	ping := message.CheckAlivePing
	_ = s.send(message.CheckAliveData{Type: &ping})
}

func (s *Session) handleDisconnected(cause error) {
	if s.disconnected {
		return
	}
	s.disconnected = true
	s.setStateQuiet(message.Disconnected)

	if cause != nil {
		s.trace(logger.ErrorTrace, cause.Error())
	}
	s.cb.OnDisconnected(s.pendingNotification, cause)
	close(s.posts)
}

// setStateQuiet updates state without invoking OnState, used for the
// terminal DISCONNECTED transition since OnDisconnected supersedes it.
func (s *Session) setStateQuiet(next message.State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
