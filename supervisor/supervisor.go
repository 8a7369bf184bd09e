package supervisor

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/codec"
	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/metrics"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/transport"
)

// SinglePeerSettings bundles spec.md §3's NetworkConfiguration with the
// session-level settings a lane role needs to build its Session.
type SinglePeerSettings struct {
	NetworkConfiguration
	Role                   session.Role
	AgentName              string
	LaneID                 *uint32
	CheckAliveResponseMode message.CheckAliveResponseMode
}

func (s SinglePeerSettings) sessionSettings() session.Settings {
	return session.Settings{
		AgentName:              s.AgentName,
		LaneID:                 s.LaneID,
		CheckAliveResponseMode: s.CheckAliveResponseMode,
	}
}

func (s SinglePeerSettings) equal(o SinglePeerSettings) bool {
	return s == o
}

// SinglePeer is spec.md §4.5's single-peer supervisor: the lane
// upstream/downstream endpoint that holds at most one live Session at a
// time, enforced by construction (the accept loop refuses a second
// incomer; the connect loop dials again only once the current session
// has fully disconnected).
type SinglePeer struct {
	cb      EndpointCallback
	log     logger.Logger
	ids     *idGenerator
	metrics *metrics.Metrics

	mu         sync.Mutex
	settings   SinglePeerSettings
	enabled    bool
	generation uint64
	cur        *session.Session
	listener   net.Listener
}

// NewSinglePeer returns a disabled SinglePeer. Call Enable to start it.
func NewSinglePeer(cb EndpointCallback, log logger.Logger) *SinglePeer {
	if log == nil {
		log = logger.Noop()
	}
	return &SinglePeer{cb: cb, log: log, ids: newIDGenerator(), metrics: metrics.Null()}
}

// SetMetrics attaches m as the destination for this endpoint's
// connection/disconnection counters; pass nil (or never call this) to
// keep metrics disabled.
func (sp *SinglePeer) SetMetrics(m *metrics.Metrics) {
	sp.mu.Lock()
	sp.metrics = m
	sp.mu.Unlock()
}

// Enable starts (or restarts, on a settings change) the endpoint, per
// spec.md §4.5's three-step rule: no-op on an identical re-Enable; tear
// down any existing session with a
// CONNECTION_RESET_BECAUSE_OF_CHANGED_CONFIGURATION notification
// otherwise; then begin listening (downstream) or connecting (upstream).
func (sp *SinglePeer) Enable(settings SinglePeerSettings) {
	sp.mu.Lock()
	if sp.enabled && sp.settings.equal(settings) {
		sp.mu.Unlock()
		return
	}
	wasEnabled := sp.enabled
	cur := sp.cur
	l := sp.listener
	sp.listener = nil
	sp.settings = settings
	sp.enabled = true
	sp.generation++
	gen := sp.generation
	sp.mu.Unlock()

	if l != nil {
		_ = l.Close()
	}
	if wasEnabled && cur != nil {
		_ = cur.Disconnect(&message.NotificationData{
			Code:        message.CodeConnectionResetBecauseOfChangedConfiguration,
			Severity:    message.SeverityInfo,
			Description: "configuration changed",
		})
	}

	if settings.Role == session.RoleDownstream {
		go sp.serverLoop(gen, settings)
	} else {
		go sp.clientLoop(gen, settings)
	}
}

// Disable tears down the current session (sending notification first,
// if non-nil) and stops retry/listen activity.
func (sp *SinglePeer) Disable(notification *message.NotificationData) {
	sp.mu.Lock()
	sp.enabled = false
	sp.generation++
	cur := sp.cur
	sp.cur = nil
	l := sp.listener
	sp.listener = nil
	sp.mu.Unlock()

	if l != nil {
		_ = l.Close()
	}
	if cur != nil {
		_ = cur.Disconnect(notification)
	}
}

// Stop is Disable with no farewell notification, used at process
// shutdown.
func (sp *SinglePeer) Stop() {
	sp.Disable(nil)
}

// Reset disconnects and reopens the endpoint with its current settings,
// per spec.md §6.3's `Reset(Notification | rawXml)`.
func (sp *SinglePeer) Reset(notification *message.NotificationData) {
	sp.mu.Lock()
	settings := sp.settings
	sp.mu.Unlock()
	sp.Disable(notification)
	sp.Enable(settings)
}

// Signal forwards msg to the current session, if any.
func (sp *SinglePeer) Signal(msg message.Message) error {
	sp.mu.Lock()
	cur := sp.cur
	sp.mu.Unlock()
	if cur == nil {
		return hermeserrors.New(hermeserrors.ImplementationError, "no active session")
	}
	return cur.Signal(msg)
}

// CurrentSessionID returns the live session's id, or 0 if none (spec.md
// §3: zero means "no session").
func (sp *SinglePeer) CurrentSessionID() uint32 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.cur == nil {
		return 0
	}
	return sp.cur.ID()
}

func (sp *SinglePeer) isCurrentGeneration(gen uint64) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.enabled && sp.generation == gen
}

// clientLoop implements the upstream (active-connect) role: dial,
// session, wait for disconnect, back off, repeat.
func (sp *SinglePeer) clientLoop(gen uint64, settings SinglePeerSettings) {
	progress := stillHandshaking
	for sp.isCurrentGeneration(gen) {
		addr := fmt.Sprintf("%s:%d", settings.HostName, settings.Port)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := transport.Connect(ctx, "tcp", addr, settings.TransportConfig())
		cancel()
		if err != nil {
			sp.log.Trace(0, logger.ErrorTrace, "connect "+addr+": "+err.Error(), nil)
			if !sp.sleepGeneration(gen, settings.EffectiveRetryDelay()) {
				return
			}
			continue
		}

		id := sp.ids.Next()
		peer := peerInfoFromConn(conn)
		sess := session.New(id, session.RoleUpstream, settings.sessionSettings(), conn, peer, sp.log)
		sp.metrics.RecordConnect(settings.Role.String())
		sp.metrics.SetConnected(settings.Role.String(), true)

		sp.mu.Lock()
		sp.cur = sess
		sp.mu.Unlock()

		progress = stillHandshaking
		done := make(chan disconnectEvent, 1)
		sess.Start(&sessionCallback{id: id, up: sp.cb, progress: &progress, done: done})
		event := <-done
		sp.metrics.RecordDisconnect(settings.Role.String(), disconnectCause(event))
		sp.metrics.SetConnected(settings.Role.String(), false)

		sp.mu.Lock()
		if sp.cur == sess {
			sp.cur = nil
		}
		sp.mu.Unlock()

		delay := settings.EffectiveRetryDelay()
		if progress == pastServiceDescription {
			delay = fastReconnectDelay
		}
		if !sp.sleepGeneration(gen, delay) {
			return
		}
	}
}

// serverLoop implements the downstream (listen/accept) role.
func (sp *SinglePeer) serverLoop(gen uint64, settings SinglePeerSettings) {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", settings.Port))
	if err != nil {
		sp.log.Trace(0, logger.ErrorTrace, "listen: "+err.Error(), nil)
		return
	}
	sp.mu.Lock()
	if !sp.enabled || sp.generation != gen {
		sp.mu.Unlock()
		_ = l.Close()
		return
	}
	sp.listener = l
	sp.mu.Unlock()

	var delayMu sync.Mutex
	var lastDelay time.Duration
	for sp.isCurrentGeneration(gen) {
		nc, err := l.Accept()
		if err != nil {
			return
		}
		if !sp.isCurrentGeneration(gen) {
			_ = nc.Close()
			return
		}

		sp.mu.Lock()
		existing := sp.cur
		sp.mu.Unlock()
		if existing != nil {
			refuseIncomer(nc, sp.log)
			_ = existing.Signal(message.CheckAliveData{})
			continue
		}

		if err := checkAllowedPeer(context.Background(), settings.HostName, nc.RemoteAddr()); err != nil {
			rejectForConfigurationError(nc, err, sp.log)
			continue
		}

		delayMu.Lock()
		pending := lastDelay
		lastDelay = 0
		delayMu.Unlock()
		if pending > 0 {
			time.Sleep(pending)
		}

		conn := transport.Adopt(nc, settings.TransportConfig())
		id := sp.ids.Next()
		peer := peerInfoFromConn(conn)
		sess := session.New(id, session.RoleDownstream, settings.sessionSettings(), conn, peer, sp.log)
		sp.metrics.RecordConnect(settings.Role.String())
		sp.metrics.SetConnected(settings.Role.String(), true)

		sp.mu.Lock()
		sp.cur = sess
		sp.mu.Unlock()

		progress := stillHandshaking
		done := make(chan disconnectEvent, 1)
		sess.Start(&sessionCallback{id: id, up: sp.cb, progress: &progress, done: done})

		go func(sess *session.Session, progress *laneProgressState) {
			event := <-done
			sp.metrics.RecordDisconnect(settings.Role.String(), disconnectCause(event))
			sp.metrics.SetConnected(settings.Role.String(), false)
			sp.mu.Lock()
			if sp.cur == sess {
				sp.cur = nil
			}
			sp.mu.Unlock()
			delayMu.Lock()
			if *progress == pastServiceDescription {
				lastDelay = fastReconnectDelay
			} else {
				lastDelay = settings.EffectiveRetryDelay()
			}
			delayMu.Unlock()
		}(sess, &progress)
	}
}

// sleepGeneration sleeps d, returning false early if gen has been
// superseded by a subsequent Enable/Disable so the caller can stop its
// loop instead of racing a newer one.
func (sp *SinglePeer) sleepGeneration(gen uint64, d time.Duration) bool {
	deadline := time.Now().Add(d)
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for {
		if !sp.isCurrentGeneration(gen) {
			return false
		}
		if time.Now().After(deadline) {
			return true
		}
		<-poll.C
	}
}

// disconnectCause classifies event for the hermes_disconnects_total
// metric: "clean" for a local/peer-initiated farewell, the error's Kind
// otherwise.
func disconnectCause(event disconnectEvent) string {
	if event.cause == nil {
		return "clean"
	}
	return hermeserrors.KindOf(event.cause).String()
}

func peerInfoFromConn(conn *transport.Conn) session.ConnectionInfo {
	info := session.ConnectionInfo{}
	addr := conn.RemoteAddr()
	if addr == nil {
		return info
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		info.Address = addr.String()
		return info
	}
	info.Address = host
	fmt.Sscanf(port, "%d", &info.Port)
	if names, err := net.DefaultResolver.LookupAddr(context.Background(), host); err == nil && len(names) > 0 {
		info.HostName = names[0]
	}
	return info
}

// refuseIncomer sends CONNECTION_REFUSED_BECAUSE_OF_ESTABLISHED_CONNECTION
// and closes nc, per spec.md §4.5 / scenario S3.
func refuseIncomer(nc net.Conn, log logger.Logger) {
	writeFarewell(nc, message.NotificationData{
		Code:        message.CodeConnectionRefusedBecauseOfEstablishedConnection,
		Severity:    message.SeverityError,
		Description: "a session is already established",
	}, log)
}

// rejectForConfigurationError sends a CONFIGURATION_ERROR notification
// and closes nc, per spec.md §3 invariant (vi) / scenario S6.
func rejectForConfigurationError(nc net.Conn, cause error, log logger.Logger) {
	writeFarewell(nc, message.NotificationData{
		Code:        message.CodeConfigurationError,
		Severity:    message.SeverityWarning,
		Description: cause.Error(),
	}, log)
}

func writeFarewell(nc net.Conn, notif message.NotificationData, log logger.Logger) {
	w := codec.NewWriter()
	raw, err := w.Encode(time.Now(), notif)
	if err == nil {
		_, _ = nc.Write(raw)
	} else {
		log.Trace(0, logger.ErrorTrace, "encode farewell notification: "+err.Error(), nil)
	}
	_ = nc.Close()
}
