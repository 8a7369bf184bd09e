package supervisor

import (
	"context"
	"fmt"
	"net"
	"sync"

	hermescontext "github.com/EuroplacerUk/hermes-sdk/context"
	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/metrics"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/transport"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentHandshakes bounds how many accepted-but-not-yet-running
// vertical sessions may be in the middle of the allowed-peer DNS check
// at once, so a burst of connecting stations can't spawn unbounded
// goroutines ahead of the listener's own backlog limit.
const maxConcurrentHandshakes = 64

// MultiPeerSettings configures a vertical-service or configuration-service
// endpoint: a single listen socket serving an unbounded number of
// stations, per spec.md §4.5's multi-peer supervisor.
type MultiPeerSettings struct {
	NetworkConfiguration
	CheckAliveResponseMode message.CheckAliveResponseMode
}

// MultiPeer is spec.md §4.5's multi-peer supervisor: it keeps a
// `sessionId -> VerticalSession` map instead of a single slot, applies
// the same allowed-peer check as SinglePeer, and supports broadcasting a
// board-tracking event to every session whose peer advertised the
// BoardTracking feature.
type MultiPeer struct {
	cb      MultiEndpointCallback
	log     logger.Logger
	ids     *idGenerator
	metrics *metrics.Metrics

	sessions     *hermescontext.Registry[uint32, *session.VerticalSession]
	handshakeSem *semaphore.Weighted

	mu         sync.Mutex
	settings   MultiPeerSettings
	enabled    bool
	generation uint64
	listener   net.Listener
}

// NewMultiPeer returns a disabled MultiPeer. Call Enable to start it.
func NewMultiPeer(cb MultiEndpointCallback, log logger.Logger) *MultiPeer {
	if log == nil {
		log = logger.Noop()
	}
	return &MultiPeer{
		cb:           cb,
		log:          log,
		ids:          newIDGenerator(),
		metrics:      metrics.Null(),
		sessions:     hermescontext.NewRegistry[uint32, *session.VerticalSession](),
		handshakeSem: semaphore.NewWeighted(maxConcurrentHandshakes),
	}
}

// SetMetrics attaches m as the destination for this endpoint's session
// counters; pass nil (or never call this) to keep metrics disabled.
func (mp *MultiPeer) SetMetrics(m *metrics.Metrics) {
	mp.mu.Lock()
	mp.metrics = m
	mp.mu.Unlock()
}

// Enable starts listening with settings, tearing down any prior listener
// (but not existing sessions — stations already connected keep running
// under the new settings, since only the allowed-peer check and
// checkAlivePeriod are listen-time concerns).
func (mp *MultiPeer) Enable(settings MultiPeerSettings) {
	mp.mu.Lock()
	if mp.enabled && mp.settings == settings {
		mp.mu.Unlock()
		return
	}
	mp.settings = settings
	mp.enabled = true
	mp.generation++
	gen := mp.generation
	l := mp.listener
	mp.listener = nil
	mp.mu.Unlock()

	if l != nil {
		_ = l.Close()
	}
	go mp.acceptLoop(gen, settings)
}

// Disable closes the listener and every live session, sending
// notification first to each if non-nil.
func (mp *MultiPeer) Disable(notification *message.NotificationData) {
	mp.mu.Lock()
	mp.enabled = false
	mp.generation++
	l := mp.listener
	mp.listener = nil
	mp.mu.Unlock()

	if l != nil {
		_ = l.Close()
	}

	var teardown *multierror.Error
	mp.sessions.Walk(func(id uint32, sess *session.VerticalSession) bool {
		if err := sess.Disconnect(notification); err != nil {
			teardown = multierror.Append(teardown, hermeserrors.Wrap(hermeserrors.ImplementationError, fmt.Sprintf("teardown session %d", id), err))
		}
		return true
	})
	mp.sessions.Clean()
	if err := teardown.ErrorOrNil(); err != nil {
		mp.log.Trace(0, logger.Warning, err.Error(), nil)
	}
}

// Stop is Disable with no farewell notification.
func (mp *MultiPeer) Stop() {
	mp.Disable(nil)
}

// Signal sends msg to exactly one session by id.
func (mp *MultiPeer) Signal(sessionID uint32, msg message.Message) error {
	sess, ok := mp.sessions.Load(sessionID)
	if !ok {
		return hermeserrors.New(hermeserrors.ImplementationError, fmt.Sprintf("no session %d", sessionID))
	}
	return sess.Signal(msg)
}

// Broadcast sends msg to every session, or — for BoardArrived/
// BoardDeparted, per spec.md §4.5 — only to sessions whose peer
// ServiceDescription advertised the BoardTracking feature.
func (mp *MultiPeer) Broadcast(msg message.Message) {
	filterByBoardTracking := msg.Kind() == message.KindBoardArrived || msg.Kind() == message.KindBoardDeparted
	mp.sessions.Walk(func(_ uint32, sess *session.VerticalSession) bool {
		if filterByBoardTracking && !sess.SupportsBoardTracking() {
			return true
		}
		if err := sess.Signal(msg); err != nil {
			mp.log.Trace(sess.ID(), logger.Warning, "broadcast: "+err.Error(), nil)
		}
		return true
	})
}

// SessionIDs returns the ids of every currently live session.
func (mp *MultiPeer) SessionIDs() []uint32 {
	ids := make([]uint32, 0, mp.sessions.Len())
	mp.sessions.Walk(func(id uint32, _ *session.VerticalSession) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func (mp *MultiPeer) acceptLoop(gen uint64, settings MultiPeerSettings) {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", settings.Port))
	if err != nil {
		mp.log.Trace(0, logger.ErrorTrace, "listen: "+err.Error(), nil)
		return
	}
	mp.mu.Lock()
	if !mp.enabled || mp.generation != gen {
		mp.mu.Unlock()
		_ = l.Close()
		return
	}
	mp.listener = l
	mp.mu.Unlock()

	for mp.isCurrentGeneration(gen) {
		nc, err := l.Accept()
		if err != nil {
			return
		}
		if !mp.isCurrentGeneration(gen) {
			_ = nc.Close()
			return
		}

		// The allowed-peer check resolves the peer's hostname, which
		// can block on DNS; handing it off lets the accept loop keep
		// draining the listener's backlog instead of stalling behind
		// one slow lookup. handshakeSem bounds how many of these can
		// run at once.
		go mp.handleAccept(gen, nc, settings)
	}
}

func (mp *MultiPeer) handleAccept(gen uint64, nc net.Conn, settings MultiPeerSettings) {
	if err := mp.handshakeSem.Acquire(context.Background(), 1); err != nil {
		_ = nc.Close()
		return
	}
	defer mp.handshakeSem.Release(1)

	if !mp.isCurrentGeneration(gen) {
		_ = nc.Close()
		return
	}

	if err := checkAllowedPeer(context.Background(), settings.HostName, nc.RemoteAddr()); err != nil {
		rejectForConfigurationError(nc, err, mp.log)
		return
	}

	id := mp.ids.Next()
	if _, exists := mp.sessions.Load(id); exists {
		// Only reachable on session-id wraparound collision
		// (spec.md §4.5): drop the newcomer rather than replace a
		// live session's map entry.
		mp.log.Trace(id, logger.Warning, "dropping accept: session id already in use", nil)
		_ = nc.Close()
		return
	}

	conn := transport.Adopt(nc, settings.TransportConfig())
	peer := peerInfoFromConn(conn)
	sess := session.NewVertical(id, conn, peer, mp.log)
	mp.sessions.Store(id, sess)
	mp.metrics.RecordConnect("vertical")
	mp.metrics.SetVerticalSessions(mp.sessions.Len())

	done := make(chan disconnectEvent, 1)
	sess.Start(&multiSessionCallback{id: id, up: mp.cb, done: done})
	go func(id uint32) {
		event := <-done
		mp.metrics.RecordDisconnect("vertical", disconnectCause(event))
		mp.sessions.Delete(id)
		mp.metrics.SetVerticalSessions(mp.sessions.Len())
	}(id)
}

func (mp *MultiPeer) isCurrentGeneration(gen uint64) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.enabled && mp.generation == gen
}
