// Package transport implements the Hermes framed TCP transport (spec.md
// §4.1, "L1"): a bidirectional byte pipe with a bounded outbound send
// queue enforcing the single-writer discipline of spec.md §5, and a
// keep-alive timer that fires when nothing has been written for a
// configured period. It knows nothing about XML or message kinds —
// codec and session own those layers.
package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"syscall"
	"time"

	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
)

// Callback receives the events a Conn produces. OnDisconnected fires
// exactly once, whether Close was called locally, the peer reset the
// connection, or a write/read failed; err is nil for a clean local Close.
type Callback interface {
	OnData(data []byte)
	OnKeepAliveTimeout()
	OnDisconnected(err error)
}

// Config bounds the resources a Conn uses.
type Config struct {
	// ReadBufferSize is the scratch buffer size for each Read call.
	ReadBufferSize int
	// SendQueueBytes bounds the total size of buffered-but-unwritten
	// outbound payloads; Send fails once it would be exceeded.
	SendQueueBytes int
	// KeepAlivePeriod, if positive, fires OnKeepAliveTimeout after this
	// much idle time since the last successful write. Zero disables it.
	KeepAlivePeriod time.Duration
}

// DefaultConfig matches spec.md §4.1's defaults: a 1 KiB read buffer and
// a 4 KiB send queue budget.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize: 1024,
		SendQueueBytes: 4096,
	}
}

// Conn is one established TCP connection, running its read loop and
// writer loop on their own goroutines. All public methods are safe to
// call from any goroutine. Callback methods are invoked from Conn's read
// and write goroutines (OnDisconnected from whichever goroutine first
// closes the Conn), so they can run concurrently with each other.
type Conn struct {
	nc  net.Conn
	cfg Config
	cb  Callback

	mu         sync.Mutex
	queue      [][]byte
	queueBytes int
	wake       chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// Connect dials addr and returns an adopted Conn. Use Start to begin
// pumping events once a Callback is ready.
func Connect(ctx context.Context, network, addr string, cfg Config) (*Conn, error) {
	d := net.Dialer{}
	nc, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, hermeserrors.Wrap(hermeserrors.NetworkError, "dial "+addr, err)
	}
	return Adopt(nc, cfg), nil
}

// Adopt wraps an already-established net.Conn (e.g. one accepted by a
// listener) without dialing.
func Adopt(nc net.Conn, cfg Config) *Conn {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultConfig().ReadBufferSize
	}
	if cfg.SendQueueBytes <= 0 {
		cfg.SendQueueBytes = DefaultConfig().SendQueueBytes
	}
	return &Conn{
		nc:     nc,
		cfg:    cfg,
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// LocalAddr and RemoteAddr expose the underlying socket's endpoints, used
// by the supervisor for the allowed-peer hostname check.
func (c *Conn) LocalAddr() net.Addr  { return c.nc.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// Start begins the read and write loops, delivering events to cb.
// It must be called at most once per Conn.
func (c *Conn) Start(cb Callback) {
	c.cb = cb
	go c.readLoop()
	go c.writeLoop()
}

// Send enqueues data for the writer goroutine. It returns a
// NetworkError if the send queue budget would be exceeded rather than
// blocking, since Hermes has no flow-control primitive of its own. The
// session returns that error to the caller of Signal; neither Conn nor
// the session closes the connection on an overflow.
func (c *Conn) Send(data []byte) error {
	c.mu.Lock()
	if c.queueBytes+len(data) > c.cfg.SendQueueBytes {
		c.mu.Unlock()
		return hermeserrors.New(hermeserrors.NetworkError, "send queue exceeds budget")
	}
	c.queue = append(c.queue, data)
	c.queueBytes += len(data)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close shuts down the connection and guarantees OnDisconnected(nil)
// fires exactly once as a result of this call (or not at all, if the
// loops had already reported a different cause first).
func (c *Conn) Close() error {
	return c.disconnect(nil)
}

// SendAndClose writes data synchronously, bypassing the send queue, then
// closes the connection, reporting cause to OnDisconnected. Used for a
// farewell or protocol-error Notification that must reach the peer
// before the socket goes away — queuing it would race the writer
// goroutine against the Close below. cause is nil for a graceful,
// caller-initiated farewell (e.g. a configuration-change teardown) and a
// populated *hermeserrors.Error for a protocol/peer violation, per
// spec.md §7's propagation policy.
func (c *Conn) SendAndClose(data []byte, cause error) error {
	_, werr := c.nc.Write(data)
	cerr := c.disconnect(cause)
	if werr != nil {
		return werr
	}
	return cerr
}

func (c *Conn) writeLoop() {
	var keepAlive *time.Timer
	var keepAliveC <-chan time.Time
	if c.cfg.KeepAlivePeriod > 0 {
		keepAlive = time.NewTimer(c.cfg.KeepAlivePeriod)
		keepAliveC = keepAlive.C
		defer keepAlive.Stop()
	}

	for {
		select {
		case <-c.closed:
			return
		case <-keepAliveC:
			c.cb.OnKeepAliveTimeout()
			keepAlive.Reset(c.cfg.KeepAlivePeriod)
		case <-c.wake:
			for _, buf := range c.drainQueue() {
				if _, err := c.nc.Write(buf); err != nil {
					c.disconnect(hermeserrors.Wrap(hermeserrors.NetworkError, "write", err))
					return
				}
				if keepAlive != nil {
					if !keepAlive.Stop() {
						select {
						case <-keepAlive.C:
						default:
						}
					}
					keepAlive.Reset(c.cfg.KeepAlivePeriod)
				}
			}
		}
	}
}

func (c *Conn) drainQueue() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	drained := c.queue
	c.queue = nil
	c.queueBytes = 0
	return drained
}

func (c *Conn) readLoop() {
	buf := make([]byte, c.cfg.ReadBufferSize)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			c.cb.OnData(chunk)
		}
		if err != nil {
			c.disconnect(classifyReadErr(err))
			return
		}
	}
}

// classifyReadErr distinguishes a clean close (EOF, reset by peer) from
// a genuine network fault, per spec.md §7: the former reports as a nil
// cause, the latter as an alarm-grade NetworkError.
func classifyReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return nil
	}
	return hermeserrors.Wrap(hermeserrors.NetworkError, "read", err)
}

func (c *Conn) disconnect(cause error) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.nc.Close()
		if c.cb != nil {
			c.cb.OnDisconnected(cause)
		}
	})
	return err
}
