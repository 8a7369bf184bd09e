// Package supervisor implements the Hermes endpoint lifecycle (L5): the
// single-peer supervisor used by a lane (upstream or downstream) and the
// multi-peer supervisor used by the vertical and configuration services.
// SinglePeer drives session.Session and MultiPeer drives
// session.VerticalSession instances over an accepted or dialled net.Conn;
// the only XML either writes itself is the farewell Notification sent to
// a refused socket.
package supervisor

import (
	"time"

	"github.com/EuroplacerUk/hermes-sdk/duration"
	"github.com/EuroplacerUk/hermes-sdk/transport"
)

// defaultRetryDelay is the backoff used when RetryDelay is left unset, so
// a misconfigured endpoint still backs off instead of busy-looping.
const defaultRetryDelay = duration.Duration(5 * time.Second)

// NetworkConfiguration is spec.md §3's NetworkConfiguration record: the
// operator-supplied connection settings for one endpoint.
type NetworkConfiguration struct {
	// HostName, on a server endpoint, restricts accepted peers to those
	// resolving to it (the "allowed-peer check", spec.md §4.5). On a
	// client endpoint it is the address to dial.
	HostName string
	// Port is the TCP port to listen on (server) or dial (client).
	Port int
	// RetryDelay is reconnectWaitTimeSec: the backoff used when the peer
	// never progressed past ServiceDescription. Config-friendly
	// ("5s", "1d") rather than raw seconds.
	RetryDelay duration.Duration
	// CheckAlivePeriod configures the session's keep-alive timer; zero
	// disables keep-alive generation.
	CheckAlivePeriod duration.Duration
}

// EffectiveRetryDelay returns RetryDelay, defaulting to 5s when unset.
func (c NetworkConfiguration) EffectiveRetryDelay() time.Duration {
	return c.RetryDelay.OrDefault(defaultRetryDelay).Time()
}

// fastReconnectDelay is the 1.0s fast path used once a peer has been seen
// to progress past ServiceDescription at least once, per spec.md §4.5.
const fastReconnectDelay = time.Second

// TransportConfig derives the transport.Config an endpoint's Conn should
// use from this NetworkConfiguration: CheckAlivePeriod drives the
// keep-alive timer directly, with L1's own defaults for buffer sizing.
func (c NetworkConfiguration) TransportConfig() transport.Config {
	cfg := transport.DefaultConfig()
	if c.CheckAlivePeriod > 0 {
		cfg.KeepAlivePeriod = c.CheckAlivePeriod.Time()
	}
	return cfg
}
