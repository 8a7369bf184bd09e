package configsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/codec"
	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/transport"
)

// Client is a one-shot configuration-service caller: it dials, sends a
// single GetConfiguration or SetConfiguration, collects whatever
// Notifications arrive ahead of the CurrentConfiguration reply, and
// disconnects — no state machine, no reconnect, per spec.md §4.6's "a
// short-lived request/response exchange, not a supervised lane".
type Client struct{}

// NewClient returns a Client. It holds no state and can be shared.
func NewClient() *Client { return &Client{} }

// Get requests the station at addr's current configuration.
func (c *Client) Get(ctx context.Context, addr string, timeout time.Duration) (message.CurrentConfigurationData, []message.NotificationData, error) {
	return c.request(ctx, addr, timeout, message.GetConfigurationData{})
}

// Set requests the station at addr apply settings, returning whatever
// configuration is actually in effect afterwards.
func (c *Client) Set(ctx context.Context, addr string, timeout time.Duration, settings map[string]string) (message.CurrentConfigurationData, []message.NotificationData, error) {
	return c.request(ctx, addr, timeout, message.SetConfigurationData{Settings: settings})
}

func (c *Client) request(ctx context.Context, addr string, timeout time.Duration, req message.Message) (message.CurrentConfigurationData, []message.NotificationData, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := transport.Connect(ctx, "tcp", addr, transport.DefaultConfig())
	if err != nil {
		return message.CurrentConfigurationData{}, nil, err
	}

	cb := &rawCallback{
		reader: codec.NewReader(),
		envs:   make(chan codec.Envelope, 16),
		done:   make(chan error, 1),
	}
	conn.Start(cb)
	defer conn.Close()

	raw, err := codec.NewWriter().Encode(time.Now(), req)
	if err != nil {
		return message.CurrentConfigurationData{}, nil, err
	}
	if err := conn.Send(raw); err != nil {
		return message.CurrentConfigurationData{}, nil, err
	}

	var notifications []message.NotificationData
	for {
		select {
		case <-ctx.Done():
			return message.CurrentConfigurationData{}, notifications,
				hermeserrors.New(hermeserrors.Timeout, fmt.Sprintf("configuration request to %s timed out", addr))
		case env := <-cb.envs:
			switch m := env.Message.(type) {
			case message.NotificationData:
				notifications = append(notifications, m)
			case message.CurrentConfigurationData:
				return m, notifications, nil
			}
		case err := <-cb.done:
			if err == nil {
				err = hermeserrors.New(hermeserrors.NetworkError, "connection closed before CurrentConfiguration")
			}
			return message.CurrentConfigurationData{}, notifications, err
		}
	}
}

// rawCallback adapts transport.Callback onto a pair of channels, used by
// Client to drive a connection with no session/state-machine layer
// above it.
type rawCallback struct {
	reader *codec.Reader
	envs   chan codec.Envelope
	done   chan error
}

func (r *rawCallback) OnData(data []byte) {
	envs, err := r.reader.Feed(data)
	for _, e := range envs {
		r.envs <- e
	}
	if err != nil {
		select {
		case r.done <- err:
		default:
		}
	}
}

func (r *rawCallback) OnKeepAliveTimeout() {}

func (r *rawCallback) OnDisconnected(err error) {
	select {
	case r.done <- err:
	default:
	}
}
