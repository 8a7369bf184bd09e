package supervisor

import (
	"context"
	"net"

	hermeserrors "github.com/EuroplacerUk/hermes-sdk/errors"
)

// checkAllowedPeer implements spec.md §4.5's allowed-peer check: when
// hostName is set, it must resolve, and remoteAddr must be one of the
// addresses it resolves to. An empty hostName always passes.
func checkAllowedPeer(ctx context.Context, hostName string, remote net.Addr) error {
	if hostName == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		host = remote.String()
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, hostName)
	if err != nil {
		return hermeserrors.Wrap(hermeserrors.ConfigurationError, "resolve allowed peer "+hostName, err)
	}
	for _, a := range addrs {
		if a == host {
			return nil
		}
	}
	return hermeserrors.New(hermeserrors.ConfigurationError,
		"peer "+host+" does not match any address of allowed host "+hostName)
}
