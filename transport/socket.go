package transport

import (
	"context"
	"fmt"
	"net"
)

// socketTransport is a raw TCP socket link, e.g. port 5025 of a LAN instrument.
type socketTransport struct {
	*lineTransport
}

var _ Transport = (*socketTransport)(nil)

func openSocket(ctx context.Context, res Resource, cfg *Config) (Transport, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	dialer := net.Dialer{Timeout: cfg.DialTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", res.Address())
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", res.Name, err)
	}

	cfg.Logger().Debug("socket connected", "resource", res.Name, "remote", conn.RemoteAddr().String())

	return &socketTransport{lineTransport: newLineTransport(res.Name, conn, cfg)}, nil
}
