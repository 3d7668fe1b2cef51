package scanner

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// Connector attempts a single connection to a target. A nil error means the
// port accepted the connection; any error means closed or unreachable.
type Connector interface {
	Connect(ctx context.Context, target Target) error
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, target Target) error

// Connect calls f(ctx, target).
func (f ConnectorFunc) Connect(ctx context.Context, target Target) error {
	return f(ctx, target)
}

// TCPConnector performs full TCP connect attempts.
type TCPConnector struct {
	// Timeout bounds each dial. Zero leaves the deadline to the network stack.
	Timeout time.Duration
}

// Connect dials target over TCP and closes the connection on success.
func (c *TCPConnector) Connect(ctx context.Context, target Target) error {
	d := net.Dialer{
		Timeout:   c.Timeout,
		KeepAlive: -1,
	}

	conn, err := d.DialContext(ctx, "tcp", target.String())
	if err != nil {
		return err
	}
	if err := conn.Close(); err != nil {
		log.Debug().Err(err).Str("target", target.String()).Msg("connection close failed")
	}
	return nil
}
