package backend

import (
	"context"
	"errors"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"anydl/internal/services"
)

// classifyTransport maps an error from HTTPDoer.Do (or from reading the
// response body) to a submission error marker. Connection establishment
// failures are reported as unreachable even when the dial itself timed out;
// every other deadline is a timeout.
func classifyTransport(err error) error {
	switch {
	case err == nil:
		return nil
	case isConnectFailure(err):
		return services.ErrUnreachable
	case isTimeout(err):
		return services.ErrTimeout
	default:
		return services.ErrUnknown
	}
}

func isConnectFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, unix.ECONNREFUSED) || errors.Is(err, unix.ECONNRESET)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
