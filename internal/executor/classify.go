package executor

import (
	"context"
	"errors"
	"strings"

	"github.com/studiowebux/gpgdesk/internal/types"
)

// classifyTransportError maps an error from the HTTP round trip onto the
// request error taxonomy. Non-2xx statuses and body problems are handled by
// the caller; this only sees failures where no response arrived.
func classifyTransportError(err error, endpoint string) *types.RequestError {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewTimeout()
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return types.NewTimeout()
	}

	root := rootCause(err)
	errLower := strings.ToLower(root.Error())

	if strings.Contains(errLower, "unsupported protocol scheme") ||
		strings.Contains(errLower, "invalid url") ||
		strings.Contains(errLower, "no host in request url") ||
		strings.Contains(errLower, "invalid control character in url") {
		return types.NewBadURL(endpoint)
	}

	if strings.Contains(errLower, "timeout") || strings.Contains(errLower, "timed out") {
		return types.NewTimeout()
	}

	return types.NewNetworkError(root.Error())
}

func rootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
