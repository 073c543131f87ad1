package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/studiowebux/gpgdesk/internal/types"
)

var timeFixture = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	const endpoint = "http://signer.test/remoteSigner/gpg/unlockKey"

	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{
			name: "deadline exceeded",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: context.DeadlineExceeded},
			want: types.Timeout,
		},
		{
			name: "net timeout",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: &net.OpError{Op: "dial", Err: timeoutErr{}}},
			want: types.Timeout,
		},
		{
			name: "wrapped deadline",
			err:  fmt.Errorf("send: %w", context.DeadlineExceeded),
			want: types.Timeout,
		},
		{
			name: "unsupported scheme",
			err:  &url.Error{Op: "Post", URL: "ftp://x", Err: errors.New(`unsupported protocol scheme "ftp"`)},
			want: types.BadURL,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: errors.New("dial tcp: connect: connection refused")},
			want: types.NetworkError,
		},
		{
			name: "dns failure",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: errors.New("dial tcp: lookup signer.test: no such host")},
			want: types.NetworkError,
		},
		{
			name: "cancelled",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: context.Canceled},
			want: types.NetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportError(tt.err, endpoint)
			if got.Kind != tt.want {
				t.Errorf("kind = %s, want %s", got.Kind, tt.want)
			}
			if got.Kind == types.BadURL && got.URL != endpoint {
				t.Errorf("URL = %s, want %s", got.URL, endpoint)
			}
		})
	}
}

func TestRootCause(t *testing.T) {
	inner := errors.New("inner")
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", inner))
	if rootCause(wrapped) != inner {
		t.Errorf("rootCause = %v, want %v", rootCause(wrapped), inner)
	}
}
