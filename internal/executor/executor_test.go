package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/gpgdesk/internal/config"
	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

const baseURL = "http://signer.test"

func newMockClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(config.Profile{Name: "test", BaseURL: baseURL}, nil)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(c.Resty().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

// captureBody registers a responder that records the request body
func captureBody(method, url string, status int, reply string, body *string) {
	httpmock.RegisterResponder(method, url, func(req *http.Request) (*http.Response, error) {
		data, _ := io.ReadAll(req.Body)
		*body = string(data)
		return httpmock.NewStringResponse(status, reply), nil
	})
}

func TestGenerateKey(t *testing.T) {
	c := newMockClient(t)

	var sent string
	captureBody("POST", baseURL+"/remoteSigner/gpg/generateKey", 200, "-----BEGIN...-----", &sent)

	res := c.GenerateKey(context.Background(), types.GenerateKeyRequest{
		Identifier: "A B a@b.com",
		Password:   "pw",
		Bits:       2048,
	})

	assert.JSONEq(t, `{"Identifier":"A B a@b.com","Password":"pw","Bits":2048}`, sent)
	assert.Equal(t, remotedata.Success("-----BEGIN...-----"), res.Data)
	assert.Equal(t, 200, res.StatusCode)
	assert.NotEmpty(t, res.RequestID)
}

func TestAddPrivateKey(t *testing.T) {
	c := newMockClient(t)

	var sent string
	captureBody("POST", baseURL+"/keyRing/addPrivateKey", 200,
		`{"FingerPrint":"F00D","PublicKey":"PUB"}`, &sent)

	res := c.AddPrivateKey(context.Background(), types.AddPrivateKeyRequest{
		EncryptedPrivateKey: "KEYDATA",
		Password:            "",
		SaveToDisk:          true,
	})

	assert.JSONEq(t, `{"EncryptedPrivateKey":"KEYDATA","Password":"","SaveToDisk":true}`, sent)
	assert.Equal(t, remotedata.Success(types.PublicKeyResult{Fingerprint: "F00D", ArmoredPublicKey: "PUB"}), res.Data)
}

func TestUnlockKey(t *testing.T) {
	c := newMockClient(t)

	var sent string
	captureBody("POST", baseURL+"/remoteSigner/gpg/unlockKey", 200, "unlocked", &sent)

	res := c.UnlockKey(context.Background(), types.UnlockKeyRequest{FingerPrint: "F00D", Password: "pw"})

	assert.JSONEq(t, `{"FingerPrint":"F00D","Password":"pw"}`, sent)
	status, ok := res.Data.Value()
	require.True(t, ok)
	assert.Equal(t, "Unlock is: unlocked", types.UnlockDisplay(status))
}

func TestRequestHeaders(t *testing.T) {
	c := newMockClient(t)

	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/unlockKey", func(req *http.Request) (*http.Response, error) {
		assert.Contains(t, req.Header.Get("Content-Type"), "application/json")
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		assert.Equal(t, userAgent, req.Header.Get("User-Agent"))
		return httpmock.NewStringResponse(200, "ok"), nil
	})

	res := c.UnlockKey(context.Background(), types.UnlockKeyRequest{})
	assert.True(t, res.Data.IsSuccess())
}

func failureKind[T any](t *testing.T, d remotedata.Data[T]) *types.RequestError {
	t.Helper()
	require.True(t, d.IsFailure(), "expected failure, got %v", d)
	var rerr *types.RequestError
	require.True(t, errors.As(d.Reason(), &rerr), "reason %v is not a RequestError", d.Reason())
	return rerr
}

func TestBadStatus(t *testing.T) {
	c := newMockClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/generateKey",
		httpmock.NewStringResponder(500, "internal error"))

	res := c.GenerateKey(context.Background(), types.GenerateKeyRequest{})

	rerr := failureKind(t, res.Data)
	assert.Equal(t, types.BadStatus, rerr.Kind)
	assert.Equal(t, 500, rerr.Status)
	assert.Equal(t, 500, res.StatusCode)
}

func TestNetworkError(t *testing.T) {
	c := newMockClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/unlockKey",
		httpmock.NewErrorResponder(errors.New("dial tcp 127.0.0.1:80: connect: connection refused")))

	res := c.UnlockKey(context.Background(), types.UnlockKeyRequest{})

	rerr := failureKind(t, res.Data)
	assert.Equal(t, types.NetworkError, rerr.Kind)
	assert.Contains(t, rerr.Detail, "connection refused")
}

func TestTimeout(t *testing.T) {
	c := newMockClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/unlockKey",
		httpmock.NewErrorResponder(context.DeadlineExceeded))

	res := c.UnlockKey(context.Background(), types.UnlockKeyRequest{})

	assert.Equal(t, types.Timeout, failureKind(t, res.Data).Kind)
}

func TestBadURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8080", "://nope", "http://"} {
		t.Run(base, func(t *testing.T) {
			c, err := New(config.Profile{Name: "bad", BaseURL: base}, nil)
			require.NoError(t, err)

			res := c.UnlockKey(context.Background(), types.UnlockKeyRequest{})

			rerr := failureKind(t, res.Data)
			assert.Equal(t, types.BadURL, rerr.Kind)
			assert.True(t, strings.HasSuffix(rerr.URL, types.UnlockKeyPath))
		})
	}
}

func TestBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "FINGERPRINT"},
		{"missing fingerprint", `{"PublicKey":"PUB"}`},
		{"missing public key", `{"FingerPrint":"F"}`},
		{"wrong type", `{"FingerPrint":1,"PublicKey":"PUB"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMockClient(t)
			httpmock.RegisterResponder("POST", baseURL+"/keyRing/addPrivateKey",
				httpmock.NewStringResponder(200, tt.body))

			res := c.AddPrivateKey(context.Background(), types.AddPrivateKeyRequest{})

			assert.Equal(t, types.BadBody, failureKind(t, res.Data).Kind)
		})
	}
}

func TestTextBodyMustBeUTF8(t *testing.T) {
	c := newMockClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/generateKey",
		httpmock.NewBytesResponder(200, []byte{0xff, 0xfe, 0xfd}))

	res := c.GenerateKey(context.Background(), types.GenerateKeyRequest{})

	assert.Equal(t, types.BadBody, failureKind(t, res.Data).Kind)
}

func TestExecuteReturnsResolutionEvents(t *testing.T) {
	c := newMockClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/generateKey",
		httpmock.NewStringResponder(200, "KEY"))
	httpmock.RegisterResponder("POST", baseURL+"/keyRing/addPrivateKey",
		httpmock.NewStringResponder(200, `{"FingerPrint":"F","PublicKey":"P"}`))
	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/unlockKey",
		httpmock.NewStringResponder(403, "denied"))

	ctx := context.Background()

	out := c.Execute(ctx, types.GenerateKeyRequest{})
	assert.Equal(t, state.CreateResolved{Result: remotedata.Success("KEY")}, out.Event)
	assert.Equal(t, types.GenerateKeyPath, out.Endpoint)
	assert.Nil(t, out.Err)

	out = c.Execute(ctx, types.AddPrivateKeyRequest{})
	assert.Equal(t, state.SubmitResolved{Result: remotedata.Success(types.PublicKeyResult{Fingerprint: "F", ArmoredPublicKey: "P"})}, out.Event)

	out = c.Execute(ctx, types.UnlockKeyRequest{})
	ev, ok := out.Event.(state.UnlockResolved)
	require.True(t, ok)
	assert.True(t, ev.Result.IsFailure())
	require.NotNil(t, out.Err)
	assert.Equal(t, types.BadStatus, out.Err.Kind)
	assert.Equal(t, 403, out.StatusCode)

	entry := out.HistoryEntry("test", timeFixture)
	assert.Equal(t, "failed", entry.Outcome)
	assert.Equal(t, "bad_status", entry.ErrorKind)
	assert.Equal(t, types.UnlockKeyPath, entry.Endpoint)
	assert.Equal(t, out.RequestID, entry.ID)
}

func TestRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	c, err := New(config.Profile{Name: "test", BaseURL: baseURL}, log.NewLogfmtLogger(&buf))
	require.NoError(t, err)
	httpmock.ActivateNonDefault(c.Resty().GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", baseURL+"/remoteSigner/gpg/unlockKey",
		httpmock.NewStringResponder(200, "unlocked"))

	c.UnlockKey(context.Background(), types.UnlockKeyRequest{FingerPrint: "F", Password: "secret-pw"})

	out := buf.String()
	assert.Contains(t, out, "endpoint=/remoteSigner/gpg/unlockKey")
	assert.Contains(t, out, "status=200")
	assert.NotContains(t, out, "secret-pw")
}

func TestNewRejectsMissingTLSFiles(t *testing.T) {
	_, err := New(config.Profile{
		Name:    "tls",
		BaseURL: "https://signer.test",
		TLS:     &config.TLSConfig{CAFile: "/does/not/exist.pem"},
	}, nil)
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "999ms", FormatDuration(999))
	assert.Equal(t, "1.50s", FormatDuration(1500))
}
