package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/studiowebux/gpgdesk/internal/config"
	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

const userAgent = "gpgdesk/1"

// Client posts requests to one profile's signer and key-ring endpoints
type Client struct {
	rest    *resty.Client
	baseURL string
	logger  log.Logger
}

// New builds a client for profile. TLS files named by the profile are
// loaded here so that a bad path fails before any request.
func New(profile config.Profile, logger log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	rest := resty.New().
		SetTimeout(profile.Timeout()).
		SetHeader("Accept", "application/json, text/plain").
		SetHeader("User-Agent", userAgent)

	if profile.TLS != nil {
		tlsCfg, err := buildTLSConfig(profile.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
		rest.SetTLSClientConfig(tlsCfg)
	}

	return &Client{
		rest:    rest,
		baseURL: profile.BaseURL,
		logger:  log.With(logger, "component", "executor", "profile", profile.Name),
	}, nil
}

// Resty exposes the underlying HTTP client
func (c *Client) Resty() *resty.Client {
	return c.rest
}

// Result is the lifecycle outcome of one request with its transport metadata
type Result[T any] struct {
	Data       remotedata.Data[T]
	StatusCode int
	Duration   time.Duration
	RequestID  string
}

// Outcome is a resolved request ready to be fed back into state.Update
type Outcome struct {
	Event      state.Event
	Endpoint   string
	State      remotedata.State
	Err        *types.RequestError
	StatusCode int
	Duration   time.Duration
	RequestID  string
}

// Execute sends req and returns the matching resolution event. Failures never
// escape as Go errors; they are carried inside the event.
func (c *Client) Execute(ctx context.Context, req types.Request) Outcome {
	switch r := req.(type) {
	case types.GenerateKeyRequest:
		res := c.GenerateKey(ctx, r)
		return newOutcome(state.CreateResolved{Result: res.Data}, r.Path(), res)
	case types.AddPrivateKeyRequest:
		res := c.AddPrivateKey(ctx, r)
		return newOutcome(state.SubmitResolved{Result: res.Data}, r.Path(), res)
	case types.UnlockKeyRequest:
		res := c.UnlockKey(ctx, r)
		return newOutcome(state.UnlockResolved{Result: res.Data}, r.Path(), res)
	}
	panic(fmt.Sprintf("executor: unknown request %T", req))
}

func newOutcome[T any](event state.Event, endpoint string, res Result[T]) Outcome {
	o := Outcome{
		Event:      event,
		Endpoint:   endpoint,
		State:      res.Data.State(),
		StatusCode: res.StatusCode,
		Duration:   res.Duration,
		RequestID:  res.RequestID,
	}
	var rerr *types.RequestError
	if errors.As(res.Data.Reason(), &rerr) {
		o.Err = rerr
	}
	return o
}

// HistoryEntry converts the outcome into a request log row
func (o Outcome) HistoryEntry(profile string, at time.Time) types.HistoryEntry {
	entry := types.HistoryEntry{
		ID:         o.RequestID,
		Timestamp:  at.Local().Format("2006-01-02 15:04:05"),
		Profile:    profile,
		Endpoint:   o.Endpoint,
		Outcome:    o.State.String(),
		StatusCode: o.StatusCode,
		DurationMs: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		entry.ErrorKind = o.Err.Kind.String()
	}
	return entry
}

// GenerateKey asks the signer for a new key pair. The body is the armored key as text.
func (c *Client) GenerateKey(ctx context.Context, req types.GenerateKeyRequest) Result[string] {
	return textResult(c.post(ctx, req))
}

// UnlockKey asks the signer to unlock a key. The body is a status message as text.
func (c *Client) UnlockKey(ctx context.Context, req types.UnlockKeyRequest) Result[string] {
	return textResult(c.post(ctx, req))
}

// AddPrivateKey submits a private key to the key ring and decodes the returned public key
func (c *Client) AddPrivateKey(ctx context.Context, req types.AddPrivateKeyRequest) Result[types.PublicKeyResult] {
	raw := c.post(ctx, req)
	res := Result[types.PublicKeyResult]{
		StatusCode: raw.status,
		Duration:   raw.duration,
		RequestID:  raw.requestID,
	}
	if raw.err != nil {
		res.Data = remotedata.Failure[types.PublicKeyResult](raw.err)
		return res
	}

	pk, err := decodePublicKey(raw.body)
	if err != nil {
		res.Data = remotedata.Failure[types.PublicKeyResult](err)
		return res
	}
	res.Data = remotedata.Success(pk)
	return res
}

type rawResponse struct {
	body      []byte
	status    int
	duration  time.Duration
	requestID string
	err       *types.RequestError
}

func textResult(raw rawResponse) Result[string] {
	res := Result[string]{
		StatusCode: raw.status,
		Duration:   raw.duration,
		RequestID:  raw.requestID,
	}
	if raw.err != nil {
		res.Data = remotedata.Failure[string](raw.err)
		return res
	}
	if !utf8.Valid(raw.body) {
		res.Data = remotedata.Failure[string](types.NewBadBody("response body is not valid UTF-8"))
		return res
	}
	res.Data = remotedata.Success(string(raw.body))
	return res
}

// decodePublicKey requires both fields to be present
func decodePublicKey(body []byte) (types.PublicKeyResult, *types.RequestError) {
	var shape struct {
		FingerPrint *string `json:"FingerPrint"`
		PublicKey   *string `json:"PublicKey"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return types.PublicKeyResult{}, types.NewBadBody(err.Error())
	}
	if shape.FingerPrint == nil {
		return types.PublicKeyResult{}, types.NewBadBody("expecting a field named `FingerPrint`")
	}
	if shape.PublicKey == nil {
		return types.PublicKeyResult{}, types.NewBadBody("expecting a field named `PublicKey`")
	}
	return types.AddPrivateKeyResponse{
		FingerPrint: *shape.FingerPrint,
		PublicKey:   *shape.PublicKey,
	}.PublicKeyResult(), nil
}

// post sends payload as JSON to its endpoint. Every failure is classified here.
func (c *Client) post(ctx context.Context, payload types.Request) rawResponse {
	requestID := uuid.NewString()
	endpoint, err := c.endpoint(payload.Path())
	if err != nil {
		c.logFailure(payload.Path(), requestID, 0, 0, err)
		return rawResponse{requestID: requestID, err: err}
	}

	start := time.Now()
	resp, sendErr := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(payload).
		Post(endpoint)
	duration := time.Since(start)

	if sendErr != nil {
		rerr := classifyTransportError(sendErr, endpoint)
		c.logFailure(payload.Path(), requestID, 0, duration, rerr)
		return rawResponse{duration: duration, requestID: requestID, err: rerr}
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		rerr := types.NewBadStatus(status)
		c.logFailure(payload.Path(), requestID, status, duration, rerr)
		return rawResponse{status: status, duration: duration, requestID: requestID, err: rerr}
	}

	level.Info(c.logger).Log(
		"msg", "request completed",
		"endpoint", payload.Path(),
		"request_id", requestID,
		"status", status,
		"duration", FormatDuration(duration.Milliseconds()),
	)
	return rawResponse{body: resp.Body(), status: status, duration: duration, requestID: requestID}
}

func (c *Client) logFailure(path, requestID string, status int, duration time.Duration, rerr *types.RequestError) {
	level.Warn(c.logger).Log(
		"msg", "request failed",
		"endpoint", path,
		"request_id", requestID,
		"status", status,
		"duration", FormatDuration(duration.Milliseconds()),
		"kind", rerr.Kind.String(),
		"err", rerr.Error(),
	)
}

// endpoint joins path to the base URL, refusing URLs without scheme or host
func (c *Client) endpoint(path string) (string, *types.RequestError) {
	full := strings.TrimRight(c.baseURL, "/") + path
	u, err := url.Parse(full)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", types.NewBadURL(full)
	}
	return full, nil
}

// buildTLSConfig loads optional client certificate and CA files
func buildTLSConfig(cfg *config.TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsCfg.RootCAs = pool
	}

	return tlsCfg, nil
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}
