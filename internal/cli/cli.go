// Package cli runs the key workflows without the TUI.
//
// Each command drives the same state transitions the TUI does: edits are
// applied as events, a submit yields the request to send, and the executor
// outcome is fed back as the resolution event.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// Requester sends one request and reports how it resolved
type Requester interface {
	Execute(ctx context.Context, req types.Request) executor.Outcome
}

// Recorder stores request outcomes
type Recorder interface {
	Save(entry types.HistoryEntry) error
}

// Runner holds the state of one command invocation
type Runner struct {
	client  Requester
	history Recorder
	logger  log.Logger
	profile string
	out     io.Writer
	errOut  io.Writer
	app     state.AppState
}

// NewRunner builds a runner. history may be nil.
func NewRunner(client Requester, history Recorder, profile string, defaultBits int, out, errOut io.Writer, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		client:  client,
		history: history,
		logger:  log.With(logger, "component", "cli"),
		profile: profile,
		out:     out,
		errOut:  errOut,
		app:     state.New().WithDefaultBits(defaultBits),
	}
}

// State returns the current application state
func (r *Runner) State() state.AppState {
	return r.app
}

// GenerateOptions configures the generate command
type GenerateOptions struct {
	Identity   string
	Passphrase string
	// Bits is the key size as typed; empty keeps the default
	Bits   string
	Submit bool
	Unlock bool
	// PublicKeyOut receives the public key when Submit is set
	PublicKeyOut string
}

// AddOptions configures the add command
type AddOptions struct {
	ArmoredKey string
	Passphrase string
	Unlock     bool
	// UnlockPassphrase replaces the unlock passphrase seeded by the key ring
	// submission. Nil keeps the seeded one.
	UnlockPassphrase *string
	PublicKeyOut     string
}

// UnlockOptions configures the unlock command
type UnlockOptions struct {
	Fingerprint string
	Passphrase  string
}

// Generate creates a key and optionally chains key ring submission and unlock
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) error {
	r.edit(state.SetIdentity{Value: opts.Identity})
	r.edit(state.SetCreatePassphrase{Value: opts.Passphrase})
	if opts.Bits != "" {
		r.edit(state.SetBits{Value: opts.Bits})
		if n, err := strconv.Atoi(opts.Bits); err != nil || n < 0 {
			level.Warn(r.logger).Log("msg", "ignoring key size", "bits", opts.Bits)
			fmt.Fprintf(r.errOut, "Ignoring key size %q, using %d\n", opts.Bits, r.app.KeyCreation.Bits)
		}
	}

	if err := r.submit(ctx, state.SubmitCreate{}); err != nil {
		return err
	}
	key, _ := r.app.PrivateKey.ArmoredKey.Value()

	if !opts.Submit {
		fmt.Fprintln(r.out, key)
		return nil
	}

	if err := r.submitToKeyRing(ctx, opts.PublicKeyOut); err != nil {
		return err
	}
	if opts.Unlock {
		return r.unlock(ctx)
	}
	return nil
}

// Add submits an existing armored key to the key ring
func (r *Runner) Add(ctx context.Context, opts AddOptions) error {
	r.edit(state.SetManualKey{Value: opts.ArmoredKey})
	r.edit(state.SetPrivatePassphrase{Value: opts.Passphrase})

	if err := r.submitToKeyRing(ctx, opts.PublicKeyOut); err != nil {
		return err
	}
	if !opts.Unlock {
		return nil
	}

	if opts.UnlockPassphrase != nil {
		r.edit(state.SetUnlockPassphrase{Value: *opts.UnlockPassphrase})
	}
	return r.unlock(ctx)
}

// Unlock unlocks a key already in the key ring
func (r *Runner) Unlock(ctx context.Context, opts UnlockOptions) error {
	r.edit(state.SetFingerprint{Value: opts.Fingerprint})
	r.edit(state.SetUnlockPassphrase{Value: opts.Passphrase})
	return r.unlock(ctx)
}

func (r *Runner) submitToKeyRing(ctx context.Context, publicKeyOut string) error {
	if err := r.submit(ctx, state.SubmitToKeyRing{}); err != nil {
		return err
	}
	pk, _ := r.app.KeyRing.Value()

	fmt.Fprintf(r.out, "Fingerprint: %s\n", pk.Fingerprint)
	if publicKeyOut == "" {
		fmt.Fprintln(r.out, pk.ArmoredPublicKey)
		return nil
	}
	if err := writeFile(publicKeyOut, pk.ArmoredPublicKey); err != nil {
		return fmt.Errorf("failed to save public key: %w", err)
	}
	fmt.Fprintf(r.out, "Public key saved to %s\n", publicKeyOut)
	return nil
}

func (r *Runner) unlock(ctx context.Context) error {
	if err := r.submit(ctx, state.SubmitUnlock{}); err != nil {
		return err
	}
	display, _ := r.app.UnlockDisplay()
	fmt.Fprintln(r.out, display)
	return nil
}

func (r *Runner) edit(e state.Event) {
	r.app, _ = state.Update(r.app, e)
}

// submit applies a submit event, sends its request and applies the resolution.
// A failed resolution is returned as an error wrapping the *types.RequestError.
func (r *Runner) submit(ctx context.Context, e state.Event) error {
	next, req := state.Update(r.app, e)
	r.app = next
	if req == nil {
		return errors.New("no private key to submit")
	}

	outcome := r.client.Execute(ctx, req)
	r.app, _ = state.Update(r.app, outcome.Event)
	r.record(outcome)

	if outcome.Err != nil {
		return fmt.Errorf("%s failed: %w", req.Path(), outcome.Err)
	}
	return nil
}

func (r *Runner) record(outcome executor.Outcome) {
	if r.history == nil {
		return
	}
	if err := r.history.Save(outcome.HistoryEntry(r.profile, time.Now())); err != nil {
		level.Warn(r.logger).Log("msg", "failed to record request", "err", err)
	}
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}
