package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/history"
	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// fakeRequester records requests and answers them with canned outcomes
type fakeRequester struct {
	mu       sync.Mutex
	requests []types.Request
	// respond builds the outcome for a request; defaults to a success per endpoint
	respond func(types.Request) executor.Outcome
}

func (f *fakeRequester) Execute(_ context.Context, req types.Request) executor.Outcome {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(req)
	}
	out := defaultOutcome(req)
	out.RequestID = fmt.Sprintf("req-%d", n)
	return out
}

func (f *fakeRequester) last() types.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func defaultOutcome(req types.Request) executor.Outcome {
	switch req.(type) {
	case types.GenerateKeyRequest:
		return executor.Outcome{
			Event:      state.CreateResolved{Result: remotedata.Success("KEYDATA")},
			Endpoint:   types.GenerateKeyPath,
			State:      remotedata.Succeeded,
			StatusCode: 200,
		}
	case types.AddPrivateKeyRequest:
		return executor.Outcome{
			Event: state.SubmitResolved{Result: remotedata.Success(types.PublicKeyResult{
				Fingerprint:      "ABCD1234",
				ArmoredPublicKey: "-----BEGIN PGP PUBLIC KEY BLOCK-----\nPUB\n-----END PGP PUBLIC KEY BLOCK-----",
			})},
			Endpoint:   types.AddPrivateKeyPath,
			State:      remotedata.Succeeded,
			StatusCode: 200,
		}
	default:
		return executor.Outcome{
			Event:      state.UnlockResolved{Result: remotedata.Success("unlocked")},
			Endpoint:   types.UnlockKeyPath,
			State:      remotedata.Succeeded,
			StatusCode: 200,
		}
	}
}

// failedOutcome answers any request with rerr
func failedOutcome(req types.Request, rerr *types.RequestError) executor.Outcome {
	out := executor.Outcome{
		Endpoint:   req.Path(),
		State:      remotedata.Failed,
		Err:        rerr,
		StatusCode: rerr.Status,
		RequestID:  "req-failed",
	}
	switch req.(type) {
	case types.GenerateKeyRequest:
		out.Event = state.CreateResolved{Result: remotedata.Failure[string](rerr)}
	case types.AddPrivateKeyRequest:
		out.Event = state.SubmitResolved{Result: remotedata.Failure[types.PublicKeyResult](rerr)}
	default:
		out.Event = state.UnlockResolved{Result: remotedata.Failure[string](rerr)}
	}
	return out
}

// CreateTestModel creates a Model backed by a temporary request log
func CreateTestModel(t *testing.T, client Requester) *Model {
	t.Helper()

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create history manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	m, err := New(Options{
		Client:  client,
		History: mgr,
		Profile: "test",
		SaveDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}

	return &m
}

// press sends a key to the model and returns the resulting command
func press(m *Model, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

// typeText types s into the focused field
func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// replaceText clears the focused field and types s
func replaceText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if s != "" {
		typeText(m, s)
	}
}

// drain runs cmd and feeds the application messages it produces back into m.
// Widget messages such as cursor blinks are dropped.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case outcomeMsg, historyLoadedMsg, statusMsg, errorMsg:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
