// Package state holds the application state and its transition rules.
//
// AppState is a plain value. Every transition takes the current value and
// returns the next one; nothing is mutated in place. Submit transitions also
// return the request the caller must send, or nil when the submit is refused.
package state

import (
	"strconv"

	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// AppState is the whole client state
type AppState struct {
	KeyCreation types.KeyCreationParams
	PrivateKey  types.PrivateKeyRecord
	// KeyRing is the outcome of the last key-ring submission
	KeyRing remotedata.Data[types.PublicKeyResult]
	Unlock  types.UnlockRequest
}

// New returns the startup state
func New() AppState {
	return AppState{
		KeyCreation: types.NewKeyCreationParams(),
	}
}

// WithDefaultBits returns s with the pending key size replaced by bits
func (s AppState) WithDefaultBits(bits int) AppState {
	if bits > 0 {
		s.KeyCreation.Bits = bits
	}
	return s
}

// Key creation

func (s AppState) SetIdentity(v string) AppState {
	s.KeyCreation.Identity = v
	return s
}

func (s AppState) SetCreatePassphrase(v string) AppState {
	s.KeyCreation.Passphrase = v
	return s
}

// SetBits replaces the key size with v parsed as a base-10 integer.
// Text that does not parse, or parses to a negative number, leaves it unchanged.
func (s AppState) SetBits(v string) AppState {
	bits, err := strconv.Atoi(v)
	if err != nil || bits < 0 {
		return s
	}
	s.KeyCreation.Bits = bits
	return s
}

// SubmitCreate snapshots the pending params into a generate request
func (s AppState) SubmitCreate() (AppState, types.Request) {
	req := types.GenerateKeyRequest{
		Identifier: s.KeyCreation.Identity,
		Password:   s.KeyCreation.Passphrase,
		Bits:       s.KeyCreation.Bits,
	}
	s.PrivateKey.ArmoredKey = remotedata.NewLoading[string]()
	return s, req
}

// OnCreateResolved stores a generate outcome. The private key passphrase is
// seeded from the key creation passphrase and the persist flag is cleared,
// whatever the outcome.
func (s AppState) OnCreateResolved(result remotedata.Data[string]) AppState {
	s.PrivateKey.ArmoredKey = result
	s.PrivateKey.Passphrase = s.KeyCreation.Passphrase
	s.PrivateKey.PersistToDisk = false
	return s
}

// Private key

// SetManualKey treats a pasted key as already resolved
func (s AppState) SetManualKey(v string) AppState {
	s.PrivateKey.ArmoredKey = remotedata.Success(v)
	return s
}

func (s AppState) SetPrivatePassphrase(v string) AppState {
	s.PrivateKey.Passphrase = v
	return s
}

// SubmitToKeyRing sends the resolved private key to the key ring, always
// asking it to save to disk. Without a resolved key it is a no-op and the
// returned request is nil.
func (s AppState) SubmitToKeyRing() (AppState, types.Request) {
	valid, ok := types.ValidatePrivateKey(s.PrivateKey)
	if !ok {
		return s, nil
	}
	valid.PersistToDisk = true
	s.KeyRing = remotedata.NewLoading[types.PublicKeyResult]()
	return s, types.NewAddPrivateKeyRequest(valid)
}

// OnSubmitResolved stores a key-ring outcome. On success the unlock form is
// seeded with the returned fingerprint and the key creation passphrase as it
// is at this moment.
func (s AppState) OnSubmitResolved(result remotedata.Data[types.PublicKeyResult]) AppState {
	s.KeyRing = result
	if pk, ok := result.Value(); ok {
		s.Unlock.Fingerprint = pk.Fingerprint
		s.Unlock.Passphrase = s.KeyCreation.Passphrase
	}
	return s
}

// Unlock

func (s AppState) SetFingerprint(v string) AppState {
	s.Unlock.Fingerprint = v
	return s
}

func (s AppState) SetUnlockPassphrase(v string) AppState {
	s.Unlock.Passphrase = v
	return s
}

func (s AppState) SubmitUnlock() (AppState, types.Request) {
	req := types.UnlockKeyRequest{
		FingerPrint: s.Unlock.Fingerprint,
		Password:    s.Unlock.Passphrase,
	}
	s.Unlock.Status = remotedata.NewLoading[string]()
	return s, req
}

func (s AppState) OnUnlockResolved(result remotedata.Data[string]) AppState {
	s.Unlock.Status = result
	return s
}

// UnlockDisplay returns the unlock panel text for a successful unlock
func (s AppState) UnlockDisplay() (string, bool) {
	status, ok := s.Unlock.Status.Value()
	if !ok {
		return "", false
	}
	return types.UnlockDisplay(status), true
}
