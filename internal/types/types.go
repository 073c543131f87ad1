package types

import (
	"github.com/studiowebux/gpgdesk/internal/remotedata"
)

// DefaultKeyBits is the key size used until the user enters another one
const DefaultKeyBits = 4096

// Endpoint paths, relative to a profile base URL
const (
	GenerateKeyPath   = "/remoteSigner/gpg/generateKey"
	AddPrivateKeyPath = "/keyRing/addPrivateKey"
	UnlockKeyPath     = "/remoteSigner/gpg/unlockKey"
)

// KeyCreationParams holds the pending input of a generate request
type KeyCreationParams struct {
	Identity   string
	Passphrase string
	Bits       int
}

// NewKeyCreationParams returns empty params with the default key size
func NewKeyCreationParams() KeyCreationParams {
	return KeyCreationParams{Bits: DefaultKeyBits}
}

// PrivateKeyRecord holds a key that was either pasted or generated remotely
type PrivateKeyRecord struct {
	ArmoredKey    remotedata.Data[string]
	Passphrase    string
	PersistToDisk bool
}

// ValidPrivateKeyRecord is a PrivateKeyRecord whose key has resolved
type ValidPrivateKeyRecord struct {
	ArmoredKey    string
	Passphrase    string
	PersistToDisk bool
}

// ValidatePrivateKey projects r into a ValidPrivateKeyRecord.
// It reports false unless r.ArmoredKey is a success.
func ValidatePrivateKey(r PrivateKeyRecord) (ValidPrivateKeyRecord, bool) {
	key, ok := r.ArmoredKey.Value()
	if !ok {
		return ValidPrivateKeyRecord{}, false
	}
	return ValidPrivateKeyRecord{
		ArmoredKey:    key,
		Passphrase:    r.Passphrase,
		PersistToDisk: r.PersistToDisk,
	}, true
}

// UnlockRequest holds the unlock form and the outcome of its last request.
// The success payload of Status is the server's status text.
type UnlockRequest struct {
	Fingerprint string
	Passphrase  string
	Status      remotedata.Data[string]
}

// PublicKeyResult is returned by the key ring for a stored private key
type PublicKeyResult struct {
	Fingerprint      string
	ArmoredPublicKey string
}

// UnlockDisplay renders an unlock status the way the unlock panel shows it
func UnlockDisplay(status string) string {
	return "Unlock is: " + status
}

// Request is one of the three payloads posted to the backend
type Request interface {
	Path() string
}

// GenerateKeyRequest asks the signer to create a key pair
type GenerateKeyRequest struct {
	Identifier string `json:"Identifier"`
	Password   string `json:"Password"`
	Bits       int    `json:"Bits"`
}

func (GenerateKeyRequest) Path() string { return GenerateKeyPath }

// AddPrivateKeyRequest submits an armored private key to the key ring
type AddPrivateKeyRequest struct {
	EncryptedPrivateKey string `json:"EncryptedPrivateKey"`
	Password            string `json:"Password"`
	SaveToDisk          bool   `json:"SaveToDisk"`
}

func (AddPrivateKeyRequest) Path() string { return AddPrivateKeyPath }

// NewAddPrivateKeyRequest builds the wire payload for a validated record
func NewAddPrivateKeyRequest(r ValidPrivateKeyRecord) AddPrivateKeyRequest {
	return AddPrivateKeyRequest{
		EncryptedPrivateKey: r.ArmoredKey,
		Password:            r.Passphrase,
		SaveToDisk:          r.PersistToDisk,
	}
}

// UnlockKeyRequest asks the signer to unlock a stored key
type UnlockKeyRequest struct {
	FingerPrint string `json:"FingerPrint"`
	Password    string `json:"Password"`
}

func (UnlockKeyRequest) Path() string { return UnlockKeyPath }

// AddPrivateKeyResponse is the key ring's JSON answer
type AddPrivateKeyResponse struct {
	FingerPrint string `json:"FingerPrint"`
	PublicKey   string `json:"PublicKey"`
}

// PublicKeyResult converts the wire answer into the domain record
func (r AddPrivateKeyResponse) PublicKeyResult() PublicKeyResult {
	return PublicKeyResult{
		Fingerprint:      r.FingerPrint,
		ArmoredPublicKey: r.PublicKey,
	}
}

// HistoryEntry is one logged request outcome
type HistoryEntry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Profile    string `json:"profile"`
	Endpoint   string `json:"endpoint"`
	Outcome    string `json:"outcome"`
	ErrorKind  string `json:"errorKind,omitempty"`
	StatusCode int    `json:"statusCode"`
	DurationMs int64  `json:"durationMs"`
}
