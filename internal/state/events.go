package state

import (
	"fmt"

	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// Event is one input to Update. The set is closed: only the types below
// implement it.
type Event interface {
	isEvent()
}

type (
	SetIdentity          struct{ Value string }
	SetCreatePassphrase  struct{ Value string }
	SetBits              struct{ Value string }
	SubmitCreate         struct{}
	CreateResolved       struct{ Result remotedata.Data[string] }
	SetManualKey         struct{ Value string }
	SetPrivatePassphrase struct{ Value string }
	SubmitToKeyRing      struct{}
	SubmitResolved       struct {
		Result remotedata.Data[types.PublicKeyResult]
	}
	SetFingerprint      struct{ Value string }
	SetUnlockPassphrase struct{ Value string }
	SubmitUnlock        struct{}
	UnlockResolved      struct{ Result remotedata.Data[string] }
)

func (SetIdentity) isEvent()          {}
func (SetCreatePassphrase) isEvent()  {}
func (SetBits) isEvent()              {}
func (SubmitCreate) isEvent()         {}
func (CreateResolved) isEvent()       {}
func (SetManualKey) isEvent()         {}
func (SetPrivatePassphrase) isEvent() {}
func (SubmitToKeyRing) isEvent()      {}
func (SubmitResolved) isEvent()       {}
func (SetFingerprint) isEvent()       {}
func (SetUnlockPassphrase) isEvent()  {}
func (SubmitUnlock) isEvent()         {}
func (UnlockResolved) isEvent()       {}

// Update applies e to s. The returned request is non-nil only for a submit
// that must be sent.
func Update(s AppState, e Event) (AppState, types.Request) {
	switch e := e.(type) {
	case SetIdentity:
		return s.SetIdentity(e.Value), nil
	case SetCreatePassphrase:
		return s.SetCreatePassphrase(e.Value), nil
	case SetBits:
		return s.SetBits(e.Value), nil
	case SubmitCreate:
		return s.SubmitCreate()
	case CreateResolved:
		return s.OnCreateResolved(e.Result), nil
	case SetManualKey:
		return s.SetManualKey(e.Value), nil
	case SetPrivatePassphrase:
		return s.SetPrivatePassphrase(e.Value), nil
	case SubmitToKeyRing:
		return s.SubmitToKeyRing()
	case SubmitResolved:
		return s.OnSubmitResolved(e.Result), nil
	case SetFingerprint:
		return s.SetFingerprint(e.Value), nil
	case SetUnlockPassphrase:
		return s.SetUnlockPassphrase(e.Value), nil
	case SubmitUnlock:
		return s.SubmitUnlock()
	case UnlockResolved:
		return s.OnUnlockResolved(e.Result), nil
	}
	panic(fmt.Sprintf("state: unhandled event %T", e))
}
