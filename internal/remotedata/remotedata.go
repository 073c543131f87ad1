// Package remotedata models the lifecycle of a single asynchronous request.
//
// A Data value is always in exactly one of four states. The zero value is
// NotAsked, so a freshly declared slot needs no initialisation.
//
//	NotAsked --submit--> Loading --ok--> Success(v)
//	                         \--err--> Failure(reason)
//	Success/Failure/Loading --submit--> Loading
package remotedata

import "fmt"

// State tags the variant held by a Data value
type State int

const (
	NotAsked State = iota
	Loading
	Failed
	Succeeded
)

func (s State) String() string {
	switch s {
	case NotAsked:
		return "not_asked"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Data is a closed variant over NotAsked, Loading, Failure(reason) and Success(value).
// Fields are unexported; values are only built through the constructors below.
type Data[T any] struct {
	state  State
	value  T
	reason error
}

// NewNotAsked returns a slot that has never been requested
func NewNotAsked[T any]() Data[T] {
	return Data[T]{state: NotAsked}
}

// NewLoading returns a slot with a request in flight
func NewLoading[T any]() Data[T] {
	return Data[T]{state: Loading}
}

// Failure returns a slot holding the reason a request failed
func Failure[T any](reason error) Data[T] {
	return Data[T]{state: Failed, reason: reason}
}

// Success returns a slot holding a resolved value
func Success[T any](value T) Data[T] {
	return Data[T]{state: Succeeded, value: value}
}

// State returns the variant tag
func (d Data[T]) State() State {
	return d.state
}

func (d Data[T]) IsNotAsked() bool { return d.state == NotAsked }
func (d Data[T]) IsLoading() bool  { return d.state == Loading }
func (d Data[T]) IsFailure() bool  { return d.state == Failed }
func (d Data[T]) IsSuccess() bool  { return d.state == Succeeded }

// Value returns the success payload and true, or the zero value and false
func (d Data[T]) Value() (T, bool) {
	if d.state != Succeeded {
		var zero T
		return zero, false
	}
	return d.value, true
}

// Reason returns the failure reason, nil for every other state
func (d Data[T]) Reason() error {
	if d.state != Failed {
		return nil
	}
	return d.reason
}

// WithDefault returns the success payload or def
func (d Data[T]) WithDefault(def T) T {
	if v, ok := d.Value(); ok {
		return v
	}
	return def
}

// Cases holds one handler per variant for Match
type Cases[T any, R any] struct {
	NotAsked func() R
	Loading  func() R
	Failure  func(error) R
	Success  func(T) R
}

// Match folds d into a single value. Every handler must be set.
func Match[T any, R any](d Data[T], c Cases[T, R]) R {
	switch d.state {
	case Loading:
		return c.Loading()
	case Failed:
		return c.Failure(d.reason)
	case Succeeded:
		return c.Success(d.value)
	default:
		return c.NotAsked()
	}
}

// Map transforms the success payload, leaving other variants untouched
func Map[T any, U any](d Data[T], f func(T) U) Data[U] {
	switch d.state {
	case Loading:
		return NewLoading[U]()
	case Failed:
		return Failure[U](d.reason)
	case Succeeded:
		return Success(f(d.value))
	default:
		return NewNotAsked[U]()
	}
}

func (d Data[T]) String() string {
	switch d.state {
	case Failed:
		return fmt.Sprintf("Failure(%v)", d.reason)
	case Succeeded:
		return fmt.Sprintf("Success(%v)", d.value)
	}
	return d.state.String()
}
