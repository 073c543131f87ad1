package types

import "fmt"

// ErrorKind classifies why a request failed
type ErrorKind int

const (
	NetworkError ErrorKind = iota
	Timeout
	BadURL
	BadStatus
	BadBody
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case Timeout:
		return "timeout"
	case BadURL:
		return "bad_url"
	case BadStatus:
		return "bad_status"
	case BadBody:
		return "bad_body"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// RequestError is the failure reason stored in a failed lifecycle
type RequestError struct {
	Kind   ErrorKind
	URL    string // BadURL
	Status int    // BadStatus
	Detail string // BadBody, and the transport message for NetworkError
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case Timeout:
		return "request timed out"
	case BadURL:
		return fmt.Sprintf("bad url: %s", e.URL)
	case BadStatus:
		return fmt.Sprintf("bad status: %d", e.Status)
	case BadBody:
		return fmt.Sprintf("bad body: %s", e.Detail)
	}
	if e.Detail != "" {
		return "network error: " + e.Detail
	}
	return "network error"
}

func NewNetworkError(detail string) *RequestError {
	return &RequestError{Kind: NetworkError, Detail: detail}
}

func NewTimeout() *RequestError {
	return &RequestError{Kind: Timeout}
}

func NewBadURL(url string) *RequestError {
	return &RequestError{Kind: BadURL, URL: url}
}

func NewBadStatus(code int) *RequestError {
	return &RequestError{Kind: BadStatus, Status: code}
}

func NewBadBody(detail string) *RequestError {
	return &RequestError{Kind: BadBody, Detail: detail}
}
