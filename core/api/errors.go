package api

import (
	"errors"
	"fmt"
)

// Kind classifies a remote failure for presentation and retry policy.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindAuth
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// RemoteError is a failed call to the remote scheduling service. Local state
// is never mutated on a RemoteError: the caller retries against intact edits.
type RemoteError struct {
	Status int
	Kind   Kind
	Msg    string
}

func (e *RemoteError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("remote %s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("remote %s (status %d): %s", e.Kind, e.Status, e.Msg)
}

// Classify maps an HTTP status to an error kind.
func Classify(status int) Kind {
	switch {
	case status == 400 || status == 422:
		return KindInvalid
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status >= 500:
		return KindUnavailable
	default:
		return KindInternal
	}
}

// NewRemoteError builds a classified RemoteError from an HTTP status.
func NewRemoteError(status int, msg string) *RemoteError {
	return &RemoteError{Status: status, Kind: Classify(status), Msg: msg}
}

// IsKind reports whether err wraps a RemoteError of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == kind
}
