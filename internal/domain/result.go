package domain

import "fmt"

// Reason classifies why a list mutation did not take effect
type Reason int

const (
	// ReasonNone means the mutation was persisted
	ReasonNone Reason = iota
	// ReasonAlreadyPresent means add found the key already in the list
	ReasonAlreadyPresent
	// ReasonNotPresent means remove found nothing to remove
	ReasonNotPresent
	// ReasonUnavailable means the persistence medium cannot be used at all
	ReasonUnavailable
	// ReasonWriteRejected means the medium refused the write (e.g. quota)
	ReasonWriteRejected
)

// String returns a short identifier for the reason
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonAlreadyPresent:
		return "already_present"
	case ReasonNotPresent:
		return "not_present"
	case ReasonUnavailable:
		return "unavailable"
	case ReasonWriteRejected:
		return "write_rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of a list mutation. The zero value is Ok.
type Result struct {
	Reason Reason
	Err    error // Underlying medium error for Unavailable/WriteRejected
}

// Ok is the successful result
var Ok = Result{}

// Failed builds a non-Ok result
func Failed(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

// OK reports whether the mutation was persisted
func (r Result) OK() bool {
	return r.Reason == ReasonNone
}

// Message returns user-facing notification text for the result
func (r Result) Message(title string, list ListName) string {
	switch r.Reason {
	case ReasonNone:
		return fmt.Sprintf("%s updated: %s", list.Label(), title)
	case ReasonAlreadyPresent:
		return fmt.Sprintf("%s is already in %s", title, list.Label())
	case ReasonNotPresent:
		return fmt.Sprintf("%s is not in %s", title, list.Label())
	case ReasonUnavailable:
		return "Local storage is unavailable; changes cannot be saved"
	case ReasonWriteRejected:
		return fmt.Sprintf("Could not save %s (storage rejected the write)", list.Label())
	default:
		return "Unknown error"
	}
}

// Error implements error for non-Ok results so they can be returned from CLI commands
func (r Result) Error() string {
	if r.Err != nil {
		return r.Reason.String() + ": " + r.Err.Error()
	}
	return r.Reason.String()
}
