package domain

import (
	"errors"
	"fmt"
)

// DomainError is a structured error carrying a stable code, a message, and
// optionally details and a wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is compares by code, ignoring details/cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a sentinel DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of e with Details set.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithCause returns a copy of e wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

// IsDomainError reports whether err is a DomainError with the given code.
// An empty code only checks that err is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the DomainError code from err, or "" if err is not
// a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Error kinds from the node/command contract (spec §7).
var (
	// ErrMalformedNode indicates a node payload could not be decoded.
	ErrMalformedNode = NewDomainError("CK-NODE-4000", "malformed node payload")

	// ErrNotConnected indicates a command was received while the manager
	// is not in the Connected state.
	ErrNotConnected = NewDomainError("CK-MGR-5030", "not connected to coordination store")

	// ErrDuplicateNode indicates AddNode was called for an id already
	// present among the members.
	ErrDuplicateNode = NewDomainError("CK-MGR-4090", "node id already exists")

	// errStoreError is the sentinel StoreError wraps; always carries a
	// cause via NewStoreError, never surfaced bare.
	errStoreError = NewDomainError("CK-STORE-5001", "coordination store error")
)

// NewStoreError wraps a coordination-store client failure for a caller.
func NewStoreError(op string, cause error) *DomainError {
	return errStoreError.WithDetails(op).WithCause(cause)
}
