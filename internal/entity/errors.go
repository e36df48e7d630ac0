package entity

import "fmt"

// ErrorKind classifies every failure the resolver and its mutations can
// surface. Callers branch on the kind, never on the message text.
type ErrorKind string

const (
	ErrKindUnauthenticated     ErrorKind = "unauthenticated"
	ErrKindNotFound            ErrorKind = "not_found"
	ErrKindForbidden           ErrorKind = "forbidden"
	ErrKindSuspended           ErrorKind = "suspended"
	ErrKindIntegrityViolation  ErrorKind = "integrity_violation"
	ErrKindAlreadyProcessed    ErrorKind = "already_processed"
	ErrKindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	ErrKindValidation          ErrorKind = "validation"
)

// DomainError is the typed error carried across service boundaries.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func WrapDomainError(kind ErrorKind, message string, cause error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors are
// treated as upstream failures so transient Data Store problems never read as
// access decisions.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *DomainError
	if ok := asDomainError(err, &de); ok {
		return de.Kind
	}
	return ErrKindUpstreamUnavailable
}

func asDomainError(err error, target **DomainError) bool {
	for err != nil {
		if de, ok := err.(*DomainError); ok {
			*target = de
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
