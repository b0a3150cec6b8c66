package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind enumerates the closed set of application error categories. Every
// failure raised anywhere in the service carries exactly one Kind, and each
// Kind maps to exactly one HTTP status.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthorized
	KindRequestTimeout
	KindNotFound
	KindConflict
	KindInvalidData
)

// HTTPStatus returns the external status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRequestTimeout:
		return http.StatusRequestTimeout
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ReasonPhrase returns the stable `error` string clients branch on.
func (k Kind) ReasonPhrase() string {
	return http.StatusText(k.HTTPStatus())
}

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationFailed reports structural input validation failure with
// per-field messages.
func NewValidationFailed(fields map[string]string) error {
	return &DomainError{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func NewBadRequest(message string) error {
	return &DomainError{Kind: KindBadRequest, Message: message}
}

func NewUnauthorized(message string) error {
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

func NewRequestTimeout(message string) error {
	return &DomainError{Kind: KindRequestTimeout, Message: message}
}

func NewNotFound(message string) error {
	return &DomainError{Kind: KindNotFound, Message: message}
}

func NewConflict(message string, err error) error {
	return &DomainError{Kind: KindConflict, Message: message, Err: err}
}

func NewInvalidData(message string, err error) error {
	return &DomainError{Kind: KindInvalidData, Message: message, Err: err}
}

func NewInternalError(message string, err error) error {
	return &DomainError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind carried by err, unwrapping as needed. Errors that
// carry no kind are internal.
func KindOf(err error) Kind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// ToDomainError converts any error to a DomainError. Context deadline expiry
// becomes a request timeout; everything unmapped becomes internal.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DomainError{Kind: KindRequestTimeout, Message: "Request timed out", Err: err}
	}
	return &DomainError{
		Kind:    KindInternal,
		Message: "Unexpected error: " + err.Error(),
		Err:     err,
	}
}

// Envelope is the uniform JSON error response shape.
type Envelope struct {
	Timestamp string            `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Translate renders err into its external status and response envelope. This
// is the single translation point; no other component formats error
// responses.
func Translate(err error) (int, Envelope) {
	domainErr := ToDomainError(err)
	status := domainErr.Kind.HTTPStatus()
	return status, Envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     domainErr.Kind.ReasonPhrase(),
		Message:   domainErr.Message,
		Errors:    domainErr.Fields,
	}
}
