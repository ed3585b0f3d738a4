package ragerr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies the user-visible failure modes of the pipeline. The
// philosophy is explicit, non-silent failure: anything that cannot be
// recovered locally propagates to the caller carrying one of these.
type Kind string

const (
	SizeLimitExceeded   Kind = "SIZE_LIMIT_EXCEEDED"
	ExtractionFailure   Kind = "EXTRACTION_FAILURE"
	EmbeddingFailure    Kind = "EMBEDDING_FAILURE"
	RateLimited         Kind = "RATE_LIMITED"
	TokenBudgetExceeded Kind = "TOKEN_BUDGET_EXCEEDED"
	NotFound            Kind = "NOT_FOUND"
)

type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration //suggested wait, only set for RateLimited
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Limited(message string, wait time.Duration, err error) *Error {
	return &Error{Kind: RateLimited, Message: message, RetryAfter: wait, Err: err}
}

// IsKind reports whether err or anything it wraps carries the kind.
func IsKind(err error, kind Kind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// HTTPStatus maps an error kind to the status code the API surfaces.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case SizeLimitExceeded:
		return http.StatusRequestEntityTooLarge
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	case TokenBudgetExceeded:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
