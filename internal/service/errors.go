package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyPublished = errors.New("already published")
	ErrInvalidMedia     = errors.New("invalid media")
	ErrStorage          = errors.New("storage failure")
)

// Error carries a human readable message on top of one of the sentinel
// errors above. errors.Is(err, ErrNotFound) and friends see through it.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func storageError(message string, err error) error {
	return &Error{Kind: ErrStorage, Message: message, Err: err}
}

// Code returns the stable machine readable reason for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidSchedule):
		return "invalid_schedule"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyPublished):
		return "already_published"
	case errors.Is(err, ErrInvalidMedia):
		return "invalid_media"
	default:
		return "storage_failure"
	}
}

// Message returns the client facing message for err. Storage failures never
// expose the underlying error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(err, ErrStorage) {
		return e.Message
	}
	return "internal server error"
}
