package common

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the concrete *Error values
// returned by services carry the caller-facing message.
var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrStorage  = errors.New("storage error")

	// Auth errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Input and collaborator errors.
	ErrValidation  = errors.New("validation error")
	ErrUpload      = errors.New("upload error")
	ErrRateLimited = errors.New("rate limited")
)

const (
	// MsgCredentials is the only message an unauthenticated caller ever sees.
	MsgCredentials = "Could not validate credentials"
	// MsgInvalidLogin is shared by the unknown-user and wrong-password paths.
	MsgInvalidLogin = "Incorrect username or password"
	// MsgUpload is returned for any failure while storing an uploaded image.
	MsgUpload = "Could not upload image"
	// MsgInternal hides storage details from callers.
	MsgInternal = "Internal server error"
)

// Error is a classified error with a message safe to show to callers.
type Error struct {
	Kind    error
	Message string
	// Fields holds per-field validation messages, keyed by JSON name.
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// NotFound reports a missing row, e.g. NotFound("Todo not found").
func NotFound(msg string) *Error { return newError(ErrNotFound, msg, nil) }

// Conflict reports a uniqueness or reference violation.
func Conflict(msg string) *Error { return newError(ErrConflict, msg, nil) }

// Forbidden reports a valid identity without the right to act.
func Forbidden(msg string) *Error { return newError(ErrForbidden, msg, nil) }

// Unauthenticated never says why the credentials were rejected.
func Unauthenticated() *Error { return newError(ErrUnauthenticated, MsgCredentials, nil) }

// InvalidLogin is returned for both an unknown username and a wrong password.
func InvalidLogin() *Error { return newError(ErrUnauthenticated, MsgInvalidLogin, nil) }

// Validation reports malformed input with optional per-field detail.
func Validation(msg string, fields map[string]string) *Error {
	e := newError(ErrValidation, msg, nil)
	e.Fields = fields
	return e
}

// Storage wraps an unexpected database fault.
func Storage(cause error) *Error { return newError(ErrStorage, MsgInternal, cause) }

// Upload wraps a blob store fault during image upload.
func Upload(cause error) *Error { return newError(ErrUpload, MsgUpload, cause) }

// RateLimited reports a throttled caller.
func RateLimited(msg string) *Error { return newError(ErrRateLimited, msg, nil) }

// Classify keeps classified errors as they are and turns anything else into
// a storage fault, so collaborator details never reach the caller.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrUnauthenticated, ErrForbidden, ErrValidation, ErrUpload, ErrRateLimited} {
		if errors.Is(err, kind) {
			return newError(kind, kind.Error(), err)
		}
	}
	return Storage(err)
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}
