package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure. The set is closed; handlers switch on it to pick
// the response channel and status code.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindProviderError   Kind = "provider_error"
	KindDecryptionError Kind = "decryption_error"
	// KindTransportError has no HTTP status: by the time it occurs the client
	// pipe is already broken.
	KindTransportError Kind = "transport_error"
)

type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logging. The cause is never
// part of the client-facing message.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, Status: fiber.StatusUnauthorized}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Status: fiber.StatusBadRequest}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: fiber.StatusNotFound}
}

func ProviderError(message string) *Error {
	return &Error{Kind: KindProviderError, Message: message, Status: fiber.StatusBadGateway}
}

func DecryptionError(message string) *Error {
	return &Error{Kind: KindDecryptionError, Message: message, Status: fiber.StatusBadGateway}
}

func TransportError(message string) *Error {
	return &Error{Kind: KindTransportError, Message: message}
}

// From extracts the typed error, or nil if err is not one.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr := From(err)
	return appErr != nil && appErr.Kind == kind
}

// StatusOf returns the HTTP status for err. Untyped errors map to 500.
func StatusOf(err error) int {
	if appErr := From(err); appErr != nil && appErr.Status != 0 {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}
