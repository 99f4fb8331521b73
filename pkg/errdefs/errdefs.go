package errdefs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the control plane. Handlers and the metadata store
// wrap these with context; transports map them to status codes with
// HTTPStatus. Comparison is by errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotADirectory        = errors.New("not a directory")
	ErrIsADirectory         = errors.New("is a directory")
	ErrNotEmpty             = errors.New("directory not empty")
	ErrInsufficientReplicas = errors.New("insufficient active storage nodes")
	ErrUnavailable          = errors.New("no active replica available")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err is or wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// NotFoundf returns a formatted error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// AlreadyExistsf returns a formatted error wrapping ErrAlreadyExists.
func AlreadyExistsf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAlreadyExists)...)
}

// InvalidArgumentf returns a formatted error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// HTTPStatus maps an error to the control-plane status code. Unrecognized
// errors are internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrNotADirectory),
		errors.Is(err, ErrIsADirectory),
		errors.Is(err, ErrNotEmpty),
		errors.Is(err, ErrInsufficientReplicas):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
