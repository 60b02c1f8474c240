package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without type switches on concrete errors.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// ErrEmptyInput indicates a rename/create with blank required text.
	ErrEmptyInput = errors.New("name must not be empty")

	// ErrInvalidMove indicates a folder move that would create a cycle.
	// The move is rejected before any mutation.
	ErrInvalidMove = errors.New("invalid folder move")

	// ErrUnsupportedConversion indicates a (source, target) format pair
	// outside the conversion policy table. No network call is attempted.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrConversionFailed indicates local rendering produced no output.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrNoResponse indicates the conversion service timed out, the
	// transport failed, or the response carried no body.
	ErrNoResponse = errors.New("conversion service did not respond")
)

// Domain error types implementing the HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidMoveError indicates a folder move rejected by the cycle check
	InvalidMoveError struct {
		FolderID string
		TargetID string
	}

	// UnsupportedConversionError indicates a format pair outside the policy table
	UnsupportedConversionError struct {
		Source string
		Target string
	}

	// ConversionFailedError indicates a local conversion produced no output
	ConversionFailedError struct {
		Message string
	}

	// ServerFailureError carries the error text returned by the remote
	// conversion service, or the generic no-response message.
	ServerFailureError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *InvalidMoveError) Error() string {
	if e.FolderID == e.TargetID {
		return "cannot move a folder into itself"
	}
	return "cannot move a folder into one of its descendants"
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("conversion from %s to %s is not supported", e.Source, e.Target)
}

func (e *ConversionFailedError) Error() string { return e.Message }
func (e *ServerFailureError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int              { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int            { return http.StatusBadRequest }
func (e *InvalidMoveError) StatusCode() int           { return http.StatusBadRequest }
func (e *UnsupportedConversionError) StatusCode() int { return http.StatusUnprocessableEntity }
func (e *ConversionFailedError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *ServerFailureError) StatusCode() int         { return http.StatusBadGateway }

// Is implementations let errors.Is() match typed errors against sentinels.
func (e *NotFoundError) Is(target error) bool              { return target == ErrNotFound }
func (e *InvalidMoveError) Is(target error) bool           { return target == ErrInvalidMove }
func (e *UnsupportedConversionError) Is(target error) bool { return target == ErrUnsupportedConversion }
func (e *ConversionFailedError) Is(target error) bool      { return target == ErrConversionFailed }
