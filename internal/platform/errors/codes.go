// Package errors provides coded domain errors shared by the bank services and
// their transports.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Business rule rejections
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// Persistence errors
	CodeCorruptState           Code = "CORRUPT_STATE"
	CodeIOFailure              Code = "IO_FAILURE"
	CodeConcurrentModification Code = "CONCURRENT_MODIFICATION"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidTransition, CodeConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fatal reports whether the code marks a failure that aborts the operation
// and must not be presented as user-correctable.
func (c Code) Fatal() bool {
	switch c {
	case CodeCorruptState, CodeIOFailure, CodeUnknown:
		return true
	default:
		return false
	}
}
