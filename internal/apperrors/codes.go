package apperrors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeAlreadyJoined     Code = "ALREADY_JOINED"
	CodeNotJoined         Code = "NOT_JOINED"
	CodeGameFull          Code = "GAME_FULL"
	CodeGameNotOpen       Code = "GAME_NOT_OPEN"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeVersionConflict   Code = "VERSION_CONFLICT"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeStoreUnavailable  Code = "STORE_UNAVAILABLE"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeAlreadyExists     Code = "ALREADY_EXISTS"
	CodeInternal          Code = "INTERNAL"
)

// HTTPStatus maps the code to the status the HTTP layer responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyJoined, CodeNotJoined, CodeGameFull, CodeGameNotOpen,
		CodeInvalidTransition, CodeVersionConflict, CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller may retry the same request unchanged.
func (c Code) Retryable() bool {
	return c == CodeStoreUnavailable || c == CodeVersionConflict
}
