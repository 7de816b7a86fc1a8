package dto

import (
	"net/http"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Error codes used by the HTTP layer itself. Domain errors carry their
// own codes and are passed through unchanged.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidParam = "INVALID_PARAMETER"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// kindHTTPStatus maps domain error kinds to HTTP status codes. Invalid
// state transitions are client errors on a valid resource, hence 422.
var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindConflict:     http.StatusConflict,
	shared.KindInvalidState: http.StatusUnprocessableEntity,
	shared.KindIntegrity:    http.StatusInternalServerError,
}

// DomainErrorStatus returns the HTTP status for a domain error kind
func DomainErrorStatus(kind shared.ErrorKind) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
