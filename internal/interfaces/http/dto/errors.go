package dto

import (
	"net/http"

	"github.com/docflow/backend/internal/domain/shared"
)

// Transport-level error codes, for failures that never reach the domain
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when tenant identification is missing
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// errorKindHTTPStatus maps the domain rejection taxonomy to HTTP status
// codes. Reconciliation rejections are well-formed requests the current
// balances cannot honor, hence 422; lost optimistic-lock races are 409
// and safe to retry.
var errorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:     http.StatusBadRequest,
	shared.KindNotFound:       http.StatusNotFound,
	shared.KindStateConflict:  http.StatusConflict,
	shared.KindReconciliation: http.StatusUnprocessableEntity,
	shared.KindConcurrency:    http.StatusConflict,
}

// HTTPStatusForKind returns the HTTP status for a domain error kind.
// Unknown kinds map to 500.
func HTTPStatusForKind(kind shared.ErrorKind) int {
	if status, ok := errorKindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
