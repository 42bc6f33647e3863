package httpx

import (
	"net/http"

	apperrors "github.com/festivo/notify-api/internal/errors"
)

// WriteAppError maps an application error onto the HTTP surface and writes it.
func WriteAppError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	errCode := "internal_error"
	retryable := false

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		code, errCode = http.StatusNotFound, "not_found"
	case apperrors.ErrCodeValidation:
		code, errCode = http.StatusBadRequest, "validation_failed"
	case apperrors.ErrCodeUnauthorized:
		code, errCode = http.StatusForbidden, "forbidden"
	case apperrors.ErrCodeConflict:
		code, errCode = http.StatusConflict, "conflict"
	case apperrors.ErrCodeTransient, apperrors.ErrCodeTimeout:
		code, errCode = http.StatusServiceUnavailable, "temporarily_unavailable"
		retryable = true
	case apperrors.ErrCodeCanceled:
		// Client went away; 499 is the de-facto status for that.
		code, errCode = 499, "request_canceled"
	case apperrors.ErrCodeInternal:
	default:
	}

	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err, Retryable: retryable})
}
