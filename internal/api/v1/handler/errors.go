package handler

import (
	"net/http"

	"app/internal/apperr"
)

// httpStatus maps domain error kinds onto response codes.
func httpStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidationFailed:
		return http.StatusBadRequest
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	case apperr.KindQuotaExceeded:
		return http.StatusPaymentRequired
	case apperr.KindConstraintViolation:
		return http.StatusConflict
	case apperr.KindTransportUnavailable, apperr.KindBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, msg string, err error) {
	http.Error(w, msg+": "+err.Error(), httpStatus(err))
}
