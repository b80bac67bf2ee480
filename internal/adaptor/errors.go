package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"event-checkin/internal/usecase"
	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps usecase errors onto the response envelope.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		utils.ResponseBadRequest(w, verr.Error(), verr.Fields)
	case errors.Is(err, usecase.ErrEventNotFound),
		errors.Is(err, usecase.ErrRegistrationNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidOrExpiredOTP),
		errors.Is(err, usecase.ErrAlreadyCheckedIn),
		errors.Is(err, usecase.ErrAlreadyCheckedOut),
		errors.Is(err, usecase.ErrCheckInRequired):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrEventFull),
		errors.Is(err, usecase.ErrDuplicateRegistration),
		errors.Is(err, usecase.ErrEmailExists):
		utils.ResponseConflict(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrSignupDisabled):
		utils.ResponseForbidden(w, err.Error())
	default:
		log.Error("Unhandled service error", zap.String("operation", operation), zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
