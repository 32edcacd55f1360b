package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgInvalidRequest   = "Invalid request"
	msgNotEnoughTickets = "Not enough tickets available"
	msgHoldUnavailable  = "Hold expired or not found"
)

// decodeAndValidate writes a 400 and returns false when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, msgInvalidRequest, map[string]string{"body": "Invalid JSON body"})
		return false
	}
	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgInvalidRequest, validationErrors)
		return false
	}
	return true
}

// handleServiceError maps domain errors to status codes. Internal causes are
// logged, never echoed.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *entity.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("fields", utils.FormatValidationErrors(validationErr.Fields)))
		utils.ResponseBadRequest(w, msgInvalidRequest, validationErr.Fields)

	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrInvalidTier),
		errors.Is(err, entity.ErrInvalidQuantity):
		log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, msgInvalidRequest, nil)

	case errors.Is(err, entity.ErrInsufficientInventory):
		log.Info(operation+" failed - not enough tickets", zap.Error(err))
		utils.ResponseConflict(w, msgNotEnoughTickets)

	case errors.Is(err, entity.ErrHoldNotFound), errors.Is(err, entity.ErrHoldExpired):
		log.Info(operation+" failed - hold unavailable", zap.Error(err))
		utils.ResponseConflict(w, msgHoldUnavailable)

	default:
		log.Error("Internal error during "+operation, zap.Error(err))
		utils.ResponseInternalError(w)
	}
}
