// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

// serviceErrorResponse maps domain errors to the API error envelope.
// Unrecognized errors fall through as a generic bad request so service
// messages stay visible to the client without leaking stack detail.
func serviceErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPrescriptionNotFound):
		utils.NotFoundResponse(c, "Prescription")
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product")
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "Order")
	case errors.Is(err, services.ErrInvalidFile):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
	case errors.Is(err, services.ErrMissingNotes):
		utils.ErrorResponse(c, http.StatusBadRequest, "MISSING_NOTES", err.Error(), nil)
	case errors.Is(err, services.ErrPrescriptionNotValidated):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PRESCRIPTION_NOT_VALIDATED", err.Error(), nil)
	case errors.Is(err, services.ErrPrescriptionNotRequired):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PRESCRIPTION_NOT_REQUIRED", err.Error(), nil)
	case errors.Is(err, services.ErrPrescriptionInUse):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, services.ErrOrderAlreadyCompleted):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatusTransition):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrCartEmpty):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CART_EMPTY", err.Error(), nil)
	case errors.Is(err, services.ErrPrescriptionItemInCart):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PRESCRIPTION_ITEM_IN_CART", err.Error(), nil)
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
