// internal/handlers/payment.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/checkout-session
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderID uuid.UUID `json:"order_id" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session, err := h.paymentService.CreateCheckoutSession(req.OrderID, customerID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"session_id":   session.SessionID,
		"redirect_url": session.RedirectURL,
	})
}

// GET /payments/history
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.paymentService.GetPaymentHistory(customerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /payments/webhook
//
// Stripe signs the raw body, so the payload must be read before any
// JSON binding touches it.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook payload", nil)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		utils.BadRequestResponse(c, "Missing Stripe-Signature header", nil)
		return
	}

	if err := h.paymentService.HandleWebhook(payload, signature); err != nil {
		logrus.WithError(err).Warn("stripe webhook rejected")
		utils.BadRequestResponse(c, "Webhook verification failed", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"received": true,
	})
}
