// internal/services/errors.go
package services

import "errors"

// Domain failures surfaced to handlers. Infrastructure failures are
// wrapped with fmt.Errorf("...: %w", err) instead.
var (
	ErrInvalidFile              = errors.New("invalid prescription file")
	ErrMissingNotes             = errors.New("pharmacist notes are required when rejecting a prescription")
	ErrPrescriptionNotFound     = errors.New("prescription not found")
	ErrPrescriptionNotValidated = errors.New("prescription has not been approved")
	ErrPrescriptionNotRequired  = errors.New("product does not require a prescription")
	ErrPrescriptionInUse        = errors.New("prescription is already referenced by an order")
	ErrProductNotFound          = errors.New("product not found")
	ErrInsufficientStock        = errors.New("insufficient stock")
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderAlreadyCompleted    = errors.New("order is already completed")
	ErrInvalidStatusTransition  = errors.New("invalid order status transition")
	ErrCartEmpty                = errors.New("cart is empty")
	ErrPrescriptionItemInCart   = errors.New("prescription-required products cannot be added to the cart")
)
