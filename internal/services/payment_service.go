// internal/services/payment_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/config"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreateCheckoutSession builds a Stripe Checkout session from the
// order's line items and stores the session id as the order's payment
// reference. The caller redirects the customer to the returned URL.
func (s *PaymentService) CreateCheckoutSession(orderID uuid.UUID, customerID uuid.UUID) (*CheckoutSessionResponse, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.CustomerID != customerID {
		return nil, errors.New("order belongs to another customer")
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, errors.New("order is already paid")
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, errors.New("cannot pay for a cancelled order")
	}

	currency := s.config.Payment.Currency
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Product.Name),
				},
				UnitAmount: stripe.Int64(toStripeAmount(item.UnitPrice, currency)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.config.Frontend.BaseURL + "/checkout/success?order=" + order.Reference),
		CancelURL:  stripe.String(s.config.Frontend.BaseURL + "/checkout/cancel?order=" + order.Reference),
	}
	params.AddMetadata("order_id", order.ID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.db.Model(&order).Update("payment_reference", sess.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	return &CheckoutSessionResponse{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// HandleWebhook verifies and processes a Stripe webhook delivery. A
// completed checkout session marks the order paid and moves a pending
// order to processing; an expired session marks the payment failed.
// Events for unknown orders are logged and acknowledged so Stripe does
// not retry them forever.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.Payment.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse webhook payload: %w", err)
		}
		return s.markOrderPaid(sess.Metadata["order_id"])

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse webhook payload: %w", err)
		}
		return s.markOrderPaymentFailed(sess.Metadata["order_id"])

	default:
		logrus.WithField("event_type", event.Type).Debug("Ignoring unhandled Stripe event")
		return nil
	}
}

func (s *PaymentService) markOrderPaid(orderIDStr string) error {
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		logrus.WithField("order_id", orderIDStr).Warn("Webhook carried an invalid order id")
		return nil
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("order_id", orderIDStr).Warn("Webhook for unknown order")
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	}
	if order.Status == models.OrderStatusPending {
		updates["status"] = models.OrderStatusProcessing
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
	}).Info("Order payment confirmed")

	return nil
}

func (s *PaymentService) markOrderPaymentFailed(orderIDStr string) error {
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return nil
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	// A paid order cannot regress to failed; expiry events can arrive
	// after a successful completion.
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	if err := s.db.Model(&order).Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	return nil
}

func (s *PaymentService) GetPaymentHistory(customerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Where("customer_id = ? AND payment_reference != ''", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "payment_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return orders, total, nil
}

// toStripeAmount converts a price to Stripe's smallest currency unit.
// VND is a zero-decimal currency on Stripe.
func toStripeAmount(price float64, currency string) int64 {
	switch currency {
	case "vnd", "jpy", "krw":
		return int64(price)
	default:
		return int64(price * 100)
	}
}

