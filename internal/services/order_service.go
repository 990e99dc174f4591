// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

// lockForUpdate takes a SELECT ... FOR UPDATE row lock. sqlite has no
// row locks and rejects the clause; its transactions serialize writers
// anyway, so the lock is postgres-only.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type OrderService struct {
	db *gorm.DB
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateOrderFromPrescriptionRequest struct {
	PrescriptionID  uuid.UUID          `json:"prescription_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	Notes           string             `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	CustomerID    *uuid.UUID            `json:"customer_id,omitempty"`
	Status        *models.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *models.PaymentStatus `json:"payment_status,omitempty"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrderFromPrescription builds an order against an approved
// prescription. Validation is fail-fast: the first violation wins and
// nothing is persisted. The total is recomputed from the catalog's
// current prices; any client-supplied total is ignored.
func (s *OrderService) CreateOrderFromPrescription(customerID uuid.UUID, req *CreateOrderFromPrescriptionRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var prescription models.Prescription
		if err := tx.First(&prescription, req.PrescriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPrescriptionNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if prescription.Status != models.PrescriptionStatusApproved {
			return ErrPrescriptionNotValidated
		}

		if prescription.CustomerID != customerID {
			return errors.New("prescription belongs to another customer")
		}

		created, err := s.createOrder(tx, customerID, &prescription.ID, req.Items, req.DeliveryAddress, req.Notes)
		if err != nil {
			return err
		}

		order = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").Preload("Prescription").First(order, order.ID)

	return order, nil
}

// createOrder validates the line items and persists the order plus its
// items inside the caller's transaction. When prescriptionID is set,
// every item must reference a prescription-required product; otherwise
// prescription-required products are refused.
func (s *OrderService) createOrder(tx *gorm.DB, customerID uuid.UUID, prescriptionID *uuid.UUID, items []OrderItemRequest, deliveryAddress, notes string) (*models.Order, error) {
	var totalAmount float64
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		var product models.Product
		if err := lockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		if prescriptionID != nil && !product.PrescriptionRequired {
			return nil, ErrPrescriptionNotRequired
		}

		if prescriptionID == nil && product.PrescriptionRequired {
			return nil, ErrPrescriptionItemInCart
		}

		if product.StockTracked() && item.Quantity > *product.StockQuantity {
			return nil, ErrInsufficientStock
		}

		lineTotal := product.Price * float64(item.Quantity)
		totalAmount += lineTotal

		orderItems = append(orderItems, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   item.Quantity,
			UnitPrice:  product.Price,
			TotalPrice: lineTotal,
		})
	}

	reference, err := utils.GenerateOrderReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}

	order := &models.Order{
		Reference:       reference,
		CustomerID:      customerID,
		PrescriptionID:  prescriptionID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		TotalAmount:     totalAmount,
		DeliveryAddress: deliveryAddress,
		Notes:           notes,
	}

	if err := tx.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}

	if err := tx.Create(&orderItems).Error; err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	order.Items = orderItems
	return order, nil
}

// CompleteOrder flips the order to completed and decrements stock for
// every line item, clamped at zero, in a single transaction so a
// failing decrement rolls back the whole completion.
func (s *OrderService) CompleteOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status == models.OrderStatusCompleted {
			return ErrOrderAlreadyCompleted
		}

		if !order.CanTransitionTo(models.OrderStatusCompleted) {
			return ErrInvalidStatusTransition
		}

		now := time.Now()
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity IS NOT NULL", item.ProductID).
				UpdateColumn("stock_quantity", gorm.Expr(
					"CASE WHEN stock_quantity - ? < 0 THEN 0 ELSE stock_quantity - ? END",
					item.Quantity, item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").First(&order, id)

	return &order, nil
}

// UpdateOrderStatus moves an order along the pending -> processing ->
// completed machine; pending and processing orders may be cancelled.
// Completion goes through CompleteOrder so the stock decrement runs
// exactly once.
func (s *OrderService) UpdateOrderStatus(id uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Status == models.OrderStatusCompleted {
		return s.CompleteOrder(id)
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.Status == models.OrderStatusCompleted {
		return nil, ErrOrderAlreadyCompleted
	}

	if !order.CanTransitionTo(req.Status) {
		return nil, ErrInvalidStatusTransition
	}

	if req.Status == models.OrderStatusCancelled && order.PaymentStatus == models.PaymentStatusPaid {
		return nil, errors.New("paid orders must be refunded before cancellation")
	}

	if err := s.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = req.Status
	return &order, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").
		Preload("Prescription").Preload("Customer").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &order, nil
}

func (s *OrderService) SearchOrders(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Preload("Items.Product")

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total_amount", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}
