// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

// CartService is the single cart abstraction: the server-side cart is
// authoritative, and a client-held local cart is absorbed through
// MergeCart at login.
type CartService struct {
	db           *gorm.DB
	orderService *OrderService
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type MergeCartRequest struct {
	Items []AddCartItemRequest `json:"items" validate:"required,dive"`
}

type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Notes           string `json:"notes,omitempty"`
}

type CartSummary struct {
	Items       []models.CartItem `json:"items"`
	TotalAmount float64           `json:"total_amount"`
	ItemCount   int               `json:"item_count"`
}

func NewCartService(db *gorm.DB, orderService *OrderService) *CartService {
	return &CartService{
		db:           db,
		orderService: orderService,
	}
}

func (s *CartService) AddItem(customerID uuid.UUID, req *AddCartItemRequest) (*CartSummary, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status != models.ProductStatusActive {
		return nil, errors.New("product is not available")
	}

	// Prescription-only products flow through the prescription order
	// path, never the cart.
	if product.PrescriptionRequired {
		return nil, ErrPrescriptionItemInCart
	}

	var item models.CartItem
	err := s.db.Where("customer_id = ? AND product_id = ?", customerID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CustomerID: customerID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.GetCart(customerID)
}

func (s *CartService) UpdateItem(customerID, productID uuid.UUID, req *UpdateCartItemRequest) (*CartSummary, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var item models.CartItem
	if err := s.db.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cart item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetCart(customerID)
}

func (s *CartService) RemoveItem(customerID, productID uuid.UUID) (*CartSummary, error) {
	result := s.db.Where("customer_id = ? AND product_id = ?", customerID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("cart item not found")
	}

	return s.GetCart(customerID)
}

func (s *CartService) GetCart(customerID uuid.UUID) (*CartSummary, error) {
	var items []models.CartItem
	if err := s.db.Where("customer_id = ?", customerID).
		Preload("Product").Preload("Product.Category").
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	summary := &CartSummary{Items: items}
	for _, item := range items {
		summary.TotalAmount += item.Product.Price * float64(item.Quantity)
		summary.ItemCount += item.Quantity
	}

	return summary, nil
}

func (s *CartService) ClearCart(customerID uuid.UUID) error {
	if err := s.db.Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeCart absorbs a client-held local cart after login. Quantities
// for products already in the server cart are summed; unknown or
// prescription-required products are skipped rather than failing the
// whole merge.
func (s *CartService) MergeCart(customerID uuid.UUID, req *MergeCartRequest) (*CartSummary, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	for _, incoming := range req.Items {
		var product models.Product
		if err := s.db.First(&product, incoming.ProductID).Error; err != nil {
			continue
		}
		if product.Status != models.ProductStatusActive || product.PrescriptionRequired {
			continue
		}

		var item models.CartItem
		err := s.db.Where("customer_id = ? AND product_id = ?", customerID, incoming.ProductID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += incoming.Quantity
			if err := s.db.Save(&item).Error; err != nil {
				return nil, fmt.Errorf("failed to merge cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CustomerID: customerID,
				ProductID:  incoming.ProductID,
				Quantity:   incoming.Quantity,
			}
			if err := s.db.Create(&item).Error; err != nil {
				return nil, fmt.Errorf("failed to merge cart item: %w", err)
			}
		default:
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	return s.GetCart(customerID)
}

// Checkout turns the cart into a pending order and clears the cart,
// all in one transaction. Stock is validated against current levels;
// the total is recomputed from catalog prices.
func (s *CartService) Checkout(customerID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Where("customer_id = ?", customerID).Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to fetch cart: %w", err)
		}

		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		items := make([]OrderItemRequest, 0, len(cartItems))
		for _, item := range cartItems {
			items = append(items, OrderItemRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		created, err := s.orderService.createOrder(tx, customerID, nil, items, req.DeliveryAddress, req.Notes)
		if err != nil {
			return err
		}

		if err := tx.Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		order = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").First(order, order.ID)

	return order, nil
}
