// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	Reference        string        `json:"reference" gorm:"size:20;uniqueIndex"`
	CustomerID       uuid.UUID     `json:"customer_id" gorm:"type:uuid;not null;index"`
	PrescriptionID   *uuid.UUID    `json:"prescription_id" gorm:"type:uuid;index"`
	Status           OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount      float64       `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	DeliveryAddress  string        `json:"delivery_address" gorm:"type:text"`
	Notes            string        `json:"notes" gorm:"type:text"`
	PaymentReference string        `json:"payment_reference,omitempty" gorm:"size:255"`
	CompletedAt      *time.Time    `json:"completed_at"`

	// Relationships
	Customer     User          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Prescription *Prescription `json:"prescription,omitempty" gorm:"foreignKey:PrescriptionID"`
	Items        []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	UnitPrice  float64   `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalPrice float64   `json:"total_price" gorm:"type:decimal(12,2);not null"`

	// Relationships
	Order   Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// CanTransitionTo reports whether the order status machine allows
// moving from the current status to next.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCompleted || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusCompleted || next == OrderStatusCancelled
	default:
		return false
	}
}
