// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

type CartItem struct {
	BaseModel
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_customer_product"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_customer_product"`
	Quantity   int       `json:"quantity" gorm:"not null"`

	// Relationships
	Customer User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product  Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
