// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Slug        string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name                 string         `json:"name" gorm:"size:255;not null"`
	Description          string         `json:"description" gorm:"type:text"`
	Company              string         `json:"company" gorm:"size:255;index"`
	SKU                  string         `json:"sku" gorm:"size:50;uniqueIndex"`
	CategoryID           *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Price                float64        `json:"price" gorm:"type:decimal(12,2);not null"`
	OriginalPrice        *float64       `json:"original_price,omitempty" gorm:"type:decimal(12,2)"`
	StockQuantity        *int           `json:"stock_quantity,omitempty" gorm:"default:0"`
	PrescriptionRequired bool           `json:"prescription_required" gorm:"default:false;index"`
	Status               ProductStatus  `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Images               pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags                 pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Category   *Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	OrderItems []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:ProductID"`
}

// StockTracked reports whether inventory is managed for this product.
// A nil StockQuantity means unlimited availability.
func (p *Product) StockTracked() bool {
	return p.StockQuantity != nil
}
