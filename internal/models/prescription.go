// internal/models/prescription.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	BaseModel
	CustomerID      uuid.UUID          `json:"customer_id" gorm:"type:uuid;not null;index"`
	ImageURL        string             `json:"image_url" gorm:"size:500"`
	StorageKey      string             `json:"-" gorm:"size:500"`
	CustomerNote    string             `json:"customer_note" gorm:"type:text"`
	PharmacistNotes string             `json:"pharmacist_notes" gorm:"type:text"`
	Status          PrescriptionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	UploadedAt      time.Time          `json:"uploaded_at"`
	ReviewedAt      *time.Time         `json:"reviewed_at"`
	ReviewedBy      *uuid.UUID         `json:"reviewed_by" gorm:"type:uuid;index"`

	// Relationships
	Customer User   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Reviewer *User  `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	Orders   []Order `json:"orders,omitempty" gorm:"foreignKey:PrescriptionID"`
}
