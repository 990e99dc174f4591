// internal/services/prescription_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type PrescriptionService struct {
	db             *gorm.DB
	storageService *StorageService
}

type ReviewPrescriptionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type PrescriptionSearchParams struct {
	utils.PaginationParams
	CustomerID *uuid.UUID                 `json:"customer_id,omitempty"`
	Status     *models.PrescriptionStatus `json:"status,omitempty"`
}

func NewPrescriptionService(db *gorm.DB, storageService *StorageService) *PrescriptionService {
	return &PrescriptionService{
		db:             db,
		storageService: storageService,
	}
}

// SubmitPrescription validates and stores an uploaded prescription file
// and creates the record. Status is always pending on creation; the
// caller cannot influence it.
func (s *PrescriptionService) SubmitPrescription(customerID uuid.UUID, file multipart.File, header *multipart.FileHeader, note string) (*models.Prescription, error) {
	// Verify customer exists and is active
	var customer models.User
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("customer not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if customer.Status != models.UserStatusActive {
		return nil, errors.New("customer account is not active")
	}

	// Upload rejects anything that is not a jpeg/png/pdf within the
	// size limit; nothing is persisted on failure.
	options := s.storageService.GetDefaultUploadOptions("prescriptions")
	result, err := s.storageService.UploadFile(file, header, options)
	if err != nil {
		return nil, err
	}

	prescription := &models.Prescription{
		CustomerID:   customerID,
		ImageURL:     result.URL,
		StorageKey:   result.Key,
		CustomerNote: note,
		Status:       models.PrescriptionStatusPending,
		UploadedAt:   time.Now(),
		ReviewedAt:   nil,
	}

	if err := s.db.Create(prescription).Error; err != nil {
		// The record is the only pointer to the stored file; take the
		// upload back out rather than leaving an orphaned object.
		if cleanupErr := s.storageService.DeleteFile(result.Key); cleanupErr != nil {
			logrus.WithError(cleanupErr).WithField("key", result.Key).
				Warn("Failed to remove orphaned prescription upload")
		}
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}

	s.db.Preload("Customer").First(prescription, prescription.ID)

	return prescription, nil
}

// ApprovePrescription marks a prescription approved. Notes are
// optional. A prior decision may be overwritten as long as no order
// references the prescription yet.
func (s *PrescriptionService) ApprovePrescription(id uuid.UUID, reviewerID uuid.UUID, req *ReviewPrescriptionRequest) (*models.Prescription, error) {
	return s.review(id, reviewerID, models.PrescriptionStatusApproved, req.Notes)
}

// RejectPrescription marks a prescription rejected. Pharmacist notes
// are mandatory so the customer knows why.
func (s *PrescriptionService) RejectPrescription(id uuid.UUID, reviewerID uuid.UUID, req *ReviewPrescriptionRequest) (*models.Prescription, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, ErrMissingNotes
	}
	return s.review(id, reviewerID, models.PrescriptionStatusRejected, req.Notes)
}

func (s *PrescriptionService) review(id uuid.UUID, reviewerID uuid.UUID, status models.PrescriptionStatus, notes string) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := s.db.First(&prescription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Once an order is backed by this prescription the decision is
	// frozen; reversing it would not undo the order anyway.
	var orderCount int64
	if err := s.db.Model(&models.Order{}).Where("prescription_id = ?", id).Count(&orderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check orders: %w", err)
	}
	if orderCount > 0 {
		return nil, ErrPrescriptionInUse
	}

	now := time.Now()
	prescription.Status = status
	prescription.PharmacistNotes = notes
	prescription.ReviewedAt = &now
	prescription.ReviewedBy = &reviewerID

	if err := s.db.Save(&prescription).Error; err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}

	s.db.Preload("Customer").Preload("Reviewer").First(&prescription, id)

	return &prescription, nil
}

func (s *PrescriptionService) GetPrescription(id uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := s.db.Preload("Customer").Preload("Reviewer").First(&prescription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &prescription, nil
}

// GetImageLink resolves a viewable link for the stored prescription
// image. Prescription uploads are private S3 objects, so the link is
// presigned and short-lived; local storage serves the stored URL as is.
func (s *PrescriptionService) GetImageLink(id uuid.UUID) (string, error) {
	prescription, err := s.GetPrescription(id)
	if err != nil {
		return "", err
	}

	if s.storageService.s3Client == nil || prescription.StorageKey == "" {
		return prescription.ImageURL, nil
	}

	return s.storageService.GeneratePresignedURL(prescription.StorageKey, 15*time.Minute)
}

func (s *PrescriptionService) SearchPrescriptions(params PrescriptionSearchParams) ([]models.Prescription, int64, error) {
	query := s.db.Model(&models.Prescription{}).Preload("Customer").Preload("Reviewer")

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	allowedSortFields := []string{"created_at", "uploaded_at", "reviewed_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var prescriptions []models.Prescription
	if err := query.Find(&prescriptions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch prescriptions: %w", err)
	}

	return prescriptions, total, nil
}

// GetReviewQueue returns pending prescriptions oldest first, the order
// pharmacists work through them.
func (s *PrescriptionService) GetReviewQueue(params utils.PaginationParams) ([]models.Prescription, int64, error) {
	query := s.db.Model(&models.Prescription{}).
		Where("status = ?", models.PrescriptionStatusPending).
		Preload("Customer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending prescriptions: %w", err)
	}

	query = query.Order("uploaded_at ASC")
	query = utils.ApplyPagination(query, params)

	var prescriptions []models.Prescription
	if err := query.Find(&prescriptions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch review queue: %w", err)
	}

	return prescriptions, total, nil
}
