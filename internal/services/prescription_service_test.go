// internal/services/prescription_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/config"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type PrescriptionServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	cfg        *config.Config
	service    *PrescriptionService
	customer   *models.User
	pharmacist *models.User
}

func (s *PrescriptionServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.cfg = testConfig()

	storageService, err := NewStorageService(s.cfg)
	require.NoError(s.T(), err)

	s.service = NewPrescriptionService(s.db, storageService)
	s.customer = createTestUser(s.T(), s.db, models.UserRoleCustomer)
	s.pharmacist = createTestUser(s.T(), s.db, models.UserRolePharmacist)
}

func (s *PrescriptionServiceTestSuite) submitValid() *models.Prescription {
	file, header := newUploadFile(pngBytes(), "rx.png")
	prescription, err := s.service.SubmitPrescription(s.customer.ID, file, header, "monthly refill")
	require.NoError(s.T(), err)
	return prescription
}

func (s *PrescriptionServiceTestSuite) TestSubmitCreatesPendingRecord() {
	prescription := s.submitValid()

	assert.Equal(s.T(), models.PrescriptionStatusPending, prescription.Status)
	assert.Nil(s.T(), prescription.ReviewedAt)
	assert.Nil(s.T(), prescription.ReviewedBy)
	assert.Equal(s.T(), s.customer.ID, prescription.CustomerID)
	assert.NotEmpty(s.T(), prescription.ImageURL)
	assert.Equal(s.T(), "monthly refill", prescription.CustomerNote)
	assert.False(s.T(), prescription.UploadedAt.IsZero())
}

func (s *PrescriptionServiceTestSuite) TestSubmitRejectsWrongFileType() {
	file, header := newUploadFile([]byte("just some text, not an image"), "rx.txt")

	_, err := s.service.SubmitPrescription(s.customer.ID, file, header, "")
	assert.ErrorIs(s.T(), err, ErrInvalidFile)

	var count int64
	s.db.Model(&models.Prescription{}).Count(&count)
	assert.Zero(s.T(), count, "rejected upload must not leave a record behind")
}

func (s *PrescriptionServiceTestSuite) TestSubmitRejectsSpoofedExtension() {
	// A .png name does not make the payload a png
	file, header := newUploadFile([]byte("<html>not an image</html>"), "rx.png")

	_, err := s.service.SubmitPrescription(s.customer.ID, file, header, "")
	assert.ErrorIs(s.T(), err, ErrInvalidFile)
}

func (s *PrescriptionServiceTestSuite) TestSubmitRejectsOversizedFile() {
	file, header := newUploadFile(pngBytes(), "rx.png")
	header.Size = 11 * 1024 * 1024

	_, err := s.service.SubmitPrescription(s.customer.ID, file, header, "")
	assert.ErrorIs(s.T(), err, ErrInvalidFile)

	var count int64
	s.db.Model(&models.Prescription{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *PrescriptionServiceTestSuite) TestSubmitAcceptsJPEG() {
	file, header := newUploadFile(jpegBytes(), "rx.jpg")

	prescription, err := s.service.SubmitPrescription(s.customer.ID, file, header, "")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.PrescriptionStatusPending, prescription.Status)
}

func (s *PrescriptionServiceTestSuite) TestRejectRequiresNotes() {
	prescription := s.submitValid()

	_, err := s.service.RejectPrescription(prescription.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{Notes: "   "})
	assert.ErrorIs(s.T(), err, ErrMissingNotes)

	var reloaded models.Prescription
	require.NoError(s.T(), s.db.First(&reloaded, prescription.ID).Error)
	assert.Equal(s.T(), models.PrescriptionStatusPending, reloaded.Status)
	assert.Nil(s.T(), reloaded.ReviewedAt)
}

func (s *PrescriptionServiceTestSuite) TestRejectWithNotes() {
	prescription := s.submitValid()

	rejected, err := s.service.RejectPrescription(prescription.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{
		Notes: "dosage is illegible",
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.PrescriptionStatusRejected, rejected.Status)
	assert.Equal(s.T(), "dosage is illegible", rejected.PharmacistNotes)
	require.NotNil(s.T(), rejected.ReviewedAt)
	assert.WithinDuration(s.T(), time.Now(), *rejected.ReviewedAt, time.Minute)
	require.NotNil(s.T(), rejected.ReviewedBy)
	assert.Equal(s.T(), s.pharmacist.ID, *rejected.ReviewedBy)
}

func (s *PrescriptionServiceTestSuite) TestApproveWithoutNotes() {
	prescription := s.submitValid()

	approved, err := s.service.ApprovePrescription(prescription.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.PrescriptionStatusApproved, approved.Status)
	require.NotNil(s.T(), approved.ReviewedBy)
	assert.Equal(s.T(), s.pharmacist.ID, *approved.ReviewedBy)
}

func (s *PrescriptionServiceTestSuite) TestReviewUnknownPrescription() {
	_, err := s.service.ApprovePrescription(s.customer.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{})
	assert.ErrorIs(s.T(), err, ErrPrescriptionNotFound)
}

func (s *PrescriptionServiceTestSuite) TestDecisionFrozenOnceOrdered() {
	prescription := s.submitValid()
	_, err := s.service.ApprovePrescription(prescription.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{})
	require.NoError(s.T(), err)

	order := &models.Order{
		Reference:      "LC-TEST-000001",
		CustomerID:     s.customer.ID,
		PrescriptionID: &prescription.ID,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		TotalAmount:    100000,
	}
	require.NoError(s.T(), s.db.Create(order).Error)

	_, err = s.service.RejectPrescription(prescription.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{Notes: "changed my mind"})
	assert.ErrorIs(s.T(), err, ErrPrescriptionInUse)

	var reloaded models.Prescription
	require.NoError(s.T(), s.db.First(&reloaded, prescription.ID).Error)
	assert.Equal(s.T(), models.PrescriptionStatusApproved, reloaded.Status)
}

func (s *PrescriptionServiceTestSuite) TestReviewQueueOldestFirst() {
	first := s.submitValid()
	s.db.Model(first).Update("uploaded_at", time.Now().Add(-2*time.Hour))
	second := s.submitValid()
	s.db.Model(second).Update("uploaded_at", time.Now().Add(-1*time.Hour))

	// Approved prescriptions leave the queue
	third := s.submitValid()
	_, err := s.service.ApprovePrescription(third.ID, s.pharmacist.ID, &ReviewPrescriptionRequest{})
	require.NoError(s.T(), err)

	queue, total, err := s.service.GetReviewQueue(utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(s.T(), err)

	assert.EqualValues(s.T(), 2, total)
	require.Len(s.T(), queue, 2)
	assert.Equal(s.T(), first.ID, queue[0].ID)
	assert.Equal(s.T(), second.ID, queue[1].ID)
}

func (s *PrescriptionServiceTestSuite) TestSubmitStoresFileLocally() {
	prescription := s.submitValid()

	path := filepath.Join(s.cfg.Upload.LocalDir, filepath.FromSlash(prescription.StorageKey))
	_, err := os.Stat(path)
	assert.NoError(s.T(), err, "the uploaded file must exist on disk")
}

func (s *PrescriptionServiceTestSuite) TestFailedInsertRemovesUploadedFile() {
	require.NoError(s.T(), s.db.Migrator().DropTable(&models.Prescription{}))

	file, header := newUploadFile(pngBytes(), "rx.png")
	_, err := s.service.SubmitPrescription(s.customer.ID, file, header, "")
	require.Error(s.T(), err)

	entries, readErr := os.ReadDir(filepath.Join(s.cfg.Upload.LocalDir, "prescriptions"))
	if readErr == nil {
		assert.Empty(s.T(), entries, "a failed submission must not leave an orphaned file")
	} else {
		assert.True(s.T(), os.IsNotExist(readErr))
	}
}

func (s *PrescriptionServiceTestSuite) TestImageLinkWithoutS3ReturnsStoredURL() {
	prescription := s.submitValid()

	url, err := s.service.GetImageLink(prescription.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), prescription.ImageURL, url)

	_, err = s.service.GetImageLink(uuid.New())
	assert.ErrorIs(s.T(), err, ErrPrescriptionNotFound)
}

func TestPrescriptionServiceSuite(t *testing.T) {
	suite.Run(t, new(PrescriptionServiceTestSuite))
}
