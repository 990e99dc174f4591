// internal/services/testutil_test.go
package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/config"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Prescription{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Page{},
		&models.BlogPost{},
		&models.HealthArticle{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Port: "8080",
		},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Payment: config.PaymentConfig{
			Currency: "vnd",
		},
		Upload: config.UploadConfig{
			PrescriptionMaxSize: 10 * 1024 * 1024,
			MediaMaxSize:        5 * 1024 * 1024,
			LocalDir:            filepath.Join(os.TempDir(), "longchau-uploads", uuid.New().String()[:8]),
		},
		Frontend: config.FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username: fmt.Sprintf("user-%s", uuid.New().String()[:8]),
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, price float64, stock *int, prescriptionRequired bool) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:                 fmt.Sprintf("Product %s", uuid.New().String()[:8]),
		SKU:                  uuid.New().String()[:12],
		Price:                price,
		StockQuantity:        stock,
		PrescriptionRequired: prescriptionRequired,
		Status:               models.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)

	return product
}

func intPtr(v int) *int {
	return &v
}

// memFile adapts an in-memory payload to multipart.File.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newUploadFile(content []byte, filename string) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(content)}, &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(content)),
	}
}

func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x01}, 64)...)
}

func jpegBytes() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x02}, 64)...)
}
