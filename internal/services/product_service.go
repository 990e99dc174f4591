// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name                 string     `json:"name" validate:"required,min=3,max=255"`
	Description          string     `json:"description,omitempty"`
	Company              string     `json:"company,omitempty"`
	SKU                  string     `json:"sku,omitempty"`
	CategoryID           *uuid.UUID `json:"category_id,omitempty"`
	Price                float64    `json:"price" validate:"required,min=0.01"`
	OriginalPrice        *float64   `json:"original_price,omitempty"`
	StockQuantity        *int       `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	PrescriptionRequired bool       `json:"prescription_required"`
	Images               []string   `json:"images,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
}

type UpdateProductRequest struct {
	Name          string               `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description   string               `json:"description,omitempty"`
	Company       string               `json:"company,omitempty"`
	CategoryID    *uuid.UUID           `json:"category_id,omitempty"`
	Price         float64              `json:"price,omitempty" validate:"omitempty,min=0.01"`
	OriginalPrice *float64             `json:"original_price,omitempty"`
	Images        []string             `json:"images,omitempty"`
	Tags          []string             `json:"tags,omitempty"`
	Status        models.ProductStatus `json:"status,omitempty"`
}

type AdjustStockRequest struct {
	StockQuantity int `json:"stock_quantity" validate:"min=0"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID           *uuid.UUID            `json:"category_id,omitempty"`
	Status               *models.ProductStatus `json:"status,omitempty"`
	PriceMin             *float64              `json:"price_min,omitempty"`
	PriceMax             *float64              `json:"price_max,omitempty"`
	PrescriptionRequired *bool                 `json:"prescription_required,omitempty"`
	Tags                 []string              `json:"tags,omitempty"`
	InStock              *bool                 `json:"in_stock,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("category not found")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	product := &models.Product{
		Name:                 req.Name,
		Description:          req.Description,
		Company:              req.Company,
		SKU:                  req.SKU,
		CategoryID:           req.CategoryID,
		Price:                req.Price,
		OriginalPrice:        req.OriginalPrice,
		StockQuantity:        req.StockQuantity,
		PrescriptionRequired: req.PrescriptionRequired,
		Status:               models.ProductStatusActive,
		Images:               req.Images,
		Tags:                 req.Tags,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, product.ID)

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.Preload("Category").First(&product, id)

	return &product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Products referenced by completed orders keep their history; soft
	// delete hides them from the catalog without breaking joins.
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// AdjustStock sets the absolute stock level, e.g. after a physical
// inventory count.
func (s *ProductService) AdjustStock(id uuid.UUID, req *AdjustStockRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Update("stock_quantity", req.StockQuantity).Error; err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	product.StockQuantity = &req.StockQuantity
	return &product, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		// Default to active products only
		query = query.Where("status = ?", models.ProductStatusActive)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(company) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.PrescriptionRequired != nil {
		query = query.Where("prescription_required = ?", *params.PrescriptionRequired)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(params.Tags))
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("stock_quantity IS NULL OR stock_quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Where("original_price IS NOT NULL AND original_price > price").
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	return products, nil
}

// Category management

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,slug"`
	Description string `json:"description,omitempty"`
}

func (s *ProductService) CreateCategory(req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Category
	if err := s.db.Where("slug = ? OR name = ?", req.Slug, req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("category with this name or slug already exists")
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *ProductService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return categories, nil
}
