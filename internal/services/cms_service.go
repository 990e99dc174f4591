// internal/services/cms_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

// CMSService manages the editorial content: static pages, blog posts
// and health articles. Public reads only ever see published content.
type CMSService struct {
	db *gorm.DB
}

type PageRequest struct {
	Slug    string `json:"slug" validate:"required,slug"`
	Title   string `json:"title" validate:"required,min=3,max=255"`
	Content string `json:"content" validate:"required"`
}

type BlogPostRequest struct {
	Slug       string   `json:"slug" validate:"required,slug"`
	Title      string   `json:"title" validate:"required,min=3,max=255"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Content    string   `json:"content" validate:"required"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type HealthArticleRequest struct {
	Slug       string   `json:"slug" validate:"required,slug"`
	Title      string   `json:"title" validate:"required,min=3,max=255"`
	Summary    string   `json:"summary,omitempty"`
	Content    string   `json:"content" validate:"required"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func NewCMSService(db *gorm.DB) *CMSService {
	return &CMSService{db: db}
}

// Pages

func (s *CMSService) CreatePage(authorID uuid.UUID, req *PageRequest) (*models.Page, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkSlugFree(&models.Page{}, req.Slug); err != nil {
		return nil, err
	}

	page := &models.Page{
		Slug:     req.Slug,
		Title:    req.Title,
		Content:  req.Content,
		Status:   models.ContentStatusDraft,
		AuthorID: authorID,
	}

	if err := s.db.Create(page).Error; err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return page, nil
}

func (s *CMSService) UpdatePage(id uuid.UUID, req *PageRequest) (*models.Page, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var page models.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("page not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&page).Updates(map[string]interface{}{
		"slug":    req.Slug,
		"title":   req.Title,
		"content": req.Content,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}

	s.db.First(&page, id)
	return &page, nil
}

func (s *CMSService) PublishPage(id uuid.UUID) (*models.Page, error) {
	var page models.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("page not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&page).Updates(map[string]interface{}{
		"status":       models.ContentStatusPublished,
		"published_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to publish page: %w", err)
	}

	page.Status = models.ContentStatusPublished
	page.PublishedAt = &now
	return &page, nil
}

func (s *CMSService) DeletePage(id uuid.UUID) error {
	result := s.db.Delete(&models.Page{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete page: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("page not found")
	}
	return nil
}

// GetPublishedPage serves the public storefront; drafts are invisible.
func (s *CMSService) GetPublishedPage(slug string) (*models.Page, error) {
	var page models.Page
	if err := s.db.Where("slug = ? AND status = ?", slug, models.ContentStatusPublished).
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("page not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &page, nil
}

func (s *CMSService) ListPages(params utils.PaginationParams, publishedOnly bool) ([]models.Page, int64, error) {
	query := s.db.Model(&models.Page{}).Preload("Author")
	if publishedOnly {
		query = query.Where("status = ?", models.ContentStatusPublished)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ?", searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pages: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "published_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var pages []models.Page
	if err := query.Find(&pages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pages: %w", err)
	}

	return pages, total, nil
}

// Blog posts

func (s *CMSService) CreateBlogPost(authorID uuid.UUID, req *BlogPostRequest) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkSlugFree(&models.BlogPost{}, req.Slug); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       pq.StringArray(req.Tags),
		Status:     models.ContentStatusDraft,
		AuthorID:   authorID,
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	return post, nil
}

func (s *CMSService) UpdateBlogPost(id uuid.UUID, req *BlogPostRequest) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var post models.BlogPost
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blog post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&post).Updates(map[string]interface{}{
		"slug":        req.Slug,
		"title":       req.Title,
		"excerpt":     req.Excerpt,
		"content":     req.Content,
		"cover_image": req.CoverImage,
		"tags":        pq.StringArray(req.Tags),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	s.db.First(&post, id)
	return &post, nil
}

func (s *CMSService) PublishBlogPost(id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blog post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&post).Updates(map[string]interface{}{
		"status":       models.ContentStatusPublished,
		"published_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to publish blog post: %w", err)
	}

	post.Status = models.ContentStatusPublished
	post.PublishedAt = &now
	return &post, nil
}

func (s *CMSService) DeleteBlogPost(id uuid.UUID) error {
	result := s.db.Delete(&models.BlogPost{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete blog post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("blog post not found")
	}
	return nil
}

func (s *CMSService) GetPublishedBlogPost(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.Where("slug = ? AND status = ?", slug, models.ContentStatusPublished).
		Preload("Author").First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("blog post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &post, nil
}

func (s *CMSService) ListBlogPosts(params utils.PaginationParams, publishedOnly bool) ([]models.BlogPost, int64, error) {
	query := s.db.Model(&models.BlogPost{}).Preload("Author")
	if publishedOnly {
		query = query.Where("status = ?", models.ContentStatusPublished)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "published_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch blog posts: %w", err)
	}

	return posts, total, nil
}

// Health articles

func (s *CMSService) CreateHealthArticle(authorID uuid.UUID, req *HealthArticleRequest) (*models.HealthArticle, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkSlugFree(&models.HealthArticle{}, req.Slug); err != nil {
		return nil, err
	}

	article := &models.HealthArticle{
		Slug:       req.Slug,
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       pq.StringArray(req.Tags),
		Status:     models.ContentStatusDraft,
		AuthorID:   authorID,
	}

	if err := s.db.Create(article).Error; err != nil {
		return nil, fmt.Errorf("failed to create health article: %w", err)
	}

	return article, nil
}

func (s *CMSService) UpdateHealthArticle(id uuid.UUID, req *HealthArticleRequest) (*models.HealthArticle, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var article models.HealthArticle
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("health article not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&article).Updates(map[string]interface{}{
		"slug":        req.Slug,
		"title":       req.Title,
		"summary":     req.Summary,
		"content":     req.Content,
		"cover_image": req.CoverImage,
		"tags":        pq.StringArray(req.Tags),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update health article: %w", err)
	}

	s.db.First(&article, id)
	return &article, nil
}

func (s *CMSService) PublishHealthArticle(id uuid.UUID) (*models.HealthArticle, error) {
	var article models.HealthArticle
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("health article not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&article).Updates(map[string]interface{}{
		"status":       models.ContentStatusPublished,
		"published_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to publish health article: %w", err)
	}

	article.Status = models.ContentStatusPublished
	article.PublishedAt = &now
	return &article, nil
}

func (s *CMSService) DeleteHealthArticle(id uuid.UUID) error {
	result := s.db.Delete(&models.HealthArticle{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete health article: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("health article not found")
	}
	return nil
}

func (s *CMSService) GetPublishedHealthArticle(slug string) (*models.HealthArticle, error) {
	var article models.HealthArticle
	if err := s.db.Where("slug = ? AND status = ?", slug, models.ContentStatusPublished).
		Preload("Author").First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("health article not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &article, nil
}

func (s *CMSService) ListHealthArticles(params utils.PaginationParams, publishedOnly bool) ([]models.HealthArticle, int64, error) {
	query := s.db.Model(&models.HealthArticle{}).Preload("Author")
	if publishedOnly {
		query = query.Where("status = ?", models.ContentStatusPublished)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count health articles: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "published_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var articles []models.HealthArticle
	if err := query.Find(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch health articles: %w", err)
	}

	return articles, total, nil
}

func (s *CMSService) checkSlugFree(model interface{}, slug string) error {
	var count int64
	if err := s.db.Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return errors.New("slug already in use")
	}
	return nil
}
