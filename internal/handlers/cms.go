// internal/handlers/cms.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type CMSHandler struct {
	cmsService *services.CMSService
}

func NewCMSHandler(cmsService *services.CMSService) *CMSHandler {
	return &CMSHandler{
		cmsService: cmsService,
	}
}

// Public content

// GET /content/pages/:slug
func (h *CMSHandler) GetPage(c *gin.Context) {
	page, err := h.cmsService.GetPublishedPage(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "Page")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"page": page,
	})
}

// GET /content/blog
func (h *CMSHandler) ListBlogPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.cmsService.ListBlogPosts(params, true)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(posts, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /content/blog/:slug
func (h *CMSHandler) GetBlogPost(c *gin.Context) {
	post, err := h.cmsService.GetPublishedBlogPost(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "Blog post")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"post": post,
	})
}

// GET /content/health-articles
func (h *CMSHandler) ListHealthArticles(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	articles, total, err := h.cmsService.ListHealthArticles(params, true)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /content/health-articles/:slug
func (h *CMSHandler) GetHealthArticle(c *gin.Context) {
	article, err := h.cmsService.GetPublishedHealthArticle(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "Health article")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"article": article,
	})
}

// Editorial (admin)

// GET /admin/content/pages
func (h *CMSHandler) ListAllPages(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	pages, total, err := h.cmsService.ListPages(params, false)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(pages, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/content/pages
func (h *CMSHandler) CreatePage(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	page, err := h.cmsService.CreatePage(authorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"page": page,
	})
}

// PUT /admin/content/pages/:id
func (h *CMSHandler) UpdatePage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid page ID", nil)
		return
	}

	var req services.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	page, err := h.cmsService.UpdatePage(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"page": page,
	})
}

// POST /admin/content/pages/:id/publish
func (h *CMSHandler) PublishPage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid page ID", nil)
		return
	}

	page, err := h.cmsService.PublishPage(id)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"page": page,
	})
}

// DELETE /admin/content/pages/:id
func (h *CMSHandler) DeletePage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid page ID", nil)
		return
	}

	if err := h.cmsService.DeletePage(id); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Page deleted",
	})
}

// GET /admin/content/blog
func (h *CMSHandler) ListAllBlogPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.cmsService.ListBlogPosts(params, false)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(posts, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/content/blog
func (h *CMSHandler) CreateBlogPost(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	post, err := h.cmsService.CreateBlogPost(authorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"post": post,
	})
}

// PUT /admin/content/blog/:id
func (h *CMSHandler) UpdateBlogPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog post ID", nil)
		return
	}

	var req services.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	post, err := h.cmsService.UpdateBlogPost(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"post": post,
	})
}

// POST /admin/content/blog/:id/publish
func (h *CMSHandler) PublishBlogPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog post ID", nil)
		return
	}

	post, err := h.cmsService.PublishBlogPost(id)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"post": post,
	})
}

// DELETE /admin/content/blog/:id
func (h *CMSHandler) DeleteBlogPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog post ID", nil)
		return
	}

	if err := h.cmsService.DeleteBlogPost(id); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Blog post deleted",
	})
}

// GET /admin/content/health-articles
func (h *CMSHandler) ListAllHealthArticles(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	articles, total, err := h.cmsService.ListHealthArticles(params, false)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/content/health-articles
func (h *CMSHandler) CreateHealthArticle(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.HealthArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	article, err := h.cmsService.CreateHealthArticle(authorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"article": article,
	})
}

// PUT /admin/content/health-articles/:id
func (h *CMSHandler) UpdateHealthArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid health article ID", nil)
		return
	}

	var req services.HealthArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	article, err := h.cmsService.UpdateHealthArticle(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"article": article,
	})
}

// POST /admin/content/health-articles/:id/publish
func (h *CMSHandler) PublishHealthArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid health article ID", nil)
		return
	}

	article, err := h.cmsService.PublishHealthArticle(id)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"article": article,
	})
}

// DELETE /admin/content/health-articles/:id
func (h *CMSHandler) DeleteHealthArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid health article ID", nil)
		return
	}

	if err := h.cmsService.DeleteHealthArticle(id); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Health article deleted",
	})
}
