// internal/handlers/media.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

// MediaHandler serves the editorial upload flow: cover images for blog
// posts, health articles and pages, plus product shots. Uploads land in
// public storage and come back as a URL the create/update payloads
// reference in their cover_image and images fields.
type MediaHandler struct {
	storageService *services.StorageService
}

func NewMediaHandler(storageService *services.StorageService) *MediaHandler {
	return &MediaHandler{
		storageService: storageService,
	}
}

// POST /admin/media
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	category := c.DefaultPostForm("category", "cms")
	if category != "cms" && category != "products" {
		utils.BadRequestResponse(c, "Unknown media category", gin.H{"category": category})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Media file is required", err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions(category)
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// DELETE /admin/media
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "Media key is required", nil)
		return
	}

	if err := h.storageService.DeleteFile(key); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": key,
	})
}
