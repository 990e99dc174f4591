// internal/handlers/prescription.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type PrescriptionHandler struct {
	prescriptionService *services.PrescriptionService
}

func NewPrescriptionHandler(prescriptionService *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionService: prescriptionService,
	}
}

// POST /prescriptions
func (h *PrescriptionHandler) SubmitPrescription(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Prescription image is required", err.Error())
		return
	}
	defer file.Close()

	note := c.PostForm("note")

	prescription, err := h.prescriptionService.SubmitPrescription(customerID, file, header, note)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"prescription": prescription,
	})
}

// GET /prescriptions
func (h *PrescriptionHandler) GetMyPrescriptions(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.PrescriptionSearchParams{
		PaginationParams: params,
		CustomerID:       &customerID,
	}

	if status := c.Query("status"); status != "" {
		prescriptionStatus := models.PrescriptionStatus(status)
		searchParams.Status = &prescriptionStatus
	}

	prescriptions, total, err := h.prescriptionService.SearchPrescriptions(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(prescriptions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /prescriptions/:id
func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionService.GetPrescription(id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	// Customers may only see their own prescriptions
	role, _ := utils.GetUserRoleFromContext(c)
	if role == string(models.UserRoleCustomer) && prescription.CustomerID != userID {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"prescription": prescription,
	})
}

// GET /prescriptions/:id/image
func (h *PrescriptionHandler) GetPrescriptionImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionService.GetPrescription(id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	if role == string(models.UserRoleCustomer) && prescription.CustomerID != userID {
		utils.ForbiddenResponse(c, "")
		return
	}

	url, err := h.prescriptionService.GetImageLink(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"url": url,
	})
}

// GET /prescriptions/review-queue
func (h *PrescriptionHandler) GetReviewQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	prescriptions, total, err := h.prescriptionService.GetReviewQueue(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(prescriptions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /prescriptions/all
func (h *PrescriptionHandler) SearchPrescriptions(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	searchParams := services.PrescriptionSearchParams{
		PaginationParams: params,
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			searchParams.CustomerID = &customerID
		}
	}

	if status := c.Query("status"); status != "" {
		prescriptionStatus := models.PrescriptionStatus(status)
		searchParams.Status = &prescriptionStatus
	}

	prescriptions, total, err := h.prescriptionService.SearchPrescriptions(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(prescriptions, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /prescriptions/:id/approve
func (h *PrescriptionHandler) ApprovePrescription(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid prescription ID", nil)
		return
	}

	var req services.ReviewPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	prescription, err := h.prescriptionService.ApprovePrescription(id, reviewerID, &req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"prescription": prescription,
	})
}

// POST /prescriptions/:id/reject
func (h *PrescriptionHandler) RejectPrescription(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid prescription ID", nil)
		return
	}

	var req services.ReviewPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	prescription, err := h.prescriptionService.RejectPrescription(id, reviewerID, &req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"prescription": prescription,
	})
}
