package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
	"github.com/jleignadier/nueva-generacion-sub000/internal/storage"
	"github.com/jleignadier/nueva-generacion-sub000/internal/utils"
	"go.uber.org/zap"
)

// DonationHandler coordinates donation HTTP handlers.
type DonationHandler struct {
	donationService *services.DonationService
	uploader        storage.Uploader
	logger          *zap.Logger
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *services.DonationService, uploader storage.Uploader, logger *zap.Logger) *DonationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationHandler{
		donationService: donationService,
		uploader:        uploader,
		logger:          logger,
	}
}

// Submit accepts a multipart donation submission with its receipt image. The
// receipt is validated and stored before any row is created; a rejected
// submission leaves no orphaned blob behind.
func (h *DonationHandler) Submit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if h.uploader == nil {
		apierrors.DependencyFailed(c, "Receipt storage is not configured")
		return
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		apierrors.BadRequest(c, "Amount must be a number greater than zero")
		return
	}

	var eventID *uint64
	if eventIDStr := c.PostForm("event_id"); eventIDStr != "" {
		id, err := strconv.ParseUint(eventIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid event_id")
			return
		}
		eventID = &id
	}
	attributeToOrg := c.PostForm("attribute_to_org") == "true"

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		apierrors.BadRequest(c, "A receipt image is required")
		return
	}
	if err := storage.ValidateImage(fileHeader, constants.MaxUploadSize); err != nil {
		respondDonationError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Could not read the receipt file")
		return
	}
	defer file.Close()

	result, err := h.uploader.UploadReceipt(c.Request.Context(), file, fileHeader)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	donation, err := h.donationService.Submit(services.SubmitDonationInput{
		DonorID:        userID,
		Amount:         amount,
		EventID:        eventID,
		AttributeToOrg: attributeToOrg,
		ReceiptURL:     result.URL,
		ReceiptPath:    result.Path,
	})
	if err != nil {
		// Submission failed after the blob was stored; clean it up.
		if delErr := h.uploader.Delete(context.Background(), result.Path); delErr != nil {
			h.logger.Warn("failed to delete orphaned receipt",
				zap.String("path", result.Path),
				zap.Error(delErr),
			)
		}
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donation)
}

// GetDonation returns a donation. Donors see their own submissions; admins
// see everything.
func (h *DonationHandler) GetDonation(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	donationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid donation ID")
		return
	}

	donation, err := h.donationService.GetDonation(donationID)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	if donation.DonorID != user.ID && !user.IsAdmin() {
		apierrors.Forbidden(c, "You may only view your own donations")
		return
	}

	c.JSON(http.StatusOK, donation)
}

// ListDonations returns donations. Non-admins are always scoped to their own
// submissions regardless of the filters they send.
func (h *DonationHandler) ListDonations(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	filter := repository.DonationFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.DonationStatus(statusStr)
		switch status {
		case models.DonationPending, models.DonationApproved, models.DonationRejected:
			filter.Status = &status
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}
	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		id, err := strconv.ParseUint(eventIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid event_id filter")
			return
		}
		filter.EventID = &id
	}

	if user.IsAdmin() {
		if donorIDStr := c.Query("donor_id"); donorIDStr != "" {
			id, err := strconv.ParseUint(donorIDStr, 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid donor_id filter")
				return
			}
			filter.DonorID = &id
		}
	} else {
		donorID := user.ID
		filter.DonorID = &donorID
	}

	donations, total, err := h.donationService.ListDonations(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch donations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donations": donations,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Approve moves a pending donation to approved, crediting funding and points.
// Admin-only route.
func (h *DonationHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject moves a pending donation to rejected. Admin-only route.
func (h *DonationHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *DonationHandler) decide(c *gin.Context, approve bool) {
	reviewerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	donationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid donation ID")
		return
	}

	var donation *models.Donation
	if approve {
		donation, err = h.donationService.Approve(donationID, reviewerID, time.Now())
	} else {
		donation, err = h.donationService.Reject(donationID, reviewerID, time.Now())
	}
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

func respondDonationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDonationNotFound),
		errors.Is(err, services.ErrDonationEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDonationAlreadyDecided):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidDonationAmount),
		errors.Is(err, services.ErrReceiptRequired),
		errors.Is(err, services.ErrNoOrganizationToCredit),
		errors.Is(err, services.ErrOrganizationInactive),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnsupportedType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrStorageUnavailable):
		apierrors.DependencyFailed(c, "Receipt storage is temporarily unavailable")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
