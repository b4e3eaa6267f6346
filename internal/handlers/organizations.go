package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/dto"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
)

// OrganizationHandler coordinates organization HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// ListOrganizations returns all organizations. Contact details only appear
// for admin viewers.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.ListOrganizations()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch organizations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": dto.ToOrganizationDTOs(orgs, h.viewerIsAdmin(c)),
	})
}

// GetOrganization returns an organization by ID.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.orgService.GetOrganization(orgID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, h.viewerIsAdmin(c)))
}

// UpdateOrganization updates an organization's profile. Admin-only route.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	type UpdateOrganizationRequest struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		ContactEmail *string `json:"contact_email"`
		Status       *string `json:"status"`
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateOrganizationInput{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	}
	if req.Status != nil {
		status := models.OrganizationStatus(*req.Status)
		switch status {
		case models.OrganizationActive, models.OrganizationInactive:
			input.Status = &status
		default:
			apierrors.BadRequest(c, "Invalid organization status")
			return
		}
	}

	org, err := h.orgService.UpdateOrganization(orgID, input)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, true))
}

// ListMembers returns the users affiliated with an organization. Admin-only
// route.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	members, err := h.orgService.ListMembers(orgID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	dtos := make([]dto.UserDTO, len(members))
	for i, member := range members {
		dtos[i] = dto.ToUserDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dtos,
	})
}

func (h *OrganizationHandler) viewerIsAdmin(c *gin.Context) bool {
	user, ok := middleware.GetCurrentUser(c)
	return ok && user.IsAdmin()
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
