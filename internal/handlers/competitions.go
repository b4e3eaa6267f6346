package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
)

// CompetitionHandler coordinates competition HTTP handlers.
type CompetitionHandler struct {
	competitionService *services.CompetitionService
}

// NewCompetitionHandler creates a new CompetitionHandler.
func NewCompetitionHandler(competitionService *services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
	}
}

// List returns all competitions. Admin-only route.
func (h *CompetitionHandler) List(c *gin.Context) {
	competitions, err := h.competitionService.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch competitions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"competitions": competitions,
	})
}

// Create creates an inactive competition. Admin-only route.
func (h *CompetitionHandler) Create(c *gin.Context) {
	type CreateCompetitionRequest struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Prize       string    `json:"prize"`
		EndsAt      time.Time `json:"ends_at" binding:"required"`
	}

	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	competition, err := h.competitionService.CreateCompetition(services.CreateCompetitionInput{
		Name:        req.Name,
		Description: req.Description,
		Prize:       req.Prize,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, competition)
}

// GetActive returns the running competition, or null when none is active.
func (h *CompetitionHandler) GetActive(c *gin.Context) {
	competition, err := h.competitionService.GetActive()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch active competition")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"competition": competition,
	})
}

// Update edits a competition's details. Admin-only route.
func (h *CompetitionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid competition ID")
		return
	}

	type UpdateCompetitionRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Prize       *string    `json:"prize"`
		EndsAt      *time.Time `json:"ends_at"`
	}

	var req UpdateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	competition, err := h.competitionService.UpdateCompetition(id, services.UpdateCompetitionInput{
		Name:        req.Name,
		Description: req.Description,
		Prize:       req.Prize,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, competition)
}

// Activate makes one competition active, deactivating any other. Admin-only
// route.
func (h *CompetitionHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid competition ID")
		return
	}

	competition, err := h.competitionService.Activate(id)
	if err != nil {
		respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, competition)
}

// Delete removes a competition. Admin-only route.
func (h *CompetitionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid competition ID")
		return
	}

	if err := h.competitionService.Delete(id); err != nil {
		respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Competition deleted successfully",
	})
}

func respondCompetitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCompetitionNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCompetitionNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
