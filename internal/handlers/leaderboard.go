package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
)

// LeaderboardHandler serves the ranked standings.
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	competitionService *services.CompetitionService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, competitionService *services.CompetitionService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		competitionService: competitionService,
	}
}

// Users returns the ranked user standings alongside the active competition,
// if one is running.
func (h *LeaderboardHandler) Users(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.leaderboardService.RankUsers(limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch leaderboard")
		return
	}

	competition, err := h.competitionService.GetActive()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch active competition")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":     entries,
		"competition": competition,
	})
}

// Organizations returns the ranked standings of active organizations.
func (h *LeaderboardHandler) Organizations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.leaderboardService.RankOrganizations(limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
	})
}
