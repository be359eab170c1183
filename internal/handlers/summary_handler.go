package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeeready/internal/services"
	"rupeeready/internal/summary"
)

// SummaryHandler serves the derived financial summary.
type SummaryHandler struct {
	sessionService services.SessionServicer
	engine         *summary.Engine
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(sessionService services.SessionServicer, engine *summary.Engine) *SummaryHandler {
	return &SummaryHandler{sessionService: sessionService, engine: engine}
}

// GetSummary computes the summary from the caller's current profile
// @Summary     Get financial summary
// @Description Derive safe-to-spend, total balance, tax vault, and financial health from the current profile
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} summary.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.sessionService.GetProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Compute(profile))
}
