package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeeready/internal/alerts"
	"rupeeready/internal/services"
)

// AlertHandler serves and dismisses transient alerts.
type AlertHandler struct {
	ledgerService services.LedgerServicer
	alertService  *alerts.Service
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(ledgerService services.LedgerServicer, alertService *alerts.Service) *AlertHandler {
	return &AlertHandler{ledgerService: ledgerService, alertService: alertService}
}

// ListAlerts returns the current alert list
// @Summary     List alerts
// @Description List the current transient alerts
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": h.alertService.List(userID)})
}

// RefreshAlerts regenerates the alert list from current state
// @Summary     Refresh alerts
// @Description Regenerate alerts from the current profile and recent transactions. Dismissed alerts whose conditions still hold will reappear.
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Regenerated alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/refresh [post]
func (h *AlertHandler) RefreshAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.ledgerService.RefreshAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": list})
}

// DismissAlert removes an alert from the current list
// @Summary     Dismiss alert
// @Description Remove an alert from the current list. Dismissal does not survive regeneration.
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} map[string]interface{} "Remaining alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [delete]
func (h *AlertHandler) DismissAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.Dismiss(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": h.alertService.List(userID)})
}
