package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/services"
)

// GoalHandler manages savings goals.
type GoalHandler struct {
	ledgerService services.LedgerServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(ledgerService services.LedgerServicer) *GoalHandler {
	return &GoalHandler{ledgerService: ledgerService}
}

// CreateGoalRequest represents the request payload for creating a goal.
// Amounts are in paise.
type CreateGoalRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	TargetAmount  int64  `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount int64  `json:"current_amount" binding:"omitempty,gte=0"`
	Color         string `json:"color" binding:"omitempty,hex_color"`
	SkipRefresh   bool   `json:"skip_refresh"`
}

// UpdateGoalRequest represents a partial goal update.
type UpdateGoalRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	TargetAmount  *int64  `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *int64  `json:"current_amount" binding:"omitempty,gte=0"`
	Color         *string `json:"color" binding:"omitempty,hex_color"`
}

// CreateGoal creates a savings goal
// @Summary     Create a goal
// @Description Create a savings goal. With skip_refresh the response omits the refreshed goal list.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} map[string]interface{} "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, list, err := h.ledgerService.AddGoal(userID, services.GoalInput{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Color:         req.Color,
		SkipRefresh:   req.SkipRefresh,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := gin.H{"goal": goal}
	if list != nil {
		resp["goals"] = list
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateGoal applies a partial update to a goal
// @Summary     Update a goal
// @Description Update a goal's name, amounts, or color. Returns the updated goal with the refreshed list.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Goal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [patch]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, list, err := h.ledgerService.UpdateGoal(userID, goalID, services.GoalUpdateInput{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Color:         req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal, "goals": list})
}

// ListGoals returns all goals for the caller
// @Summary     List goals
// @Description List all savings goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.ledgerService.ListGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": list})
}
