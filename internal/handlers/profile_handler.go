package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/services"
)

// ProfileHandler handles profile reads and settings updates.
type ProfileHandler struct {
	sessionService services.SessionServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessionService services.SessionServicer) *ProfileHandler {
	return &ProfileHandler{sessionService: sessionService}
}

// UpdateProfileRequest represents a partial profile update. Absent fields are
// left untouched.
type UpdateProfileRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	DarkMode             *bool   `json:"dark_mode"`
	OnboardingCompleted  *bool   `json:"onboarding_completed"`
	UserType             *string `json:"user_type" binding:"omitempty,user_type"`
	MonthlyIncome        *int64  `json:"monthly_income" binding:"omitempty,gte=0"`
	SkipRefresh          bool    `json:"skip_refresh"`
}

// GetProfile returns the caller's profile
// @Summary     Get profile
// @Description Get the caller's financial profile. Profile is null when none is readable yet.
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile applies a partial update to the caller's profile
// @Summary     Update profile
// @Description Update profile settings. With skip_refresh the response is the locally merged state without a re-read.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.sessionService.UpdateProfile(userID, services.ProfileUpdateInput{
		NotificationsEnabled: req.NotificationsEnabled,
		DarkMode:             req.DarkMode,
		OnboardingCompleted:  req.OnboardingCompleted,
		UserType:             req.UserType,
		MonthlyIncome:        req.MonthlyIncome,
		SkipRefresh:          req.SkipRefresh,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
