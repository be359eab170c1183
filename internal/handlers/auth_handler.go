package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/models"
	"rupeeready/internal/services"
)

// AuthHandler handles registration, sign-in, and sign-out.
type AuthHandler struct {
	sessionService services.SessionServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessionService services.SessionServicer) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

// RegisterRequest represents the request payload for registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

// LoginRequest represents the request payload for password sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest represents the request payload for federated sign-in
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// AuthResponse represents the full sign-in state returned synchronously
type AuthResponse struct {
	User      *models.User    `json:"user"`
	Profile   *models.Profile `json:"profile"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	IsNewUser bool            `json:"is_new_user"`
}

func newAuthResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		User:      result.User,
		Profile:   result.Profile,
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		IsNewUser: result.IsNewUser,
	}
}

// Register creates a new password identity
// @Summary     Register
// @Description Create a new account with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration details"
// @Success     201 {object} AuthResponse "Account created and signed in"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.sessionService.Register(services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

// Login signs in with email and password
// @Summary     Login
// @Description Sign in with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} AuthResponse "Signed in"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.sessionService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

// LoginWithGoogle signs in with a Google ID token
// @Summary     Login with Google
// @Description Sign in with a verified Google ID token, creating the account on first sight
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleLoginRequest true "ID token"
// @Success     200 {object} AuthResponse "Signed in"
// @Failure     401 {object} ErrorResponse "Token could not be verified"
// @Router      /auth/google [post]
func (h *AuthHandler) LoginWithGoogle(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.sessionService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

// Logout ends the current session
// @Summary     Logout
// @Description End the current session
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Signed out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sessionService.Logout(sessionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
