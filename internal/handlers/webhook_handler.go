package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/models"
	"rupeeready/internal/money"
	"rupeeready/internal/services"
)

// WebhookHandler receives income notifications from payment platforms.
// Protected by the X-API-Key middleware, not a user session.
type WebhookHandler struct {
	ledgerService services.LedgerServicer
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(ledgerService services.LedgerServicer) *WebhookHandler {
	return &WebhookHandler{ledgerService: ledgerService}
}

// IncomeWebhookRequest is the payload payment platforms post. Amount is a
// decimal rupee string, e.g. "2500.00".
type IncomeWebhookRequest struct {
	UserID      string `json:"user_id" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
	Source      string `json:"source" binding:"max=50"`
	Description string `json:"description" binding:"max=500"`
}

// ReceiveIncome records income reported by an external platform
// @Summary     Income webhook
// @Description Record income posted by a payment platform. The configured tax share is reserved into the vault.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string true "Webhook API key"
// @Param       request body IncomeWebhookRequest true "Income details"
// @Success     201 {object} map[string]interface{} "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /webhook/income [post]
func (h *WebhookHandler) ReceiveIncome(c *gin.Context) {
	var req IncomeWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if amount <= 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive"))
		return
	}

	category := req.Source
	if category == "" {
		category = "platform"
	}

	result, err := h.ledgerService.AddTransaction(context.Background(), req.UserID, services.TransactionInput{
		Type:        models.TransactionTypeIncome,
		Amount:      amount,
		Category:    category,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction": result.Transaction,
		"profile":     result.Profile,
	})
}
