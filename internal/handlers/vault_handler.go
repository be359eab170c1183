package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/models"
	"rupeeready/internal/services"
)

// VaultHandler handles explicit tax-vault moves. These are the only
// operations besides transaction recording that touch the vault.
type VaultHandler struct {
	ledgerService services.LedgerServicer
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(ledgerService services.LedgerServicer) *VaultHandler {
	return &VaultHandler{ledgerService: ledgerService}
}

// VaultMoveRequest represents the amount to move, in paise.
type VaultMoveRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// MoveToVault moves money from the safe balance into the tax vault
// @Summary     Move to vault
// @Description Move money from safe-to-spend into the tax vault
// @Tags        vault
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VaultMoveRequest true "Amount in paise"
// @Success     200 {object} map[string]interface{} "Updated profile"
// @Failure     400 {object} ErrorResponse "Insufficient safe balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /vault/move [post]
func (h *VaultHandler) MoveToVault(c *gin.Context) {
	h.move(c, h.ledgerService.MoveToVault)
}

// ReleaseFromVault moves money from the tax vault back to the safe balance
// @Summary     Release from vault
// @Description Move money from the tax vault back to safe-to-spend
// @Tags        vault
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VaultMoveRequest true "Amount in paise"
// @Success     200 {object} map[string]interface{} "Updated profile"
// @Failure     400 {object} ErrorResponse "Insufficient vault balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /vault/release [post]
func (h *VaultHandler) ReleaseFromVault(c *gin.Context) {
	h.move(c, h.ledgerService.ReleaseFromVault)
}

// PayTaxFromVault pays tax out of the vault
// @Summary     Pay tax from vault
// @Description Pay tax from the vault. The amount leaves the system entirely.
// @Tags        vault
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VaultMoveRequest true "Amount in paise"
// @Success     200 {object} map[string]interface{} "Updated profile"
// @Failure     400 {object} ErrorResponse "Insufficient vault balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /vault/pay-tax [post]
func (h *VaultHandler) PayTaxFromVault(c *gin.Context) {
	h.move(c, h.ledgerService.PayTaxFromVault)
}

func (h *VaultHandler) move(c *gin.Context, op func(userID string, amount int64) (*models.Profile, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VaultMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := op(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
