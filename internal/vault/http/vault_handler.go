// Package http provides HTTP handlers for vaults.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
	customValidation "github.com/allisson/securevault/internal/validation"
	"github.com/allisson/securevault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/securevault/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault operations.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler.
func NewVaultHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// CreateHandler opens a new uninitialized vault.
// POST /v1/vaults
// Returns 201 Created with the vault and its admin secret.
func (h *VaultHandler) CreateHandler(c *gin.Context) {
	output, err := h.vaultUseCase.Create(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateVaultResponse{
		VaultResponse: dto.MapVaultToResponse(output.Vault),
		AdminSecret:   output.PlainAdminSecret,
	})
}

// InitializeHandler binds the vault to an authorization manager.
// POST /v1/vaults/:id/initialize
// Requires "Authorization: Bearer <admin secret>". Returns 204 No Content.
func (h *VaultHandler) InitializeHandler(c *gin.Context) {
	vaultID, ok := h.parseVaultID(c)
	if !ok {
		return
	}

	adminSecret, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.logger.Debug("vault initialize rejected: missing or malformed authorization header")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.InitializeVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vaultUseCase.Initialize(c.Request.Context(), vaultID, adminSecret, req.ManagerID()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DepositHandler credits funds to a vault.
// POST /v1/vaults/:id/deposits
// Returns 201 Created with the deposit transfer.
func (h *VaultHandler) DepositHandler(c *gin.Context) {
	vaultID, ok := h.parseVaultID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	transfer, err := h.vaultUseCase.Deposit(c.Request.Context(), vaultID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTransferToResponse(transfer))
}

// WithdrawHandler spends a single-use authorization and pays the recipient.
// POST /v1/vaults/:id/withdrawals
// Returns 201 Created with the withdrawal transfer, 409 when the authorization
// was already consumed, 412 before initialization.
func (h *VaultHandler) WithdrawHandler(c *gin.Context) {
	vaultID, ok := h.parseVaultID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	transfer, err := h.vaultUseCase.Withdraw(c.Request.Context(), vaultID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTransferToResponse(transfer))
}

// GetBalanceHandler returns the vault balance.
// GET /v1/vaults/:id/balance
func (h *VaultHandler) GetBalanceHandler(c *gin.Context) {
	vaultID, ok := h.parseVaultID(c)
	if !ok {
		return
	}

	balance, err := h.vaultUseCase.GetBalance(c.Request.Context(), vaultID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{VaultID: vaultID.String(), Balance: balance})
}

// ListTransfersHandler returns a page of the vault's transfers.
// GET /v1/vaults/:id/transfers?offset=0&limit=50
func (h *VaultHandler) ListTransfersHandler(c *gin.Context) {
	vaultID, ok := h.parseVaultID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	transfers, err := h.vaultUseCase.ListTransfers(c.Request.Context(), vaultID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTransfersToListResponse(transfers))
}

func (h *VaultHandler) parseVaultID(c *gin.Context) (uuid.UUID, bool) {
	vaultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid vault id format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return vaultID, true
}

// bearerToken extracts the token of a case-insensitive "Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	return token, token != ""
}
