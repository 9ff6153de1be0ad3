// Package http provides HTTP handlers for authorization managers and their
// consumption ledger.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/authorization/http/dto"
	authorizationUseCase "github.com/allisson/securevault/internal/authorization/usecase"
	"github.com/allisson/securevault/internal/httputil"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// AuthorizationHandler handles HTTP requests for authorization managers.
type AuthorizationHandler struct {
	authorizationUseCase authorizationUseCase.AuthorizationUseCase
	logger               *slog.Logger
}

// NewAuthorizationHandler creates a new authorization handler.
func NewAuthorizationHandler(
	authorizationUseCase authorizationUseCase.AuthorizationUseCase,
	logger *slog.Logger,
) *AuthorizationHandler {
	return &AuthorizationHandler{
		authorizationUseCase: authorizationUseCase,
		logger:               logger,
	}
}

// CreateManagerHandler registers a new authorization manager.
// POST /v1/managers
// Returns 201 Created with the manager.
func (h *AuthorizationHandler) CreateManagerHandler(c *gin.Context) {
	var req dto.CreateManagerRequest

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

	manager, err := h.authorizationUseCase.CreateManager(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapManagerToResponse(manager))
}

// GetManagerHandler retrieves an authorization manager.
// GET /v1/managers/:id
func (h *AuthorizationHandler) GetManagerHandler(c *gin.Context) {
	managerID, ok := h.parseManagerID(c)
	if !ok {
		return
	}

	manager, err := h.authorizationUseCase.GetManager(c.Request.Context(), managerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapManagerToResponse(manager))
}

// VerifyAuthorizationHandler verifies a claim and consumes its authorization identifier.
// POST /v1/managers/:id/authorizations/verify
// Returns 204 No Content on success, 409 when already consumed, 403 on a bad signature.
func (h *AuthorizationHandler) VerifyAuthorizationHandler(c *gin.Context) {
	managerID, ok := h.parseManagerID(c)
	if !ok {
		return
	}

	var req dto.VerifyAuthorizationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	claim, err := req.ToClaim()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.authorizationUseCase.VerifyAuthorization(c.Request.Context(), managerID, claim); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// GetConsumptionHandler reports whether an authorization identifier was consumed.
// GET /v1/managers/:id/authorizations/:authId
func (h *AuthorizationHandler) GetConsumptionHandler(c *gin.Context) {
	managerID, ok := h.parseManagerID(c)
	if !ok {
		return
	}

	authID, err := authorizationDomain.ParseAuthID(c.Param("authId"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	consumed, err := h.authorizationUseCase.IsAuthorizationConsumed(c.Request.Context(), managerID, authID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ConsumptionResponse{
		ManagerID: managerID.String(),
		AuthID:    authID.String(),
		Consumed:  consumed,
	})
}

func (h *AuthorizationHandler) parseManagerID(c *gin.Context) (uuid.UUID, bool) {
	managerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid manager id format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return managerID, true
}
