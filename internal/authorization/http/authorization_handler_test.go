package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/authorization/http/dto"
	"github.com/allisson/securevault/internal/authorization/usecase/mocks"
)

func setupTestHandler(t *testing.T) (*AuthorizationHandler, *mocks.MockAuthorizationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := mocks.NewMockAuthorizationUseCase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAuthorizationHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestAuthorizationHandler_CreateManagerHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		manager := &authorizationDomain.AuthorizationManager{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      "primary",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("CreateManager", mock.Anything, &authorizationDomain.CreateManagerInput{Name: "primary"}).
			Return(manager, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/managers", dto.CreateManagerRequest{Name: "primary"})
		handler.CreateManagerHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.ManagerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, manager.ID.String(), response.ID)
		assert.Empty(t, response.SignerPublicKey)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		c, w := createTestContext(http.MethodPost, "/v1/managers", nil)
		c.Request.Body = io.NopCloser(bytes.NewBufferString("{"))

		handler.CreateManagerHandler(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		c, w := createTestContext(http.MethodPost, "/v1/managers", dto.CreateManagerRequest{Name: ""})

		handler.CreateManagerHandler(c)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidSignerKey", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("CreateManager", mock.Anything, mock.Anything).
			Return(nil, authorizationDomain.ErrInvalidSignerKey).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/managers", dto.CreateManagerRequest{
			Name:            "primary",
			SignerPublicKey: "AQID",
		})
		handler.CreateManagerHandler(c)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthorizationHandler_GetManagerHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		manager := &authorizationDomain.AuthorizationManager{ID: uuid.Must(uuid.NewV7()), Name: "primary"}
		mockUseCase.On("GetManager", mock.Anything, manager.ID).Return(manager, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/managers/"+manager.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: manager.ID.String()}}
		handler.GetManagerHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		managerID := uuid.Must(uuid.NewV7())
		mockUseCase.On("GetManager", mock.Anything, managerID).Return(nil, authorizationDomain.ErrManagerNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/managers/"+managerID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: managerID.String()}}
		handler.GetManagerHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		c, w := createTestContext(http.MethodGet, "/v1/managers/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.GetManagerHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthorizationHandler_VerifyAuthorizationHandler(t *testing.T) {
	managerID := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	authID := authorizationDomain.HashAuthID("test-auth-1")
	request := dto.VerifyAuthorizationRequest{
		VaultID:   vaultID.String(),
		Recipient: "acct-recipient-1",
		Amount:    1,
		AuthID:    authID.String(),
	}
	matchClaim := mock.MatchedBy(func(c *authorizationDomain.Claim) bool {
		return c.VaultID == vaultID && c.AuthID == authID && c.Amount == 1 && len(c.Signature) == 0
	})

	tests := []struct {
		name         string
		useCaseErr   error
		expectedCode int
	}{
		{name: "Success", expectedCode: http.StatusNoContent},
		{name: "AlreadyConsumed", useCaseErr: authorizationDomain.ErrAlreadyConsumed, expectedCode: http.StatusConflict},
		{name: "InvalidSignature", useCaseErr: authorizationDomain.ErrInvalidSignature, expectedCode: http.StatusForbidden},
		{name: "InternalError", useCaseErr: errors.New("db down"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockUseCase := setupTestHandler(t)
			mockUseCase.On("VerifyAuthorization", mock.Anything, managerID, matchClaim).Return(tt.useCaseErr).Once()

			c, w := createTestContext(http.MethodPost, "/v1/managers/"+managerID.String()+"/authorizations/verify", request)
			c.Params = gin.Params{{Key: "id", Value: managerID.String()}}
			handler.VerifyAuthorizationHandler(c)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}

	t.Run("Error_Validation", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		bad := request
		bad.AuthID = "0x1234"

		c, w := createTestContext(http.MethodPost, "/v1/managers/"+managerID.String()+"/authorizations/verify", bad)
		c.Params = gin.Params{{Key: "id", Value: managerID.String()}}
		handler.VerifyAuthorizationHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthorizationHandler_GetConsumptionHandler(t *testing.T) {
	managerID := uuid.Must(uuid.NewV7())
	authID := authorizationDomain.HashAuthID("test-auth-1")

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("IsAuthorizationConsumed", mock.Anything, managerID, authID).Return(true, nil).Once()

		c, w := createTestContext(http.MethodGet, "/", nil)
		c.Params = gin.Params{{Key: "id", Value: managerID.String()}, {Key: "authId", Value: authID.String()}}
		handler.GetConsumptionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ConsumptionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Consumed)
		assert.Equal(t, authID.String(), response.AuthID)
	})

	t.Run("Error_InvalidAuthID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/", nil)
		c.Params = gin.Params{{Key: "id", Value: managerID.String()}, {Key: "authId", Value: "0xzz"}}
		handler.GetConsumptionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
