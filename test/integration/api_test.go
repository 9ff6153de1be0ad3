// Package integration provides end-to-end integration tests for the vault API.
// Every flow runs against the memory driver and, when reachable, against
// PostgreSQL and MySQL.
package integration

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/securevault/internal/app"
	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	authorizationDTO "github.com/allisson/securevault/internal/authorization/http/dto"
	"github.com/allisson/securevault/internal/config"
	"github.com/allisson/securevault/internal/testutil"
	vaultDTO "github.com/allisson/securevault/internal/vault/http/dto"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	headers map[string]string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	switch dbDriver {
	case app.DriverPostgres:
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	case app.DriverMySQL:
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		MetricsEnabled:       false,
		OutboxBatchSize:      100,
		OutboxMaxRetries:     3,
		OutboxInterval:       time.Second,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// forEachDriver runs fn against every storage driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, ctx *integrationTestContext)) {
	for _, driver := range []string{app.DriverMemory, app.DriverPostgres, app.DriverMySQL} {
		t.Run(driver, func(t *testing.T) {
			ctx := setupIntegrationTest(t, driver)
			defer teardownIntegrationTest(t, ctx)
			fn(t, ctx)
		})
	}
}

func (ctx *integrationTestContext) createManager(t *testing.T, signerPublicKey ed25519.PublicKey) string {
	t.Helper()

	request := authorizationDTO.CreateManagerRequest{Name: "integration-manager"}
	if signerPublicKey != nil {
		request.SignerPublicKey = base64.StdEncoding.EncodeToString(signerPublicKey)
	}

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/managers", request, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var manager authorizationDTO.ManagerResponse
	require.NoError(t, json.Unmarshal(body, &manager))
	return manager.ID
}

func (ctx *integrationTestContext) createVault(t *testing.T) vaultDTO.CreateVaultResponse {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/vaults", nil, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var vault vaultDTO.CreateVaultResponse
	require.NoError(t, json.Unmarshal(body, &vault))
	require.NotEmpty(t, vault.AdminSecret)
	return vault
}

func (ctx *integrationTestContext) initializeVault(t *testing.T, vault vaultDTO.CreateVaultResponse, managerID string) {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vault.ID+"/initialize",
		vaultDTO.InitializeVaultRequest{AuthorizationManagerID: managerID},
		map[string]string{"Authorization": "Bearer " + vault.AdminSecret},
	)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))
}

func (ctx *integrationTestContext) deposit(t *testing.T, vaultID string, amount uint64) {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vaultID+"/deposits",
		vaultDTO.DepositRequest{From: "depositor", Amount: amount}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func (ctx *integrationTestContext) balance(t *testing.T, vaultID string) uint64 {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/vaults/"+vaultID+"/balance", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var balance vaultDTO.BalanceResponse
	require.NoError(t, json.Unmarshal(body, &balance))
	return balance.Balance
}

func (ctx *integrationTestContext) withdraw(t *testing.T, vaultID string, request vaultDTO.WithdrawRequest) int {
	t.Helper()

	resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vaultID+"/withdrawals", request, nil)
	return resp.StatusCode
}

func TestIntegration_Health(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "healthy")

		resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "ready")
	})
}

func TestIntegration_VaultLifecycle(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		managerID := ctx.createManager(t, nil)
		vault := ctx.createVault(t)

		t.Run("rejects deposits before initialize", func(t *testing.T) {
			resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vault.ID+"/deposits",
				vaultDTO.DepositRequest{From: "depositor", Amount: 1}, nil)
			assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
		})

		t.Run("rejects initialize with the wrong admin secret", func(t *testing.T) {
			resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vault.ID+"/initialize",
				vaultDTO.InitializeVaultRequest{AuthorizationManagerID: managerID},
				map[string]string{"Authorization": "Bearer wrong-secret"},
			)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})

		ctx.initializeVault(t, vault, managerID)

		t.Run("rejects a second initialize", func(t *testing.T) {
			resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/vaults/"+vault.ID+"/initialize",
				vaultDTO.InitializeVaultRequest{AuthorizationManagerID: managerID},
				map[string]string{"Authorization": "Bearer " + vault.AdminSecret},
			)
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
		})

		ctx.deposit(t, vault.ID, 10)
		assert.Equal(t, uint64(10), ctx.balance(t, vault.ID))

		authID := authorizationDomain.HashAuthID("lifecycle-withdrawal")
		request := vaultDTO.WithdrawRequest{Recipient: "alice", Amount: 4, AuthID: authID.String()}

		assert.Equal(t, http.StatusCreated, ctx.withdraw(t, vault.ID, request))
		assert.Equal(t, uint64(6), ctx.balance(t, vault.ID))

		t.Run("rejects a replayed authorization", func(t *testing.T) {
			assert.Equal(t, http.StatusConflict, ctx.withdraw(t, vault.ID, request))
			assert.Equal(t, uint64(6), ctx.balance(t, vault.ID))
		})

		t.Run("insufficient balance leaves the authorization unspent", func(t *testing.T) {
			overdraft := authorizationDomain.HashAuthID("overdraft")
			status := ctx.withdraw(t, vault.ID, vaultDTO.WithdrawRequest{
				Recipient: "alice",
				Amount:    100,
				AuthID:    overdraft.String(),
			})
			assert.Equal(t, http.StatusUnprocessableEntity, status)

			resp, body := ctx.makeRequest(t, http.MethodGet,
				"/v1/managers/"+managerID+"/authorizations/"+overdraft.String(), nil, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var consumption authorizationDTO.ConsumptionResponse
			require.NoError(t, json.Unmarshal(body, &consumption))
			assert.False(t, consumption.Consumed)
		})

		t.Run("reports consumed authorizations", func(t *testing.T) {
			resp, body := ctx.makeRequest(t, http.MethodGet,
				"/v1/managers/"+managerID+"/authorizations/"+authID.String(), nil, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var consumption authorizationDTO.ConsumptionResponse
			require.NoError(t, json.Unmarshal(body, &consumption))
			assert.True(t, consumption.Consumed)
		})

		t.Run("lists transfers", func(t *testing.T) {
			resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/vaults/"+vault.ID+"/transfers", nil, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var transfers vaultDTO.ListTransfersResponse
			require.NoError(t, json.Unmarshal(body, &transfers))
			require.Len(t, transfers.Data, 2)
			assert.Equal(t, "deposit", transfers.Data[0].Kind)
			assert.Equal(t, "withdrawal", transfers.Data[1].Kind)
			assert.Equal(t, authID.String(), transfers.Data[1].AuthID)
		})

		t.Run("drains outbox events", func(t *testing.T) {
			outboxUseCase, err := ctx.container.OutboxUseCase()
			require.NoError(t, err)
			assert.NoError(t, outboxUseCase.ProcessEvents(context.Background()))
		})
	})
}

func TestIntegration_ConcurrentWithdrawalsSpendOnce(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		managerID := ctx.createManager(t, nil)
		vault := ctx.createVault(t)
		ctx.initializeVault(t, vault, managerID)
		ctx.deposit(t, vault.ID, 100)

		request := vaultDTO.WithdrawRequest{
			Recipient: "bob",
			Amount:    10,
			AuthID:    authorizationDomain.HashAuthID("concurrent").String(),
		}

		const attempts = 8
		statuses := make([]int, attempts)

		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				statuses[i] = ctx.withdraw(t, vault.ID, request)
			}()
		}
		wg.Wait()

		created := 0
		for _, status := range statuses {
			if status == http.StatusCreated {
				created++
				continue
			}
			assert.Contains(t, []int{http.StatusConflict, http.StatusLocked}, status)
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, uint64(90), ctx.balance(t, vault.ID))
	})
}

func TestIntegration_SignedClaims(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		publicKey, privateKey, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		managerID := ctx.createManager(t, publicKey)
		vault := ctx.createVault(t)
		ctx.initializeVault(t, vault, managerID)
		ctx.deposit(t, vault.ID, 50)

		claim := &authorizationDomain.Claim{
			VaultID:   uuid.MustParse(vault.ID),
			Recipient: "carol",
			Amount:    20,
			AuthID:    authorizationDomain.HashAuthID("signed"),
		}
		signature, err := ctx.container.ClaimSigner().Sign(privateKey, uuid.MustParse(managerID), claim)
		require.NoError(t, err)

		request := vaultDTO.WithdrawRequest{
			Recipient: claim.Recipient,
			Amount:    claim.Amount,
			AuthID:    claim.AuthID.String(),
		}

		t.Run("rejects a tampered amount", func(t *testing.T) {
			tampered := request
			tampered.Amount = 30
			tampered.Signature = "0x" + hex.EncodeToString(signature)
			assert.Equal(t, http.StatusForbidden, ctx.withdraw(t, vault.ID, tampered))
		})

		request.Signature = "0x" + hex.EncodeToString(signature)
		assert.Equal(t, http.StatusCreated, ctx.withdraw(t, vault.ID, request))
		assert.Equal(t, uint64(30), ctx.balance(t, vault.ID))
	})
}

func TestIntegration_DirectVerification(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		managerID := ctx.createManager(t, nil)
		authID := authorizationDomain.HashAuthID("direct")

		request := authorizationDTO.VerifyAuthorizationRequest{
			VaultID:   uuid.Must(uuid.NewV7()).String(),
			Recipient: "dave",
			Amount:    1,
			AuthID:    authID.String(),
		}

		path := "/v1/managers/" + managerID + "/authorizations/verify"
		resp, body := ctx.makeRequest(t, http.MethodPost, path, request, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

		resp, _ = ctx.makeRequest(t, http.MethodPost, path, request, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/managers/"+uuid.Must(uuid.NewV7()).String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
