package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstrumentedRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("securevault")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "securevault"))
	router.GET("/v1/vaults/:id/balance", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balance": 10})
	})
	router.POST("/v1/vaults/:id/withdraw", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	})
	return router, provider
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	router, provider := newInstrumentedRouter(t)

	requests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/v1/vaults/0192c6a0-0000-7000-8000-000000000001/balance", http.StatusOK},
		{http.MethodGet, "/v1/vaults/0192c6a0-0000-7000-8000-000000000002/balance", http.StatusOK},
		{http.MethodPost, "/v1/vaults/0192c6a0-0000-7000-8000-000000000001/withdraw", http.StatusConflict},
		{http.MethodGet, "/wp-login.php", http.StatusNotFound},
	}
	for _, r := range requests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		require.Equal(t, r.status, w.Code)
	}

	output := scrape(t, provider)

	assertSample(t, output, `securevault_http_requests_total`,
		`method="GET".*route="/v1/vaults/:id/balance".*status_code="200"`, `2`)
	assertSample(t, output, `securevault_http_requests_total`,
		`method="POST".*route="/v1/vaults/:id/withdraw".*status_code="409"`, `1`)
	assertSample(t, output, `securevault_http_requests_total`,
		`method="GET".*route="unmatched".*status_code="404"`, `1`)
	assertSample(t, output, `securevault_http_request_duration_seconds_count`,
		`method="GET".*route="/v1/vaults/:id/balance"`, `2`)
	assertSample(t, output, `securevault_http_requests_in_flight`, `method="GET"`, `0`)
	assert.NotContains(t, output, "0192c6a0")
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/vaults/:id/withdraw", routeLabel("/v1/vaults/:id/withdraw"))
	assert.Equal(t, "/health", routeLabel("/health"))
	assert.Equal(t, unmatchedRoute, routeLabel(""))
}
