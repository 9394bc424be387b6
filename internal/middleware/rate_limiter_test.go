package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wearlab/tryon-backend/internal/middleware"
	"github.com/wearlab/tryon-backend/internal/testutil"
)

func newTestLimiter(t *testing.T, maxRequests int) (*middleware.RateLimiter, *testutil.TestRedis) {
	t.Helper()

	testRedis := testutil.SetupTestRedis(t)

	opt, err := redis.ParseURL(testRedis.URL)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      time.Minute,
		BlockTime:   5 * time.Minute,
	})
	return limiter, testRedis
}

func TestCheckLimit_AllowsUpToMax(t *testing.T) {
	limiter, testRedis := newTestLimiter(t, 3)
	defer testRedis.Teardown(t)

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.CheckLimit("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "Request over the limit must be denied")
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestCheckLimit_IsolatesClients(t *testing.T) {
	limiter, testRedis := newTestLimiter(t, 1)
	defer testRedis.Teardown(t)

	allowed, _, err := limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.CheckLimit("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "A different client must not share the counter")
}

func TestRateLimiterMiddleware_Returns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, testRedis := newTestLimiter(t, 1)
	defer testRedis.Teardown(t)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/api/try-on", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Okay"})
	})

	first := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/try-on", nil)
	router.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/try-on", nil)
	router.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRateLimiterMiddleware_FailsOpenWhenRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, testRedis := newTestLimiter(t, 1)
	testRedis.Teardown(t) // kill redis before the request

	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/api/try-on", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Okay"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/try-on", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Redis being down must not block the endpoint")
}
