package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"printforge.backend/pkg/redis"
)

func setupIdempotencyRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

// idempotentRouter runs every request as the given customer and counts how
// many times the real handler executes.
func idempotentRouter(customerID uuid.UUID, calls *atomic.Int32, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/redeem", func(c *gin.Context) {
		c.Set(CustomerIDKey, customerID)
	}, IdempotencyMiddleware(), func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(status, gin.H{"call": n})
	})
	return r
}

func postRedeem(r *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/redeem", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	setupIdempotencyRedis(t)
	var calls atomic.Int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusOK)

	postRedeem(r, "")
	postRedeem(r, "")

	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	setupIdempotencyRedis(t)
	var calls atomic.Int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusOK)

	first := postRedeem(r, "key-1")
	second := postRedeem(r, "key-1")

	assert.Equal(t, int32(1), calls.Load(), "handler must run once")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.Empty(t, first.Header().Get("X-Idempotency-Hit"))
}

func TestIdempotency_InProgressConflicts(t *testing.T) {
	mr := setupIdempotencyRedis(t)
	customerID := uuid.New()
	mr.Set(fmt.Sprintf("idempotency:%s:%s", customerID, "key-1"), "processing")

	var calls atomic.Int32
	r := idempotentRouter(customerID, &calls, http.StatusOK)

	w := postRedeem(r, "key-1")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), calls.Load())
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	setupIdempotencyRedis(t)
	var calls atomic.Int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusBadGateway)

	first := postRedeem(r, "key-1")
	second := postRedeem(r, "key-1")

	assert.Equal(t, http.StatusBadGateway, first.Code)
	assert.Equal(t, http.StatusBadGateway, second.Code)
	assert.Equal(t, int32(2), calls.Load(), "failed attempts must stay retryable")
}

func TestIdempotency_KeysScopedPerCustomer(t *testing.T) {
	setupIdempotencyRedis(t)
	var calls atomic.Int32
	alice := idempotentRouter(uuid.New(), &calls, http.StatusOK)
	bob := idempotentRouter(uuid.New(), &calls, http.StatusOK)

	postRedeem(alice, "shared-key")
	postRedeem(bob, "shared-key")

	assert.Equal(t, int32(2), calls.Load(), "customers must not share replay state")
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	redis.SetClient(goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	}))

	var calls atomic.Int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusOK)

	w := postRedeem(r, "key-1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), calls.Load())
}
