package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"printforge.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// lockDuration is how long the processing lock is held
	lockDuration = 30 * time.Second
	// retentionDuration is how long a completed response is replayable
	retentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a customer retries
// a request with an Idempotency-Key it has already completed. Requests
// without the header pass through untouched.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Keys are scoped per customer so one client cannot replay another's
		// response. uuid.Nil scope for unauthenticated routes.
		customerID, _ := GetCustomerID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", customerID, key)

		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "request already in progress",
				})
				return
			}

			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}
		if !errors.Is(err, goredis.Nil) {
			// Redis being down must not block redemptions.
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, lockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "request already in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			_ = redisSet(ctx, storageKey, w.body.String(), retentionDuration)
		} else {
			// Failed attempts release the key so the client can retry.
			_ = redisDel(ctx, storageKey)
		}
	}
}
