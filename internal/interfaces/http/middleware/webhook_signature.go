package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"printforge.backend/pkg/crypto"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw delivery body.
const SignatureHeader = "X-Webhook-Signature"

// WebhookSignatureMiddleware rejects webhook deliveries whose signature does
// not match the raw request body under the shared secret. An empty secret
// rejects everything rather than accepting unsigned deliveries.
func WebhookSignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "failed to read request body",
				})
				return
			}
			// Restore for the handler's own bind.
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		signature := c.GetHeader(SignatureHeader)
		if secret == "" || signature == "" || !crypto.VerifySignature(secret, body, signature) {
			log.Printf("[WebhookSignature] Rejected delivery to %s: signature mismatch", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid webhook signature",
			})
			return
		}

		c.Next()
	}
}
