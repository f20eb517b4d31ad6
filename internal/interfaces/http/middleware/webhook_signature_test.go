package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"printforge.backend/pkg/crypto"
)

func signatureRouter(secret string, seenBody *[]byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", WebhookSignatureMiddleware(secret), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		*seenBody = body
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func postSigned(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookSignature_ValidDeliveryPasses(t *testing.T) {
	const secret = "whsec_test"
	payload := []byte(`{"type":"order.paid","data":{}}`)

	var seen []byte
	r := signatureRouter(secret, &seen)

	w := postSigned(r, payload, crypto.SignPayload(secret, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, seen, "handler must see the untouched body")
}

func TestWebhookSignature_MissingSignature(t *testing.T) {
	var seen []byte
	r := signatureRouter("whsec_test", &seen)

	w := postSigned(r, []byte(`{}`), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, seen)
}

func TestWebhookSignature_WrongSignature(t *testing.T) {
	var seen []byte
	r := signatureRouter("whsec_test", &seen)

	w := postSigned(r, []byte(`{}`), "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid webhook signature")
}

func TestWebhookSignature_TamperedBody(t *testing.T) {
	const secret = "whsec_test"
	signed := crypto.SignPayload(secret, []byte(`{"total":"10.00"}`))

	var seen []byte
	r := signatureRouter(secret, &seen)

	w := postSigned(r, []byte(`{"total":"9999.00"}`), signed)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignature_EmptySecretRejectsAll(t *testing.T) {
	payload := []byte(`{}`)

	var seen []byte
	r := signatureRouter("", &seen)

	w := postSigned(r, payload, crypto.SignPayload("", payload))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
