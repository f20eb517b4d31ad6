package sinalite

import (
	"sync"
	"time"
)

// earlyRefresh is how long before the real expiry a token is treated as
// stale, so in-flight requests never ride an about-to-expire token.
const earlyRefresh = time.Minute

// TokenCache holds the vendor bearer token together with its expiry.
// The clock is injected so expiry behavior is testable.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenCache creates a token cache. A nil clock defaults to time.Now.
func NewTokenCache(now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{now: now}
}

// Get returns the cached token, or false when empty or about to expire.
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || !c.now().Add(earlyRefresh).Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Set stores a fresh token valid for ttl.
func (c *TokenCache) Set(token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	c.expiresAt = c.now().Add(ttl)
}

// Invalidate drops the cached token.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiresAt = time.Time{}
}
