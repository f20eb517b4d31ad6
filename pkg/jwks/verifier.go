package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrExpiredToken = errors.New("identity token has expired")
	ErrKeyNotFound  = errors.New("signing key not found in JWKS")
)

// IdentityClaims is the subset of identity-provider claims the backend
// consumes. The subject claim carries the customer id.
type IdentityClaims struct {
	CustomerID uuid.UUID
	Email      string
	Role       string
}

type privateClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Verifier validates RS256 tokens issued by the hosted identity provider
// against its published JWKS. Keys are cached and refreshed when the set
// is stale or an unknown key id shows up.
type Verifier struct {
	jwksURL    string
	issuer     string
	httpClient *http.Client
	refreshTTL time.Duration
	now        func() time.Time

	mu        sync.RWMutex
	keys      *jose.JSONWebKeySet
	fetchedAt time.Time
}

// NewVerifier creates a verifier for the given JWKS endpoint and expected
// issuer. A nil clock defaults to time.Now.
func NewVerifier(jwksURL, issuer string, httpClient *http.Client, now func() time.Time) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		jwksURL:    jwksURL,
		issuer:     issuer,
		httpClient: httpClient,
		refreshTTL: time.Hour,
		now:        now,
	}
}

// Verify checks the token signature against the provider's JWKS and
// validates issuer and expiry. Returns the mapped identity claims.
func (v *Verifier) Verify(ctx context.Context, raw string) (*IdentityClaims, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if len(tok.Headers) == 0 {
		return nil, ErrInvalidToken
	}
	kid := tok.Headers[0].KeyID

	key, err := v.keyFor(ctx, kid)
	if err != nil {
		return nil, err
	}

	var registered jwt.Claims
	var private privateClaims
	if err := tok.Claims(key.Public(), &registered, &private); err != nil {
		return nil, ErrInvalidToken
	}

	err = registered.ValidateWithLeeway(jwt.Expected{
		Issuer: v.issuer,
		Time:   v.now(),
	}, time.Minute)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	customerID, err := uuid.Parse(registered.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := private.Role
	if role == "" {
		role = "customer"
	}

	return &IdentityClaims{
		CustomerID: customerID,
		Email:      private.Email,
		Role:       role,
	}, nil
}

// keyFor returns the cached key for kid, refreshing the key set when the
// cache is cold, stale, or does not contain the kid.
func (v *Verifier) keyFor(ctx context.Context, kid string) (*jose.JSONWebKey, error) {
	v.mu.RLock()
	key := v.lookupLocked(kid)
	stale := v.keys == nil || v.now().Sub(v.fetchedAt) > v.refreshTTL
	v.mu.RUnlock()

	if key != nil && !stale {
		return key, nil
	}

	if err := v.refresh(ctx); err != nil {
		// A failed refresh is tolerable if we still hold a matching key.
		if key != nil {
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	key = v.lookupLocked(kid)
	v.mu.RUnlock()

	if key == nil {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

func (v *Verifier) lookupLocked(kid string) *jose.JSONWebKey {
	if v.keys == nil {
		return nil
	}
	matches := v.keys.Key(kid)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func (v *Verifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	v.mu.Lock()
	v.keys = &set
	v.fetchedAt = v.now()
	v.mu.Unlock()

	return nil
}
