package sinalite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"printforge.backend/internal/domain/entities"
	apperrors "printforge.backend/internal/domain/errors"
	"printforge.backend/pkg/metrics"
)

const (
	maxAttempts = 5
	baseBackoff = 500 * time.Millisecond
)

// Client talks to the Sinalite print API. Auth is client-credentials with
// the bearer token held in an injected TokenCache; transient upstream
// failures (429, 5xx, network) are retried with exponential backoff.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *TokenCache

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(d time.Duration) time.Duration
}

// NewClient creates a vendor client. A nil cache gets a wall-clock one.
func NewClient(cfg Config, tokens *TokenCache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if tokens == nil {
		tokens = NewTokenCache(nil)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		sleep:      sleepCtx,
		jitter:     defaultJitter,
	}
}

// ListProducts returns the vendor catalog
func (c *Client) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, http.MethodGet, "/product", "products", nil, &dtos); err != nil {
		return nil, err
	}

	products := make([]entities.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toEntity())
	}
	return products, nil
}

// GetProductPricing returns the option groups and price matrix of one
// product on one storefront
func (c *Client) GetProductPricing(ctx context.Context, productID int, storeCode string) (*entities.ProductPricing, error) {
	var dto pricingDTO
	path := "/price/" + strconv.Itoa(productID) + "/" + storeCode
	if err := c.do(ctx, http.MethodGet, path, "pricing", nil, &dto); err != nil {
		return nil, err
	}
	return dto.toEntity(productID, storeCode)
}

// EstimateShipping returns carrier quotes for a shipment
func (c *Client) EstimateShipping(ctx context.Context, req ShippingRequest) ([]entities.ShippingEstimate, error) {
	var dtos []shippingEstimateDTO
	if err := c.do(ctx, http.MethodPost, "/shippingestimate", "shipping", req, &dtos); err != nil {
		return nil, err
	}

	estimates := make([]entities.ShippingEstimate, 0, len(dtos))
	for _, d := range dtos {
		est, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, est)
	}
	return estimates, nil
}

// token returns a bearer token, hitting the auth endpoint only when the
// cache has nothing usable or force is set.
func (c *Client) token(ctx context.Context, force bool) (string, error) {
	if !force {
		if tok, ok := c.tokens.Get(); ok {
			return tok, nil
		}
	}

	body, err := json.Marshal(authRequest{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		GrantType:    "client_credentials",
		Audience:     c.cfg.Audience,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sinalite auth: %v: %w", err, apperrors.ErrVendorUnavailable)
	}
	defer resp.Body.Close()

	metrics.ObserveVendorRequest("auth", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sinalite auth: status %d: %w", resp.StatusCode, apperrors.ErrVendorUnavailable)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("sinalite auth: decode: %w", err)
	}
	if ar.AccessToken == "" {
		return "", fmt.Errorf("sinalite auth: empty access token: %w", apperrors.ErrVendorUnavailable)
	}

	c.tokens.Set(ar.AccessToken, time.Duration(ar.ExpiresIn)*time.Second)
	return ar.AccessToken, nil
}

// do performs one authorized API call. 429 and 5xx are retried up to
// maxAttempts with exponential backoff; a 401 forces a single token
// refresh without burning a retry attempt.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	attempts := 0
	refreshed := false
	forceAuth := false

	for {
		tok, err := c.token(ctx, forceAuth)
		if err != nil {
			return err
		}
		forceAuth = false

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			attempts++
			if attempts >= maxAttempts {
				return fmt.Errorf("sinalite: %s %s: %v: %w", method, path, err, apperrors.ErrVendorUnavailable)
			}
			if serr := c.sleep(ctx, c.backoff(attempts)); serr != nil {
				return serr
			}
			continue
		}

		status := resp.StatusCode
		metrics.ObserveVendorRequest(endpoint, status)

		if status == http.StatusOK {
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("sinalite: decode %s: %w", path, err)
			}
			return nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if status == http.StatusUnauthorized && !refreshed {
			refreshed = true
			c.tokens.Invalidate()
			forceAuth = true
			continue
		}

		if status == http.StatusTooManyRequests || status >= 500 {
			attempts++
			if attempts >= maxAttempts {
				return fmt.Errorf("sinalite: %s %s: status %d after %d attempts: %w", method, path, status, attempts, apperrors.ErrVendorUnavailable)
			}
			if serr := c.sleep(ctx, c.backoff(attempts)); serr != nil {
				return serr
			}
			continue
		}

		return fmt.Errorf("sinalite: %s %s: unexpected status %d", method, path, status)
	}
}

// backoff doubles per attempt starting from baseBackoff, with jitter
func (c *Client) backoff(attempt int) time.Duration {
	d := baseBackoff << (attempt - 1)
	return c.jitter(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// defaultJitter keeps 50-100% of the computed delay
func defaultJitter(d time.Duration) time.Duration {
	half := int64(d) / 2
	return time.Duration(half + rand.Int63n(half+1))
}
