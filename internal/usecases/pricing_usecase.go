package usecases

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"printforge.backend/internal/domain/entities"
	"printforge.backend/internal/infrastructure/sinalite"
)

// DefaultStoreCode is used when a quote request names no storefront.
const DefaultStoreCode = "en_us"

// VendorCatalog is the slice of the Sinalite client the pricing usecase
// consumes.
type VendorCatalog interface {
	ListProducts(ctx context.Context) ([]entities.Product, error)
	GetProductPricing(ctx context.Context, productID int, storeCode string) (*entities.ProductPricing, error)
	EstimateShipping(ctx context.Context, req sinalite.ShippingRequest) ([]entities.ShippingEstimate, error)
}

// QuoteCache stores serialized pricing payloads between quote requests.
type QuoteCache interface {
	Fetch(ctx context.Context, productID, storeCode string) ([]byte, error)
	Put(ctx context.Context, productID, storeCode string, payload []byte) error
}

// PricingUsecase serves the product catalog and priced quotes, shielding
// the vendor API behind a Redis pricing cache.
type PricingUsecase struct {
	vendor VendorCatalog
	cache  QuoteCache
}

// NewPricingUsecase creates a new pricing usecase. cache may be nil; quotes
// then always hit the vendor.
func NewPricingUsecase(vendor VendorCatalog, cache QuoteCache) *PricingUsecase {
	return &PricingUsecase{vendor: vendor, cache: cache}
}

// ListProducts returns the sellable (enabled) slice of the vendor catalog.
func (u *PricingUsecase) ListProducts(ctx context.Context) ([]entities.Product, error) {
	products, err := u.vendor.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sellable := make([]entities.Product, 0, len(products))
	for _, p := range products {
		if p.Enabled {
			sellable = append(sellable, p)
		}
	}
	return sellable, nil
}

// Quote prices one option selection for a product. The selection must cover
// every option group of the product exactly once.
func (u *PricingUsecase) Quote(ctx context.Context, productID int, storeCode string, optionIDs []int) (*entities.Quote, error) {
	storeCode = normalizeStoreCode(storeCode)
	pricing, err := u.getPricing(ctx, productID, storeCode)
	if err != nil {
		return nil, err
	}
	return sinalite.BuildQuote(pricing, optionIDs, currencyFor(storeCode))
}

// EstimateShipping passes a shipping query through to the vendor.
func (u *PricingUsecase) EstimateShipping(ctx context.Context, req sinalite.ShippingRequest) ([]entities.ShippingEstimate, error) {
	return u.vendor.EstimateShipping(ctx, req)
}

func (u *PricingUsecase) getPricing(ctx context.Context, productID int, storeCode string) (*entities.ProductPricing, error) {
	key := strconv.Itoa(productID)

	if u.cache != nil {
		if payload, err := u.cache.Fetch(ctx, key, storeCode); err == nil {
			var pricing entities.ProductPricing
			if jerr := json.Unmarshal(payload, &pricing); jerr == nil {
				return &pricing, nil
			}
			// corrupt entry: fall through to the vendor
		}
	}

	pricing, err := u.vendor.GetProductPricing(ctx, productID, storeCode)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if payload, err := json.Marshal(pricing); err == nil {
			// a failed cache write must not fail the quote
			_ = u.cache.Put(ctx, key, storeCode, payload)
		}
	}
	return pricing, nil
}

func normalizeStoreCode(storeCode string) string {
	if storeCode == "" {
		return DefaultStoreCode
	}
	return strings.ToLower(storeCode)
}

func currencyFor(storeCode string) string {
	if strings.HasSuffix(storeCode, "_ca") {
		return "CAD"
	}
	return "USD"
}
