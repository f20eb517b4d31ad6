package sinalite

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"printforge.backend/internal/domain/entities"
)

// Config carries the vendor API settings
type Config struct {
	BaseURL      string
	AuthURL      string
	ClientID     string
	ClientSecret string
	Audience     string
	Timeout      time.Duration
}

// ShippingRequest describes a shipment to estimate
type ShippingRequest struct {
	ProductID  int    `json:"productId"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Audience     string `json:"audience"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// productDTO mirrors the vendor catalog row. enabled comes over the wire
// as 0/1, not a bool.
type productDTO struct {
	ID       int    `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Enabled  int    `json:"enabled"`
}

func (d productDTO) toEntity() entities.Product {
	return entities.Product{
		ID:       d.ID,
		SKU:      d.SKU,
		Name:     d.Name,
		Category: d.Category,
		Enabled:  d.Enabled == 1,
	}
}

type optionDTO struct {
	ID    int    `json:"id"`
	Group string `json:"group"`
	Name  string `json:"name"`
}

// priceRowDTO maps an option chain hash to its price, serialized as a
// decimal string
type priceRowDTO struct {
	Hash  string `json:"hash"`
	Value string `json:"value"`
}

type pricingDTO struct {
	Options []optionDTO   `json:"options"`
	Prices  []priceRowDTO `json:"prices"`
}

func (d pricingDTO) toEntity(productID int, storeCode string) (*entities.ProductPricing, error) {
	pricing := &entities.ProductPricing{
		ProductID: productID,
		StoreCode: storeCode,
		Options:   make([]entities.ProductOption, 0, len(d.Options)),
		Prices:    make([]entities.PriceRow, 0, len(d.Prices)),
	}
	for _, o := range d.Options {
		pricing.Options = append(pricing.Options, entities.ProductOption{
			ID:    o.ID,
			Group: o.Group,
			Name:  o.Name,
		})
	}
	for _, p := range d.Prices {
		price, err := decimal.NewFromString(p.Value)
		if err != nil {
			return nil, fmt.Errorf("parse price %q for chain %s: %w", p.Value, p.Hash, err)
		}
		pricing.Prices = append(pricing.Prices, entities.PriceRow{
			Chain: p.Hash,
			Price: price,
		})
	}
	return pricing, nil
}

type shippingEstimateDTO struct {
	Carrier string `json:"carrier"`
	Service string `json:"service"`
	Total   string `json:"total"`
	Days    int    `json:"days"`
}

func (d shippingEstimateDTO) toEntity() (entities.ShippingEstimate, error) {
	cost, err := decimal.NewFromString(d.Total)
	if err != nil {
		return entities.ShippingEstimate{}, fmt.Errorf("parse shipping total %q: %w", d.Total, err)
	}
	return entities.ShippingEstimate{
		Carrier:      d.Carrier,
		Service:      d.Service,
		Cost:         cost,
		BusinessDays: d.Days,
	}, nil
}
