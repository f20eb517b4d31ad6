package entities

import (
	"github.com/shopspring/decimal"
)

// Product is one item of the vendor catalog
type Product struct {
	ID       int    `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
}

// ProductOption is one selectable value inside an option group
// (e.g. group "size", name "4x6")
type ProductOption struct {
	ID    int    `json:"id"`
	Group string `json:"group"`
	Name  string `json:"name"`
}

// PriceRow maps an option chain to its price. The chain key is the chosen
// option ids sorted ascending and joined with '-'.
type PriceRow struct {
	Chain string          `json:"chain"`
	Price decimal.Decimal `json:"price"`
}

// ProductPricing bundles the option groups and price matrix of one
// product on one storefront
type ProductPricing struct {
	ProductID int             `json:"productId"`
	StoreCode string          `json:"storeCode"`
	Options   []ProductOption `json:"options"`
	Prices    []PriceRow      `json:"prices"`
}

// Quote is a priced option selection
type Quote struct {
	ProductID int             `json:"productId"`
	StoreCode string          `json:"storeCode"`
	Chain     string          `json:"chain"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
}

// ShippingEstimate is one carrier service quote for a shipment
type ShippingEstimate struct {
	Carrier      string          `json:"carrier"`
	Service      string          `json:"service"`
	Cost         decimal.Decimal `json:"cost"`
	BusinessDays int             `json:"businessDays"`
}
