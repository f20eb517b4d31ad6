package sinalite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"printforge.backend/internal/domain/entities"
	apperrors "printforge.backend/internal/domain/errors"
)

// BuildChain validates an option selection against the product's option
// groups and returns the canonical price chain key: every group covered
// exactly once, ids sorted ascending, joined with '-'.
func BuildChain(pricing *entities.ProductPricing, optionIDs []int) (string, error) {
	groupByOption := make(map[int]string, len(pricing.Options))
	groups := make(map[string]bool)
	for _, o := range pricing.Options {
		groupByOption[o.ID] = o.Group
		groups[o.Group] = false
	}

	for _, id := range optionIDs {
		group, ok := groupByOption[id]
		if !ok {
			return "", fmt.Errorf("unknown option %d: %w", id, apperrors.ErrInvalidSelection)
		}
		if groups[group] {
			return "", fmt.Errorf("more than one option for group %q: %w", group, apperrors.ErrInvalidSelection)
		}
		groups[group] = true
	}

	for group, covered := range groups {
		if !covered {
			return "", fmt.Errorf("no option chosen for group %q: %w", group, apperrors.ErrInvalidSelection)
		}
	}

	ids := make([]int, len(optionIDs))
	copy(ids, optionIDs)
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, "-"), nil
}

// LookupPrice finds the price row for a chain key
func LookupPrice(pricing *entities.ProductPricing, chain string) (*entities.PriceRow, error) {
	for i := range pricing.Prices {
		if pricing.Prices[i].Chain == chain {
			return &pricing.Prices[i], nil
		}
	}
	return nil, fmt.Errorf("chain %s: %w", chain, apperrors.ErrPriceNotFound)
}

// BuildQuote validates the selection and prices it in one step
func BuildQuote(pricing *entities.ProductPricing, optionIDs []int, currency string) (*entities.Quote, error) {
	chain, err := BuildChain(pricing, optionIDs)
	if err != nil {
		return nil, err
	}
	row, err := LookupPrice(pricing, chain)
	if err != nil {
		return nil, err
	}
	return &entities.Quote{
		ProductID: pricing.ProductID,
		StoreCode: pricing.StoreCode,
		Chain:     chain,
		Price:     row.Price,
		Currency:  currency,
	}, nil
}
