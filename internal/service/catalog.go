// Package service provides the read and administration side of the sales
// assistant used by the HTTP API.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/catalog"
	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

// ErrInvalidYear is returned when a year filter is not a number.
var ErrInvalidYear = errors.New("invalid year filter")

// ProductQuery filters the product listing. Empty fields do not filter.
type ProductQuery struct {
	Category     string
	VehicleModel string
	Year         string
}

// CatalogService lists purchasable products.
type CatalogService struct {
	catalog store.Catalog
}

// NewCatalogService creates a catalog service.
func NewCatalogService(c store.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// List returns active, in-stock products matching q, cheapest first.
func (s *CatalogService) List(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	filter := model.ProductFilter{
		Category:     strings.ToLower(strings.TrimSpace(q.Category)),
		VehicleModel: strings.ToLower(strings.TrimSpace(q.VehicleModel)),
		Available:    true,
	}

	if q.Year != "" {
		year, ok := catalog.ParseYear(q.Year)
		if !ok {
			return nil, ErrInvalidYear
		}
		filter.Year = &year
	}

	products, err := s.catalog.FindProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}
