// Package catalog selects purchasable products for a purchase intent.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

// MaxResults is the number of products presented to the user.
const MaxResults = 5

var yearPattern = regexp.MustCompile(`\d{4}`)

// Matcher queries the catalog with the filter derived from an intent.
type Matcher struct {
	catalog store.Catalog
	limit   int
}

// NewMatcher creates a matcher returning at most MaxResults products.
func NewMatcher(catalog store.Catalog) *Matcher {
	return &Matcher{catalog: catalog, limit: MaxResults}
}

// Match returns active, in-stock products of the intent's category that fit
// the vehicle, cheapest first. An intent whose year cannot be read as a number
// matches nothing.
func (m *Matcher) Match(ctx context.Context, intent model.Intent) ([]model.Product, error) {
	year, ok := ParseYear(intent.VehicleYear)
	if !ok {
		return nil, nil
	}

	products, err := m.catalog.FindProducts(ctx, model.ProductFilter{
		Category:     strings.ToLower(strings.TrimSpace(intent.Category)),
		VehicleModel: strings.ToLower(strings.TrimSpace(intent.VehicleModel)),
		Year:         &year,
		Available:    true,
		Limit:        m.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to match products: %w", err)
	}
	return products, nil
}

// ParseYear reads a vehicle year such as "2018" or "ano 2018".
func ParseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if year, err := strconv.Atoi(raw); err == nil {
		return year, true
	}
	if digits := yearPattern.FindString(raw); digits != "" {
		year, err := strconv.Atoi(digits)
		return year, err == nil
	}
	return 0, false
}
