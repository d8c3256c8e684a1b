package model

import "time"

// Category is the product category enum used by the catalog.
type Category string

const (
	CategoryInterface Category = "interface"
	CategoryAudio     Category = "som"
	CategoryAlarm     Category = "alarme"
	CategoryAccessory Category = "acessorio"
)

// UniversalModel is the vehicle model value meaning "fits any vehicle".
const UniversalModel = "universal"

// Valid reports whether c is one of the catalog categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryInterface, CategoryAudio, CategoryAlarm, CategoryAccessory:
		return true
	}
	return false
}

// Product is a catalog entry.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Category     Category  `json:"categoria"`
	VehicleModel string    `json:"modelo_carro"`
	YearStart    int       `json:"ano_inicio"`
	YearEnd      int       `json:"ano_fim"`
	Price        float64   `json:"preco"`
	Stock        int       `json:"estoque"`
	Description  string    `json:"descricao,omitempty"`
	Active       bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FitsYear reports whether year falls within the inclusive year range.
func (p *Product) FitsYear(year int) bool {
	return p.YearStart <= year && year <= p.YearEnd
}

// FitsModel reports whether the product is compatible with the vehicle model.
func (p *Product) FitsModel(model string) bool {
	return p.VehicleModel == model || p.VehicleModel == UniversalModel
}

// ProductFilter selects catalog entries. Zero-valued fields do not filter.
type ProductFilter struct {
	Category     string
	VehicleModel string
	Year         *int
	// Available restricts results to active products with stock.
	Available bool
	// Limit caps the number of results; 0 means unlimited.
	Limit int
}

// Matches applies the filter to a single product.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Available && (!p.Active || p.Stock <= 0) {
		return false
	}
	if f.Category != "" && string(p.Category) != f.Category {
		return false
	}
	if f.VehicleModel != "" && !p.FitsModel(f.VehicleModel) {
		return false
	}
	if f.Year != nil && !p.FitsYear(*f.Year) {
		return false
	}
	return true
}
