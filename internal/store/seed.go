package store

import (
	"context"
	"fmt"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// SampleCatalog is the demo catalog inserted into an empty store.
func SampleCatalog() []model.Product {
	return []model.Product{
		{
			Name:         `Interface Android 9" Corolla`,
			Category:     model.CategoryInterface,
			VehicleModel: "corolla",
			YearStart:    2014,
			YearEnd:      2019,
			Price:        899.9,
			Stock:        3,
			Description:  "Central multimídia Android com GPS, Bluetooth e Wi-Fi",
			Active:       true,
		},
		{
			Name:         "Interface Premium Corolla 2020+",
			Category:     model.CategoryInterface,
			VehicleModel: "corolla",
			YearStart:    2020,
			YearEnd:      2024,
			Price:        1299.9,
			Stock:        2,
			Description:  `Central multimídia premium com tela 10" e CarPlay`,
			Active:       true,
		},
		{
			Name:         "Som Pioneer DEH-X1980UB",
			Category:     model.CategoryAudio,
			VehicleModel: model.UniversalModel,
			YearStart:    2010,
			YearEnd:      2025,
			Price:        299.9,
			Stock:        5,
			Description:  "Rádio MP3 USB Bluetooth compatível com todos os carros",
			Active:       true,
		},
		{
			Name:         `Interface Civic 10"`,
			Category:     model.CategoryInterface,
			VehicleModel: "civic",
			YearStart:    2016,
			YearEnd:      2024,
			Price:        1199.9,
			Stock:        1,
			Description:  "Central multimídia específica Honda Civic com Android Auto",
			Active:       true,
		},
		{
			Name:         "Alarme Pósitron PX360BT",
			Category:     model.CategoryAlarm,
			VehicleModel: model.UniversalModel,
			YearStart:    2000,
			YearEnd:      2025,
			Price:        249.9,
			Stock:        8,
			Description:  "Alarme automotivo com controle via smartphone",
			Active:       true,
		},
	}
}

// SeedIfEmpty inserts the sample catalog when the store has no products.
// It returns the number of inserted products.
func SeedIfEmpty(ctx context.Context, gw Gateway) (int, error) {
	count, err := gw.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	products := SampleCatalog()
	if err := gw.InsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to insert sample catalog: %w", err)
	}
	return len(products), nil
}
