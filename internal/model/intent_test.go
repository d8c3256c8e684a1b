package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentMergeNeverErasesKnownSlots(t *testing.T) {
	steps := []Intent{
		{Category: "alarme"},
		{},
		{VehicleModel: "corolla"},
		{Category: "", VehicleYear: "2018"},
		{},
	}

	var got Intent
	for _, step := range steps {
		got = got.Merge(step)
	}

	assert.Equal(t, Intent{Category: "alarme", VehicleModel: "corolla", VehicleYear: "2018"}, got)
}

func TestIntentMergeCorrectsWithNewValue(t *testing.T) {
	got := Intent{Category: "alarme", VehicleYear: "2015"}.Merge(Intent{Category: "som"})

	assert.Equal(t, "som", got.Category)
	assert.Equal(t, "2015", got.VehicleYear)
}

func TestIntentMergeIsIdempotent(t *testing.T) {
	base := Intent{Category: "interface"}
	update := Intent{VehicleModel: "civic", VehicleYear: "2017"}

	once := base.Merge(update)
	twice := once.Merge(update)

	assert.Equal(t, once, twice)
}

func TestIntentComplete(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   bool
	}{
		{"empty", Intent{}, false},
		{"category only", Intent{Category: "alarme"}, false},
		{"missing year", Intent{Category: "som", VehicleModel: "gol"}, false},
		{"all slots", Intent{Category: "som", VehicleModel: "gol", VehicleYear: "2012"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.intent.Complete())
		})
	}
}
