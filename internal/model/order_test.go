package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderPending, false},
		{OrderPending, OrderCancelled, true},
		{OrderShipped, OrderCancelled, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestOrderReference(t *testing.T) {
	o := &Order{ID: "0190f3a2-7b1c-7def-8abc-1234567890ab"}
	assert.Equal(t, "7890ab", o.Reference())

	short := &Order{ID: "abc"}
	assert.Equal(t, "abc", short.Reference())
}

func TestProductFilterMatches(t *testing.T) {
	year := func(y int) *int { return &y }
	p := &Product{Category: CategoryAudio, VehicleModel: UniversalModel, YearStart: 2010, YearEnd: 2025, Stock: 5, Active: true}

	assert.True(t, ProductFilter{Category: "som", VehicleModel: "corolla", Year: year(2018), Available: true}.Matches(p))
	assert.False(t, ProductFilter{Category: "alarme"}.Matches(p))
	assert.False(t, ProductFilter{Year: year(2009)}.Matches(p))

	p.Stock = 0
	assert.False(t, ProductFilter{Available: true}.Matches(p))
	assert.True(t, ProductFilter{}.Matches(p))
}
