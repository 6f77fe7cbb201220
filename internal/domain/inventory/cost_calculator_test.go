package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pos-pro/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name                       string
		stock, cost, qtyIn, costIn string
		want                       string
	}{
		{
			name:  "entrada más cara sube el promedio",
			stock: "10", cost: "8", qtyIn: "5", costIn: "20",
			want: "12", // (10*8 + 5*20) / 15
		},
		{
			name:  "primera entrada fija el costo",
			stock: "0", cost: "0", qtyIn: "5", costIn: "7.5",
			want: "7.5",
		},
		{
			name:  "entrada al mismo costo no cambia el promedio",
			stock: "20", cost: "3.5", qtyIn: "10", costIn: "3.5",
			want: "3.5",
		},
		{
			name:  "sin stock ni entrada el costo es cero",
			stock: "0", cost: "9", qtyIn: "0", costIn: "9",
			want: "0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(
				decimal.RequireFromString(tc.stock),
				decimal.RequireFromString(tc.cost),
				decimal.RequireFromString(tc.qtyIn),
				decimal.RequireFromString(tc.costIn),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"esperado %s, obtenido %s", tc.want, got)
		})
	}
}
