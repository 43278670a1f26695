package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestCostCalculator_PrimeraEntradaTomaCostoDeEntrada(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, d("10"), d("5"))
	assert.True(t, got.Equal(d("5")), "got %s", got)
}

func TestCostCalculator_SegundaEntradaPromedia(t *testing.T) {
	// (10*5 + 5*8) / 15 = 6
	got := inventory.CostCalculator(d("10"), d("5"), d("5"), d("8"))
	assert.True(t, got.Equal(d("6")), "got %s", got)
}

func TestCostCalculator_StockNegativoAbsorbidoUsaCostoEntrada(t *testing.T) {
	// -10 + 4 = -6 → denominador no positivo
	got := inventory.CostCalculator(d("-10"), d("7"), d("4"), d("9"))
	assert.True(t, got.Equal(d("9")), "got %s", got)

	got = inventory.CostCalculator(d("-4"), d("7"), d("4"), d("9"))
	assert.True(t, got.Equal(d("9")), "denominador cero: got %s", got)
}

func TestCostCalculator_StockNegativoParcialmenteCubierto(t *testing.T) {
	// (-2*5 + 4*8) / 2 = 11
	got := inventory.CostCalculator(d("-2"), d("5"), d("4"), d("8"))
	assert.True(t, got.Equal(d("11")), "got %s", got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado del stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStatus_Clasificacion(t *testing.T) {
	threshold := d("5")
	cases := []struct {
		qty  string
		want entity.StockStatus
	}{
		{"-0.5", entity.StockStatusNegative},
		{"0", entity.StockStatusLow},
		{"4.99", entity.StockStatusLow},
		{"5", entity.StockStatusNormal},
		{"120", entity.StockStatusNormal},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, inventory.Status(d(c.qty), threshold), "qty=%s", c.qty)
	}
}
