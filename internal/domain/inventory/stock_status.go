package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// DefaultLowStockThreshold umbral de stock bajo (en javas) si la configuración no lo define.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// Status clasifica la cantidad en javas: NEGATIVE (< 0), LOW (< umbral) o NORMAL.
func Status(quantityCrates, lowThreshold decimal.Decimal) entity.StockStatus {
	switch {
	case quantityCrates.IsNegative():
		return entity.StockStatusNegative
	case quantityCrates.LessThan(lowThreshold):
		return entity.StockStatusLow
	default:
		return entity.StockStatusNormal
	}
}
