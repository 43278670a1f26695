package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition stock actual de un producto, en javas, con su costo promedio ponderado.
// QuantityCrates puede ser negativa (venta sobre stock aún no registrado).
type StockPosition struct {
	ProductID           string
	QuantityCrates      decimal.Decimal
	AverageCostPerCrate decimal.Decimal
	UpdatedAt           time.Time
}

// StockStatus clasificación derivada del stock (nunca se persiste).
type StockStatus string

const (
	StockStatusNegative StockStatus = "NEGATIVE"
	StockStatusLow      StockStatus = "LOW"
	StockStatusNormal   StockStatus = "NORMAL"
)
