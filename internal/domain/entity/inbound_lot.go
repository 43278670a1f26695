package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de costo en un ingreso: por java o por kilo.
const (
	CostModeJava = "JAVA"
	CostModeKg   = "KG"
)

// InboundLot ingreso de mercadería (camión de un proveedor).
type InboundLot struct {
	ID           string
	SupplierName string
	TruckID      string
	Date         time.Time
	TotalCost    decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	Items        []InboundLotItem
}

// InboundLotItem línea del ingreso. CostPerCrate siempre queda expresado por java.
type InboundLotItem struct {
	ID             string
	LotID          string
	ProductID      string
	QuantityCrates decimal.Decimal
	CostPerCrate   decimal.Decimal
	TotalCost      decimal.Decimal
}
