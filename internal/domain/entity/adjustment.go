package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de inventario.
const (
	AdjustmentShrinkage           = "SHRINKAGE"
	AdjustmentTheft               = "THEFT"
	AdjustmentCountError          = "COUNT_ERROR"
	AdjustmentInternalConsumption = "INTERNAL_CONSUMPTION"
)

// IsValidAdjustmentType indica si t es un tipo de ajuste conocido.
func IsValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentShrinkage, AdjustmentTheft, AdjustmentCountError, AdjustmentInternalConsumption:
		return true
	}
	return false
}

// Adjustment movimiento de stock que no es venta (merma, robo, error de conteo, consumo interno).
// Solo inserción; nunca se modifica ni se borra.
type Adjustment struct {
	ID             string
	ProductID      string
	QuantityCrates decimal.Decimal // con signo
	Type           string
	Reason         string
	CostImpact     decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
}
