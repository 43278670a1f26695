package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultConversionFactor kilos por java cuando el catálogo no indica otro valor.
var DefaultConversionFactor = decimal.NewFromInt(17)

// Product representa un producto del catálogo (nombre + tipo + calidad).
// ConversionFactor es kg por java; el stock se lleva en javas en StockPosition.
type Product struct {
	ID               string
	Name             string
	Type             string
	Quality          string
	ConversionFactor decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// KgToJavas convierte kilos a javas con el factor vigente del producto.
func (p *Product) KgToJavas(kg decimal.Decimal) decimal.Decimal {
	return kg.Div(p.ConversionFactor)
}

// JavasToKg convierte javas a kilos.
func (p *Product) JavasToKg(javas decimal.Decimal) decimal.Decimal {
	return javas.Mul(p.ConversionFactor)
}

// DisplayName nombre completo "Papa Amarilla Primera".
func (p *Product) DisplayName() string {
	name := p.Name
	if p.Type != "" {
		name += " " + p.Type
	}
	if p.Quality != "" {
		name += " " + p.Quality
	}
	return name
}

// Delete outcomes de DeleteProductSafely.
const (
	DeleteOutcomeDeleted  = "DELETED"
	DeleteOutcomeArchived = "ARCHIVED"
)
