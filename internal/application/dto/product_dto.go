package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/catalog"
)

// CreateProductRequest body para POST /api/products.
// ConversionFactor opcional: si no viene se usa el factor por defecto (17 kg por java).
type CreateProductRequest struct {
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Quality          string           `json:"quality"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
// Nombre, tipo y calidad son la identidad del producto y no se modifican.
type UpdateProductRequest struct {
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Quality          string          `json:"quality"`
	DisplayName      string          `json:"display_name"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductUsageResponse resultado de checkProductUsage.
type ProductUsageResponse struct {
	ProductID  string `json:"product_id"`
	HasHistory bool   `json:"has_history"`
	UsageCount int    `json:"usage_count"`
}

// DeleteProductResponse resultado de deleteProductSafely: "DELETED" o "ARCHIVED".
type DeleteProductResponse struct {
	ProductID string `json:"product_id"`
	Outcome   string `json:"outcome"`
}

// NavigateCatalogRequest body para POST /api/products/tree/navigate.
type NavigateCatalogRequest struct {
	State  catalog.NavState `json:"state"`
	Action catalog.Action   `json:"action"`
}

// NavigateCatalogResponse nuevo estado del selector y opciones a mostrar.
type NavigateCatalogResponse struct {
	State    catalog.NavState   `json:"state"`
	Families []catalog.Family   `json:"families,omitempty"`
	Types    []catalog.TypeNode `json:"types,omitempty"`
	Variants []catalog.Variant  `json:"variants,omitempty"`
}
