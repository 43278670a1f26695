package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInfo posición de stock con campos derivados (kg y estado) calculados al leer.
type StockInfo struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	IsActive            bool            `json:"is_active"`
	ConversionFactor    decimal.Decimal `json:"conversion_factor"`
	QuantityCrates      decimal.Decimal `json:"quantity_crates"`
	QuantityKg          decimal.Decimal `json:"quantity_kg"`
	AverageCostPerCrate decimal.Decimal `json:"average_cost_per_crate"`
	StockValue          decimal.Decimal `json:"stock_value"`
	Status              string          `json:"status"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

// InboundItemRequest línea de ingreso. CostMode "JAVA" (defecto) o "KG".
type InboundItemRequest struct {
	ProductID      string          `json:"product_id"`
	QuantityCrates decimal.Decimal `json:"quantity_crates"`
	Cost           decimal.Decimal `json:"cost"`
	CostMode       string          `json:"cost_mode,omitempty"`
}

// RecordInboundRequest body para POST /api/inbound.
type RecordInboundRequest struct {
	SupplierName string               `json:"supplier_name"`
	TruckID      string               `json:"truck_id"`
	Items        []InboundItemRequest `json:"items"`
}

// InboundItemResponse línea de ingreso registrada.
type InboundItemResponse struct {
	ProductID      string          `json:"product_id"`
	QuantityCrates decimal.Decimal `json:"quantity_crates"`
	CostPerCrate   decimal.Decimal `json:"cost_per_crate"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// InboundLotResponse ingreso registrado.
type InboundLotResponse struct {
	ID           string                `json:"id"`
	SupplierName string                `json:"supplier_name"`
	TruckID      string                `json:"truck_id"`
	Date         time.Time             `json:"date"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	CreatedBy    string                `json:"created_by"`
	Items        []InboundItemResponse `json:"items"`
}

// RecordAdjustmentRequest body para POST /api/adjustments.
// QuantityCrates con signo: negativo descuenta, positivo suma.
type RecordAdjustmentRequest struct {
	ProductID      string           `json:"product_id"`
	QuantityCrates decimal.Decimal  `json:"quantity_crates"`
	Type           string           `json:"adjustment_type"`
	Reason         string           `json:"reason,omitempty"`
	CostImpact     *decimal.Decimal `json:"cost_impact,omitempty"`
}

// AdjustmentResponse ajuste registrado.
type AdjustmentResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	QuantityCrates decimal.Decimal `json:"quantity_crates"`
	Type           string          `json:"adjustment_type"`
	Reason         string          `json:"reason,omitempty"`
	CostImpact     decimal.Decimal `json:"cost_impact"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReplenishmentSuggestion producto a reponer. Priority 1 es el más urgente.
type ReplenishmentSuggestion struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Status              string          `json:"status"`
	CurrentCrates       decimal.Decimal `json:"current_crates"`
	IdealCrates         decimal.Decimal `json:"ideal_crates"`
	SuggestedCrates     decimal.Decimal `json:"suggested_crates"`
	AverageCostPerCrate decimal.Decimal `json:"average_cost_per_crate"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	CratesSoldLastWeek  decimal.Decimal `json:"crates_sold_last_week"`
	Priority            int             `json:"priority"`
}
