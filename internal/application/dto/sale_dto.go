package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta: cantidad en kilos y precio por kilo.
type SaleItemRequest struct {
	ProductID  string          `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
}

// CreateSaleRequest body para POST /api/sales.
// ConfirmOverLimit confirma una venta que deja al cliente por encima de su límite de crédito.
type CreateSaleRequest struct {
	Type             string            `json:"type"`
	ClientID         string            `json:"client_id,omitempty"`
	GuestName        string            `json:"guest_name,omitempty"`
	PaymentMethod    string            `json:"payment_method"`
	Amortization     decimal.Decimal   `json:"amortization"`
	ConfirmOverLimit bool              `json:"confirm_over_limit,omitempty"`
	IdempotencyKey   string            `json:"idempotency_key,omitempty"`
	Items            []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta confirmada.
type SaleItemResponse struct {
	ProductID        string          `json:"product_id"`
	QuantityKg       decimal.Decimal `json:"quantity_kg"`
	QuantityJavas    decimal.Decimal `json:"quantity_javas"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	PricePerKg       decimal.Decimal `json:"price_per_kg"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	Type          string             `json:"type"`
	ClientID      *string            `json:"client_id,omitempty"`
	GuestName     string             `json:"guest_name,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Amortization  decimal.Decimal    `json:"amortization"`
	PreviousDebt  *decimal.Decimal   `json:"previous_debt,omitempty"`
	NewDebt       *decimal.Decimal   `json:"new_debt,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	IsPrinted     bool               `json:"is_printed"`
	IsCancelled   bool               `json:"is_cancelled"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CreatedBy     string             `json:"created_by"`
	Items         []SaleItemResponse `json:"items"`
}

// ListSalesQuery filtros de GET /api/sales. Date (YYYY-MM-DD) tiene prioridad sobre From/To.
type ListSalesQuery struct {
	Date             string `query:"date"`
	From             string `query:"from"`
	To               string `query:"to"`
	ClientID         string `query:"client_id"`
	Type             string `query:"type"`
	IncludeCancelled bool   `query:"include_cancelled"`
	Limit            int    `query:"limit"`
	Offset           int    `query:"offset"`
}
