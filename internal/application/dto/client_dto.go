package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name           string           `json:"name"`
	WhatsAppNumber string           `json:"whatsapp_number,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id.
type UpdateClientRequest struct {
	Name           *string          `json:"name,omitempty"`
	WhatsAppNumber *string          `json:"whatsapp_number,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// ClientResponse cliente con semáforo y días sin abonar calculados al leer.
type ClientResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	WhatsAppNumber     string          `json:"whatsapp_number,omitempty"`
	CurrentDebt        decimal.Decimal `json:"current_debt"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	DaysWithoutPayment *int            `json:"days_without_payment"`
	DebtSemaphore      string          `json:"debt_semaphore"`
	IsActive           bool            `json:"is_active"`
}

// RecordPaymentRequest body para POST /api/clients/:id/payments.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// PaymentResponse abono registrado, con la deuda resultante.
type PaymentResponse struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	PreviousDebt  *decimal.Decimal `json:"previous_debt,omitempty"`
	NewDebt       *decimal.Decimal `json:"new_debt,omitempty"`
}
