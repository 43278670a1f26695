package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono de un cliente a su cuenta corriente.
type Payment struct {
	ID            string
	ClientID      string
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
