package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client cliente con cuenta corriente (ventas a crédito y abonos).
// CurrentDebt negativo representa saldo a favor del cliente.
// CreditLimit en cero significa que no hay límite configurado.
type Client struct {
	ID              string
	Name            string
	WhatsAppNumber  string
	CurrentDebt     decimal.Decimal
	CreditLimit     decimal.Decimal
	LastPaymentDate *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DebtSemaphore semáforo de deuda (derivado).
type DebtSemaphore string

const (
	DebtGreen  DebtSemaphore = "GREEN"
	DebtYellow DebtSemaphore = "YELLOW"
	DebtRed    DebtSemaphore = "RED"
)
