package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypeCash  = "CASH"
	SaleTypeOrder = "ORDER"
)

// Métodos de pago.
const (
	PaymentMethodCash           = "CASH"
	PaymentMethodDigitalWalletA = "DIGITAL_WALLET_A"
	PaymentMethodDigitalWalletB = "DIGITAL_WALLET_B"
	PaymentMethodBankTransfer   = "BANK_TRANSFER"
	PaymentMethodCredit         = "CREDIT"
)

// PaymentMethods lista de métodos válidos en orden de presentación.
var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodDigitalWalletA,
	PaymentMethodDigitalWalletB,
	PaymentMethodBankTransfer,
	PaymentMethodCredit,
}

// IsValidPaymentMethod indica si m es un método de pago conocido.
func IsValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale cabecera de venta. Inmutable una vez confirmada salvo IsPrinted y la anulación.
// PreviousDebt/NewDebt solo existen cuando la venta movió la cuenta del cliente.
type Sale struct {
	ID             string
	Date           time.Time
	Type           string
	ClientID       *string
	GuestName      string
	PaymentMethod  string
	Amortization   decimal.Decimal
	PreviousDebt   *decimal.Decimal
	NewDebt        *decimal.Decimal
	TotalAmount    decimal.Decimal
	IsPrinted      bool
	IsCancelled    bool
	CancelledAt    *time.Time
	CancelledBy    *string
	IdempotencyKey *string
	CreatedBy      string
	CreatedAt      time.Time
	Items          []SaleItem
}

// SaleItem línea de venta. ConversionFactor es la foto del factor al momento de la venta.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductID        string
	QuantityKg       decimal.Decimal
	QuantityJavas    decimal.Decimal
	ConversionFactor decimal.Decimal
	PricePerKg       decimal.Decimal
	Subtotal         decimal.Decimal
}

// DebtDelta variación de deuda que causó la venta (cero si no tocó la cuenta del cliente).
func (s *Sale) DebtDelta() decimal.Decimal {
	if s.PreviousDebt == nil || s.NewDebt == nil {
		return decimal.Zero
	}
	return s.NewDebt.Sub(*s.PreviousDebt)
}

// MethodTotal agregado por método de pago para el cuadre diario.
type MethodTotal struct {
	Method       string
	Count        int
	Amount       decimal.Decimal
	Amortization decimal.Decimal
}
