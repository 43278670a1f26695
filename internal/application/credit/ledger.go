// Package credit implementa la cuenta corriente de clientes: ventas a crédito,
// amortizaciones, abonos y reversión por anulación.
package credit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	domaincredit "github.com/jhoicas/Ventas-api/internal/domain/credit"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Ledger opera sobre el ClientRepository de la transacción en curso.
// Los métodos reciben el cliente ya bloqueado (GetForUpdate) y actualizan CurrentDebt en memoria y en BD.
// No aplica el límite de crédito: esa confirmación corresponde al procesador de ventas.
type Ledger struct {
	clients repository.ClientRepository
}

// NewLedger construye la cuenta corriente sobre el repositorio de la transacción.
func NewLedger(clients repository.ClientRepository) Ledger {
	return Ledger{clients: clients}
}

// Lock obtiene y bloquea la fila del cliente.
func (l Ledger) Lock(ctx context.Context, clientID string) (*entity.Client, error) {
	client, err := l.clients.GetForUpdate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// ApplySaleOnCredit: nueva = anterior + amount - amortization. Devuelve (anterior, nueva).
func (l Ledger) ApplySaleOnCredit(ctx context.Context, client *entity.Client, amount, amortization decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.IsNegative() || amortization.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	previous := client.CurrentDebt
	next := domaincredit.ApplySale(previous, amount, amortization)
	if err := l.clients.UpdateDebt(ctx, client.ID, next, nil); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	client.CurrentDebt = next
	return previous, next, nil
}

// RecordPayment descuenta el abono de la deuda y fija la fecha de último pago.
func (l Ledger) RecordPayment(ctx context.Context, client *entity.Client, amount decimal.Decimal, at time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	previous := client.CurrentDebt
	next := previous.Sub(amount)
	if err := l.clients.UpdateDebt(ctx, client.ID, next, &at); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	client.CurrentDebt = next
	client.LastPaymentDate = &at
	return previous, next, nil
}

// ReverseSale resta a la deuda actual el delta que causó una venta anulada.
func (l Ledger) ReverseSale(ctx context.Context, client *entity.Client, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	next := client.CurrentDebt.Sub(delta)
	if err := l.clients.UpdateDebt(ctx, client.ID, next, nil); err != nil {
		return err
	}
	client.CurrentDebt = next
	return nil
}
