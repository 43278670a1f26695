package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Ledger operaciones del libro de stock. Se construye con el StockRepository de la
// transacción en curso: cada operación bloquea la fila (GetForUpdate) antes de escribir.
// El costo promedio solo cambia en Receive.
type Ledger struct {
	stock repository.StockRepository
}

// NewLedger construye el libro sobre el repositorio de la transacción.
func NewLedger(stock repository.StockRepository) Ledger {
	return Ledger{stock: stock}
}

// Receive registra una entrada: promedia el costo (CostCalculator) y suma la cantidad.
func (l Ledger) Receive(ctx context.Context, productID string, qty, costPerCrate decimal.Decimal, now time.Time) (*entity.StockPosition, error) {
	if !qty.IsPositive() || costPerCrate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	pos, err := l.stock.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	pos.AverageCostPerCrate = domaininv.CostCalculator(pos.QuantityCrates, pos.AverageCostPerCrate, qty, costPerCrate)
	pos.QuantityCrates = pos.QuantityCrates.Add(qty)
	pos.UpdatedAt = now
	if err := l.stock.Upsert(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// Deduct descuenta sin condición: el stock puede quedar negativo (sobreventa permitida).
func (l Ledger) Deduct(ctx context.Context, productID string, qty decimal.Decimal, now time.Time) (*entity.StockPosition, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return l.move(ctx, productID, qty.Neg(), now)
}

// Restock devuelve javas al stock (anulación de venta) sin tocar el costo promedio.
func (l Ledger) Restock(ctx context.Context, productID string, qty decimal.Decimal, now time.Time) (*entity.StockPosition, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return l.move(ctx, productID, qty, now)
}

// Apply aplica un delta con signo (ajustes). Delta cero es inválido.
func (l Ledger) Apply(ctx context.Context, productID string, delta decimal.Decimal, now time.Time) (*entity.StockPosition, error) {
	if delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	return l.move(ctx, productID, delta, now)
}

func (l Ledger) move(ctx context.Context, productID string, delta decimal.Decimal, now time.Time) (*entity.StockPosition, error) {
	pos, err := l.stock.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	pos.QuantityCrates = pos.QuantityCrates.Add(delta)
	pos.UpdatedAt = now
	if err := l.stock.Upsert(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}
