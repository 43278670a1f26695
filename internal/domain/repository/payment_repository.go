package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// PaymentRepository puerto de abonos de clientes (solo inserción).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error)
	// SumBetween total abonado en [from, to).
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
