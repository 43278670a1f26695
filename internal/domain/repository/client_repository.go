package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ClientFilter filtros del listado de clientes.
type ClientFilter struct {
	Search       string
	ActiveOnly   bool
	WithDebtOnly bool
	Limit        int
	Offset       int
}

// ClientRepository puerto de persistencia de clientes.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Client, error)
	// Update modifica datos maestros (nombre, whatsapp, límite, activo); no toca la deuda.
	Update(ctx context.Context, client *entity.Client) error
	// UpdateDebt fija la deuda; lastPayment nil conserva la fecha de último abono.
	UpdateDebt(ctx context.Context, id string, debt decimal.Decimal, lastPayment *time.Time) error
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
}
