package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. From inclusivo, To exclusivo.
type SaleFilter struct {
	From             *time.Time
	To               *time.Time
	ClientID         string
	Type             string
	IncludeCancelled bool
	Limit            int
	Offset           int
}

// SaleRepository puerto de persistencia de ventas (cabecera + líneas).
// Las lecturas por id devuelven (nil, nil) si no existe.
type SaleRepository interface {
	// Create inserta cabecera y líneas. Devuelve domain.ErrDuplicate si la clave de idempotencia ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error)
	MarkCancelled(ctx context.Context, id string, at time.Time, by string) error
	MarkPrinted(ctx context.Context, id string) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// SummarizeByMethod agrega las ventas no anuladas de [from, to) por método de pago.
	SummarizeByMethod(ctx context.Context, from, to time.Time) ([]entity.MethodTotal, error)
}
