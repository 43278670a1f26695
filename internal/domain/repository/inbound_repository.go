package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// InboundRepository puerto de ingresos de mercadería (lote + líneas).
type InboundRepository interface {
	Create(ctx context.Context, lot *entity.InboundLot) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.InboundLot, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InboundLot, error)
}
