package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// AdjustmentRepository puerto del registro de ajustes (solo inserción).
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.Adjustment) error
	// List devuelve ajustes del producto (todos si productID es vacío), más recientes primero.
	List(ctx context.Context, productID string, limit, offset int) ([]*entity.Adjustment, error)
}
