package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar la posición de stock por producto.
// Get y GetForUpdate devuelven una posición en cero si el producto aún no tiene fila.
type StockRepository interface {
	Get(ctx context.Context, productID string) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.StockPosition, error)
	Upsert(ctx context.Context, stock *entity.StockPosition) error
	List(ctx context.Context) ([]*entity.StockPosition, error)
}
