package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	ActiveOnly bool
	Search     string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// CountUsage cuenta líneas de venta, ajustes e ingresos que referencian al producto.
	CountUsage(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
