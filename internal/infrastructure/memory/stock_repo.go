package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo posiciones de stock en memoria. Dentro de una tx el lock del store ya serializa,
// así que GetForUpdate equivale a Get.
type StockRepo struct {
	h handle
}

func (r *StockRepo) Get(_ context.Context, productID string) (*entity.StockPosition, error) {
	var out entity.StockPosition
	err := r.h.with(func(d *dataset) error {
		pos, ok := d.stock[productID]
		if !ok {
			pos = entity.StockPosition{ProductID: productID, QuantityCrates: decimal.Zero, AverageCostPerCrate: decimal.Zero}
		}
		out = pos
		return nil
	})
	return &out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockPosition, error) {
	return r.Get(ctx, productID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.StockPosition) error {
	return r.h.with(func(d *dataset) error {
		d.stock[stock.ProductID] = *stock
		return nil
	})
}

func (r *StockRepo) List(_ context.Context) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	err := r.h.with(func(d *dataset) error {
		for _, p := range d.stock {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}
