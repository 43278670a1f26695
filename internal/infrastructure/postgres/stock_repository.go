package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

type stockRow struct {
	ProductID           string          `db:"product_id"`
	QuantityCrates      decimal.Decimal `db:"quantity_crates"`
	AverageCostPerCrate decimal.Decimal `db:"average_cost_per_crate"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (r stockRow) toEntity() *entity.StockPosition {
	return &entity.StockPosition{
		ProductID:           r.ProductID,
		QuantityCrates:      r.QuantityCrates,
		AverageCostPerCrate: r.AverageCostPerCrate,
		UpdatedAt:           r.UpdatedAt,
	}
}

func emptyPosition(productID string) *entity.StockPosition {
	return &entity.StockPosition{ProductID: productID, QuantityCrates: decimal.Zero, AverageCostPerCrate: decimal.Zero}
}

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockSelect = `
	SELECT product_id, quantity_crates, average_cost_per_crate, updated_at
	FROM stock_positions WHERE product_id = $1`

// Get obtiene la posición actual de un producto (en cero si no tiene fila).
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.StockPosition, error) {
	var row stockRow
	if err := pgxscan.Get(ctx, r.q, &row, stockSelect, productID); err != nil {
		if pgxscan.NotFound(err) {
			return emptyPosition(productID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
// Si el producto aún no tiene fila se crea en cero antes de bloquear, para que dos
// primeros ingresos concurrentes también se serialicen.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockPosition, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_positions (product_id, quantity_crates, average_cost_per_crate, updated_at)
		VALUES ($1, 0, 0, now())
		ON CONFLICT (product_id) DO NOTHING`, productID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	var row stockRow
	if err := pgxscan.Get(ctx, r.q, &row, stockSelect+` FOR UPDATE`, productID); err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return row.toEntity(), nil
}

// Upsert inserta o actualiza la posición del producto.
func (r *StockRepo) Upsert(ctx context.Context, s *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (product_id, quantity_crates, average_cost_per_crate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity_crates = EXCLUDED.quantity_crates,
		              average_cost_per_crate = EXCLUDED.average_cost_per_crate,
		              updated_at = EXCLUDED.updated_at`
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	if _, err := r.q.Exec(ctx, query, s.ProductID, s.QuantityCrates, s.AverageCostPerCrate, updated); err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List devuelve todas las posiciones existentes.
func (r *StockRepo) List(ctx context.Context) ([]*entity.StockPosition, error) {
	var rows []stockRow
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT product_id, quantity_crates, average_cost_per_crate, updated_at
		FROM stock_positions ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	out := make([]*entity.StockPosition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
