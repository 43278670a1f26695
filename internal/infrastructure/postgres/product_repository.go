package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/catalog"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "name", "type", "quality", "conversion_factor", "is_active", "created_at", "updated_at",
}

type productRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Type             string          `db:"type"`
	Quality          string          `db:"quality"`
	ConversionFactor decimal.Decimal `db:"conversion_factor"`
	IsActive         bool            `db:"is_active"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:               r.ID,
		Name:             r.Name,
		Type:             r.Type,
		Quality:          r.Quality,
		ConversionFactor: r.ConversionFactor,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto. Nombre + tipo + calidad repetidos → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, type, quality, catalog_key, search_key, conversion_factor, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Type, p.Quality,
		catalog.IdentityKey(p.Name, p.Type, p.Quality), catalog.Key(p.DisplayName()),
		p.ConversionFactor, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	sql, args, err := builder.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza factor y estado. La identidad no cambia.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET conversion_factor = $2, is_active = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.ConversionFactor, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por identidad.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	q := builder.Select(productColumns...).From("products").OrderBy("catalog_key")
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if key := catalog.Key(filter.Search); key != "" {
		q = q.Where(squirrel.Like{"search_key": "%" + key + "%"})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// CountUsage suma líneas de venta, ajustes y líneas de ingreso del producto.
func (r *ProductRepo) CountUsage(ctx context.Context, id string) (int, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM sale_items WHERE product_id = $1)
		     + (SELECT COUNT(*) FROM adjustments WHERE product_id = $1)
		     + (SELECT COUNT(*) FROM inbound_lot_items WHERE product_id = $1)`
	var count int
	if err := r.q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count product usage: %w", err)
	}
	return count, nil
}

// Delete borra el producto (su posición de stock cae en cascada).
// Si alguna referencia apareció entre el conteo y el borrado, la FK lo impide → ErrInvalidState.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Join(domain.ErrInvalidState, err)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
