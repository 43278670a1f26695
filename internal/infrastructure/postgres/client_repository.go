package postgres

import (
	"context"
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

var _ repository.ClientRepository = (*ClientRepo)(nil)

var clientColumns = []string{
	"id", "name", "whatsapp_number", "current_debt", "credit_limit",
	"last_payment_date", "is_active", "created_at", "updated_at",
}

type clientRow struct {
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	WhatsAppNumber  string          `db:"whatsapp_number"`
	CurrentDebt     decimal.Decimal `db:"current_debt"`
	CreditLimit     decimal.Decimal `db:"credit_limit"`
	LastPaymentDate *time.Time      `db:"last_payment_date"`
	IsActive        bool            `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r clientRow) toEntity() *entity.Client {
	return &entity.Client{
		ID:              r.ID,
		Name:            r.Name,
		WhatsAppNumber:  r.WhatsAppNumber,
		CurrentDebt:     r.CurrentDebt,
		CreditLimit:     r.CreditLimit,
		LastPaymentDate: r.LastPaymentDate,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, search_key, whatsapp_number, current_debt, credit_limit, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, catalog.Key(c.Name), c.WhatsAppNumber, c.CurrentDebt, c.CreditLimit, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Client, error) {
	q := builder.Select(clientColumns...).From("clients").Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get client: %w", err)
	}
	var row clientRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el cliente bloqueando su fila hasta el fin de la tx.
func (r *ClientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, id, true)
}

// Update actualiza datos maestros (no la deuda).
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $2, search_key = $3, whatsapp_number = $4, credit_limit = $5, is_active = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, catalog.Key(c.Name), c.WhatsAppNumber, c.CreditLimit, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDebt fija la deuda y, si viene, la fecha del último abono.
func (r *ClientRepo) UpdateDebt(ctx context.Context, id string, debt decimal.Decimal, lastPayment *time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE clients SET current_debt = $2, last_payment_date = COALESCE($3, last_payment_date), updated_at = now()
		WHERE id = $1`,
		id, debt, lastPayment,
	)
	if err != nil {
		return fmt.Errorf("update client debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes por nombre con filtros y paginación.
func (r *ClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]*entity.Client, error) {
	q := builder.Select(clientColumns...).From("clients").
		OrderBy("search_key").
		Limit(limitOrDefault(filter.Limit)).
		Offset(offsetOrZero(filter.Offset))
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.WithDebtOnly {
		q = q.Where(squirrel.Gt{"current_debt": 0})
	}
	if key := catalog.Key(filter.Search); key != "" {
		q = q.Where(squirrel.Like{"search_key": "%" + key + "%"})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}
	var rows []clientRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]*entity.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
