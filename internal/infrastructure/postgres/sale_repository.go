package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

var saleColumns = []string{
	"id", "date", "type", "client_id", "guest_name", "payment_method", "amortization",
	"previous_debt", "new_debt", "total_amount", "is_printed", "is_cancelled",
	"cancelled_at", "cancelled_by", "idempotency_key", "created_by", "created_at",
}

type saleRow struct {
	ID             string           `db:"id"`
	Date           time.Time        `db:"date"`
	Type           string           `db:"type"`
	ClientID       *string          `db:"client_id"`
	GuestName      string           `db:"guest_name"`
	PaymentMethod  string           `db:"payment_method"`
	Amortization   decimal.Decimal  `db:"amortization"`
	PreviousDebt   *decimal.Decimal `db:"previous_debt"`
	NewDebt        *decimal.Decimal `db:"new_debt"`
	TotalAmount    decimal.Decimal  `db:"total_amount"`
	IsPrinted      bool             `db:"is_printed"`
	IsCancelled    bool             `db:"is_cancelled"`
	CancelledAt    *time.Time       `db:"cancelled_at"`
	CancelledBy    *string          `db:"cancelled_by"`
	IdempotencyKey *string          `db:"idempotency_key"`
	CreatedBy      string           `db:"created_by"`
	CreatedAt      time.Time        `db:"created_at"`
}

func (r saleRow) toEntity() *entity.Sale {
	return &entity.Sale{
		ID:             r.ID,
		Date:           r.Date,
		Type:           r.Type,
		ClientID:       r.ClientID,
		GuestName:      r.GuestName,
		PaymentMethod:  r.PaymentMethod,
		Amortization:   r.Amortization,
		PreviousDebt:   r.PreviousDebt,
		NewDebt:        r.NewDebt,
		TotalAmount:    r.TotalAmount,
		IsPrinted:      r.IsPrinted,
		IsCancelled:    r.IsCancelled,
		CancelledAt:    r.CancelledAt,
		CancelledBy:    r.CancelledBy,
		IdempotencyKey: r.IdempotencyKey,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}

type saleItemRow struct {
	ID               string          `db:"id"`
	SaleID           string          `db:"sale_id"`
	ProductID        string          `db:"product_id"`
	QuantityKg       decimal.Decimal `db:"quantity_kg"`
	QuantityJavas    decimal.Decimal `db:"quantity_javas"`
	ConversionFactor decimal.Decimal `db:"conversion_factor"`
	PricePerKg       decimal.Decimal `db:"price_per_kg"`
	Subtotal         decimal.Decimal `db:"subtotal"`
}

type methodTotalRow struct {
	Method       string          `db:"payment_method"`
	Count        int             `db:"count"`
	Amount       decimal.Decimal `db:"amount"`
	Amortization decimal.Decimal `db:"amortization"`
}

// SaleRepo implementación de SaleRepository (cabecera + líneas) sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, date, type, client_id, guest_name, payment_method, amortization,
		                   previous_debt, new_debt, total_amount, is_printed, is_cancelled,
		                   idempotency_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12, $13, $14)`,
		s.ID, s.Date, s.Type, s.ClientID, s.GuestName, s.PaymentMethod, s.Amortization,
		s.PreviousDebt, s.NewDebt, s.TotalAmount, s.IsPrinted,
		s.IdempotencyKey, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	ins := builder.Insert("sale_items").Columns(
		"id", "sale_id", "product_id", "quantity_kg", "quantity_javas", "conversion_factor", "price_per_kg", "subtotal",
	)
	for _, it := range s.Items {
		ins = ins.Values(it.ID, s.ID, it.ProductID, it.QuantityKg, it.QuantityJavas, it.ConversionFactor, it.PricePerKg, it.Subtotal)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*entity.Sale, error) {
	q := builder.Select(saleColumns...).From("sales").Where(where)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale: %w", err)
	}
	var row saleRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	sale := row.toEntity()
	if err := r.attachItems(ctx, []*entity.Sale{sale}); err != nil {
		return nil, err
	}
	return sale, nil
}

// attachItems carga las líneas de todas las ventas con una sola consulta.
func (r *SaleRepo) attachItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	var rows []saleItemRow
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT id, sale_id, product_id, quantity_kg, quantity_javas, conversion_factor, price_per_kg, subtotal
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	for _, it := range rows {
		s := byID[it.SaleID]
		s.Items = append(s.Items, entity.SaleItem{
			ID:               it.ID,
			SaleID:           it.SaleID,
			ProductID:        it.ProductID,
			QuantityKg:       it.QuantityKg,
			QuantityJavas:    it.QuantityJavas,
			ConversionFactor: it.ConversionFactor,
			PricePerKg:       it.PricePerKg,
			Subtotal:         it.Subtotal,
		})
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetForUpdate obtiene la venta bloqueando la cabecera (anulación).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true)
}

// GetByIdempotencyKey busca la venta confirmada con esa clave.
func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"idempotency_key": key}, false)
}

// MarkCancelled marca la venta como anulada si aún no lo estaba.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id string, at time.Time, by string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET is_cancelled = TRUE, cancelled_at = $2, cancelled_by = $3
		WHERE id = $1 AND NOT is_cancelled`, id, at, by)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// MarkPrinted marca el ticket como impreso.
func (r *SaleRepo) MarkPrinted(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET is_printed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark sale printed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ventas filtradas, más recientes primero, con sus líneas.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	q := builder.Select(saleColumns...).From("sales").
		OrderBy("date DESC", "id DESC").
		Limit(limitOrDefault(filter.Limit)).
		Offset(offsetOrZero(filter.Offset))
	if !filter.IncludeCancelled {
		q = q.Where(squirrel.Eq{"is_cancelled": false})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"date": *filter.To})
	}
	if filter.ClientID != "" {
		q = q.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	var rows []saleRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeByMethod agrega ventas no anuladas de [from, to) por método de pago.
func (r *SaleRepo) SummarizeByMethod(ctx context.Context, from, to time.Time) ([]entity.MethodTotal, error) {
	var rows []methodTotalRow
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT payment_method,
		       COUNT(*)                           AS count,
		       COALESCE(SUM(total_amount), 0)     AS amount,
		       COALESCE(SUM(amortization), 0)     AS amortization
		FROM sales
		WHERE NOT is_cancelled AND date >= $1 AND date < $2
		GROUP BY payment_method
		ORDER BY payment_method`, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize sales: %w", err)
	}
	out := make([]entity.MethodTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.MethodTotal{
			Method:       row.Method,
			Count:        row.Count,
			Amount:       row.Amount,
			Amortization: row.Amortization,
		})
	}
	return out, nil
}
