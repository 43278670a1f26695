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

var (
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
	_ repository.PaymentRepository    = (*PaymentRepo)(nil)
	_ repository.InboundRepository    = (*InboundRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

type adjustmentRow struct {
	ID             string          `db:"id"`
	ProductID      string          `db:"product_id"`
	QuantityCrates decimal.Decimal `db:"quantity_crates"`
	Type           string          `db:"adjustment_type"`
	Reason         string          `db:"reason"`
	CostImpact     decimal.Decimal `db:"cost_impact"`
	CreatedBy      string          `db:"created_by"`
	CreatedAt      time.Time       `db:"created_at"`
}

// AdjustmentRepo registro de ajustes (solo inserción).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO adjustments (id, product_id, quantity_crates, adjustment_type, reason, cost_impact, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ProductID, a.QuantityCrates, a.Type, a.Reason, a.CostImpact, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

func (r *AdjustmentRepo) List(ctx context.Context, productID string, limit, offset int) ([]*entity.Adjustment, error) {
	q := builder.Select("id", "product_id", "quantity_crates", "adjustment_type", "reason", "cost_impact", "created_by", "created_at").
		From("adjustments").
		OrderBy("created_at DESC").
		Limit(limitOrDefault(limit)).
		Offset(offsetOrZero(offset))
	if productID != "" {
		q = q.Where(squirrel.Eq{"product_id": productID})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list adjustments: %w", err)
	}
	var rows []adjustmentRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	out := make([]*entity.Adjustment, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Adjustment{
			ID:             row.ID,
			ProductID:      row.ProductID,
			QuantityCrates: row.QuantityCrates,
			Type:           row.Type,
			Reason:         row.Reason,
			CostImpact:     row.CostImpact,
			CreatedBy:      row.CreatedBy,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

type paymentRow struct {
	ID            string          `db:"id"`
	ClientID      string          `db:"client_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	CreatedBy     string          `db:"created_by"`
	CreatedAt     time.Time       `db:"created_at"`
}

// PaymentRepo abonos de clientes (solo inserción).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, client_id, amount, payment_method, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ClientID, p.Amount, p.PaymentMethod, p.Notes, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Payment, error) {
	sql, args, err := builder.Select("id", "client_id", "amount", "payment_method", "notes", "created_by", "created_at").
		From("payments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		Limit(limitOrDefault(limit)).
		Offset(offsetOrZero(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payments: %w", err)
	}
	var rows []paymentRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]*entity.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Payment{
			ID:            row.ID,
			ClientID:      row.ClientID,
			Amount:        row.Amount,
			PaymentMethod: row.PaymentMethod,
			Notes:         row.Notes,
			CreatedBy:     row.CreatedBy,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, nil
}

func (r *PaymentRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingresos de mercadería
// ──────────────────────────────────────────────────────────────────────────────

type inboundLotRow struct {
	ID           string          `db:"id"`
	SupplierName string          `db:"supplier_name"`
	TruckID      string          `db:"truck_id"`
	Date         time.Time       `db:"date"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	CreatedBy    string          `db:"created_by"`
	CreatedAt    time.Time       `db:"created_at"`
}

type inboundItemRow struct {
	ID             string          `db:"id"`
	LotID          string          `db:"lot_id"`
	ProductID      string          `db:"product_id"`
	QuantityCrates decimal.Decimal `db:"quantity_crates"`
	CostPerCrate   decimal.Decimal `db:"cost_per_crate"`
	TotalCost      decimal.Decimal `db:"total_cost"`
}

var inboundLotColumns = []string{"id", "supplier_name", "truck_id", "date", "total_cost", "created_by", "created_at"}

// InboundRepo ingresos (lote + líneas).
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

func (r *InboundRepo) Create(ctx context.Context, lot *entity.InboundLot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inbound_lots (id, supplier_name, truck_id, date, total_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lot.ID, lot.SupplierName, lot.TruckID, lot.Date, lot.TotalCost, lot.CreatedBy, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inbound lot: %w", err)
	}
	if len(lot.Items) == 0 {
		return nil
	}
	ins := builder.Insert("inbound_lot_items").Columns("id", "lot_id", "product_id", "quantity_crates", "cost_per_crate", "total_cost")
	for _, it := range lot.Items {
		ins = ins.Values(it.ID, lot.ID, it.ProductID, it.QuantityCrates, it.CostPerCrate, it.TotalCost)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert inbound items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert inbound items: %w", err)
	}
	return nil
}

func (r *InboundRepo) GetByID(ctx context.Context, id string) (*entity.InboundLot, error) {
	sql, args, err := builder.Select(inboundLotColumns...).From("inbound_lots").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get inbound lot: %w", err)
	}
	var row inboundLotRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound lot: %w", err)
	}
	lots := []*entity.InboundLot{lotFromRow(row)}
	if err := r.attachItems(ctx, lots); err != nil {
		return nil, err
	}
	return lots[0], nil
}

func (r *InboundRepo) List(ctx context.Context, limit, offset int) ([]*entity.InboundLot, error) {
	sql, args, err := builder.Select(inboundLotColumns...).From("inbound_lots").
		OrderBy("date DESC").
		Limit(limitOrDefault(limit)).
		Offset(offsetOrZero(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inbound lots: %w", err)
	}
	var rows []inboundLotRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list inbound lots: %w", err)
	}
	lots := make([]*entity.InboundLot, 0, len(rows))
	for _, row := range rows {
		lots = append(lots, lotFromRow(row))
	}
	if err := r.attachItems(ctx, lots); err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *InboundRepo) attachItems(ctx context.Context, lots []*entity.InboundLot) error {
	if len(lots) == 0 {
		return nil
	}
	ids := make([]string, 0, len(lots))
	byID := make(map[string]*entity.InboundLot, len(lots))
	for _, l := range lots {
		ids = append(ids, l.ID)
		byID[l.ID] = l
	}
	var rows []inboundItemRow
	err := pgxscan.Select(ctx, r.q, &rows, `
		SELECT id, lot_id, product_id, quantity_crates, cost_per_crate, total_cost
		FROM inbound_lot_items WHERE lot_id = ANY($1) ORDER BY lot_id, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list inbound items: %w", err)
	}
	for _, it := range rows {
		l := byID[it.LotID]
		l.Items = append(l.Items, entity.InboundLotItem{
			ID:             it.ID,
			LotID:          it.LotID,
			ProductID:      it.ProductID,
			QuantityCrates: it.QuantityCrates,
			CostPerCrate:   it.CostPerCrate,
			TotalCost:      it.TotalCost,
		})
	}
	return nil
}

func lotFromRow(row inboundLotRow) *entity.InboundLot {
	return &entity.InboundLot{
		ID:           row.ID,
		SupplierName: row.SupplierName,
		TruckID:      row.TruckID,
		Date:         row.Date,
		TotalCost:    row.TotalCost,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
	}
}
