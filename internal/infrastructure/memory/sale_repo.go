package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria (cabecera con sus líneas).
type SaleRepo struct {
	h handle
}

// Create inserta la venta. La clave de idempotencia es única.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.h.with(func(d *dataset) error {
		if _, ok := d.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		if sale.IdempotencyKey != nil {
			for _, s := range d.sales {
				if s.IdempotencyKey != nil && *s.IdempotencyKey == *sale.IdempotencyKey {
					return domain.ErrDuplicate
				}
			}
		}
		d.sales[sale.ID] = copySale(*sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.with(func(d *dataset) error {
		if s, ok := d.sales[id]; ok {
			c := copySale(s)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.with(func(d *dataset) error {
		for _, s := range d.sales {
			if s.IdempotencyKey != nil && *s.IdempotencyKey == key {
				c := copySale(s)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) MarkCancelled(_ context.Context, id string, at time.Time, by string) error {
	return r.h.with(func(d *dataset) error {
		s, ok := d.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.IsCancelled = true
		s.CancelledAt = &at
		s.CancelledBy = &by
		d.sales[id] = s
		return nil
	})
}

func (r *SaleRepo) MarkPrinted(_ context.Context, id string) error {
	return r.h.with(func(d *dataset) error {
		s, ok := d.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.IsPrinted = true
		d.sales[id] = s
		return nil
	})
}

// List ventas filtradas, más recientes primero.
func (r *SaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.with(func(d *dataset) error {
		for _, s := range d.sales {
			if !filter.IncludeCancelled && s.IsCancelled {
				continue
			}
			if filter.From != nil && s.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !s.Date.Before(*filter.To) {
				continue
			}
			if filter.ClientID != "" && (s.ClientID == nil || *s.ClientID != filter.ClientID) {
				continue
			}
			if filter.Type != "" && s.Type != filter.Type {
				continue
			}
			c := copySale(s)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return page(out, filter.Limit, filter.Offset), err
}

func (r *SaleRepo) SummarizeByMethod(_ context.Context, from, to time.Time) ([]entity.MethodTotal, error) {
	byMethod := map[string]*entity.MethodTotal{}
	err := r.h.with(func(d *dataset) error {
		for _, s := range d.sales {
			if s.IsCancelled || s.Date.Before(from) || !s.Date.Before(to) {
				continue
			}
			t, ok := byMethod[s.PaymentMethod]
			if !ok {
				t = &entity.MethodTotal{Method: s.PaymentMethod, Amount: decimal.Zero, Amortization: decimal.Zero}
				byMethod[s.PaymentMethod] = t
			}
			t.Count++
			t.Amount = t.Amount.Add(s.TotalAmount)
			t.Amortization = t.Amortization.Add(s.Amortization)
		}
		return nil
	})
	out := make([]entity.MethodTotal, 0, len(byMethod))
	for _, t := range byMethod {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, err
}
