package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
	_ repository.PaymentRepository    = (*PaymentRepo)(nil)
	_ repository.InboundRepository    = (*InboundRepo)(nil)
)

// AdjustmentRepo ajustes en memoria (solo inserción).
type AdjustmentRepo struct {
	h handle
}

func (r *AdjustmentRepo) Create(_ context.Context, adj *entity.Adjustment) error {
	return r.h.with(func(d *dataset) error {
		d.adjustments = append(d.adjustments, *adj)
		return nil
	})
}

func (r *AdjustmentRepo) List(_ context.Context, productID string, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	err := r.h.with(func(d *dataset) error {
		for i := len(d.adjustments) - 1; i >= 0; i-- {
			a := d.adjustments[i]
			if productID != "" && a.ProductID != productID {
				continue
			}
			out = append(out, &a)
		}
		return nil
	})
	return page(out, limit, offset), err
}

// PaymentRepo abonos en memoria (solo inserción).
type PaymentRepo struct {
	h handle
}

func (r *PaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	return r.h.with(func(d *dataset) error {
		d.payments = append(d.payments, *payment)
		return nil
	})
}

func (r *PaymentRepo) ListByClient(_ context.Context, clientID string, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.h.with(func(d *dataset) error {
		for i := len(d.payments) - 1; i >= 0; i-- {
			p := d.payments[i]
			if p.ClientID == clientID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return page(out, limit, offset), err
}

func (r *PaymentRepo) SumBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.h.with(func(d *dataset) error {
		for _, p := range d.payments {
			if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
				total = total.Add(p.Amount)
			}
		}
		return nil
	})
	return total, err
}

// InboundRepo ingresos en memoria.
type InboundRepo struct {
	h handle
}

func (r *InboundRepo) Create(_ context.Context, lot *entity.InboundLot) error {
	return r.h.with(func(d *dataset) error {
		d.lots = append(d.lots, copyLot(*lot))
		return nil
	})
}

func (r *InboundRepo) GetByID(_ context.Context, id string) (*entity.InboundLot, error) {
	var out *entity.InboundLot
	err := r.h.with(func(d *dataset) error {
		for _, l := range d.lots {
			if l.ID == id {
				c := copyLot(l)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InboundRepo) List(_ context.Context, limit, offset int) ([]*entity.InboundLot, error) {
	var out []*entity.InboundLot
	err := r.h.with(func(d *dataset) error {
		for _, l := range d.lots {
			c := copyLot(l)
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), err
}
