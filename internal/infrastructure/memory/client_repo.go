package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/catalog"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria.
type ClientRepo struct {
	h handle
}

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	return r.h.with(func(d *dataset) error {
		if _, ok := d.clients[client.ID]; ok {
			return domain.ErrDuplicate
		}
		d.clients[client.ID] = *client
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.h.with(func(d *dataset) error {
		if c, ok := d.clients[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.GetByID(ctx, id)
}

func (r *ClientRepo) Update(_ context.Context, client *entity.Client) error {
	return r.h.with(func(d *dataset) error {
		cur, ok := d.clients[client.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = client.Name
		cur.WhatsAppNumber = client.WhatsAppNumber
		cur.CreditLimit = client.CreditLimit
		cur.IsActive = client.IsActive
		cur.UpdatedAt = client.UpdatedAt
		d.clients[client.ID] = cur
		return nil
	})
}

func (r *ClientRepo) UpdateDebt(_ context.Context, id string, debt decimal.Decimal, lastPayment *time.Time) error {
	return r.h.with(func(d *dataset) error {
		cur, ok := d.clients[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.CurrentDebt = debt
		if lastPayment != nil {
			t := *lastPayment
			cur.LastPaymentDate = &t
		}
		cur.UpdatedAt = time.Now()
		d.clients[id] = cur
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, filter repository.ClientFilter) ([]*entity.Client, error) {
	var out []*entity.Client
	search := catalog.Key(filter.Search)
	err := r.h.with(func(d *dataset) error {
		for _, c := range d.clients {
			if filter.ActiveOnly && !c.IsActive {
				continue
			}
			if filter.WithDebtOnly && !c.CurrentDebt.IsPositive() {
				continue
			}
			if search != "" && !strings.Contains(catalog.Key(c.Name), search) {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return catalog.Key(out[i].Name) < catalog.Key(out[j].Name) })
	return page(out, filter.Limit, filter.Offset), err
}
