package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/catalog"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	h handle
}

// Create inserta; nombre + tipo + calidad (normalizados) son únicos.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.h.with(func(d *dataset) error {
		key := catalog.IdentityKey(product.Name, product.Type, product.Quality)
		for _, p := range d.products {
			if p.ID == product.ID || catalog.IdentityKey(p.Name, p.Type, p.Quality) == key {
				return domain.ErrDuplicate
			}
		}
		d.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.with(func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.h.with(func(d *dataset) error {
		if _, ok := d.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		d.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := catalog.Key(filter.Search)
	err := r.h.with(func(d *dataset) error {
		for _, p := range d.products {
			if filter.ActiveOnly && !p.IsActive {
				continue
			}
			if search != "" && !strings.Contains(catalog.Key(p.DisplayName()), search) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return catalog.IdentityKey(out[i].Name, out[i].Type, out[i].Quality) <
			catalog.IdentityKey(out[j].Name, out[j].Type, out[j].Quality)
	})
	return out, err
}

// CountUsage suma líneas de venta (incluidas anuladas), ajustes e ingresos del producto.
func (r *ProductRepo) CountUsage(_ context.Context, id string) (int, error) {
	count := 0
	err := r.h.with(func(d *dataset) error {
		for _, s := range d.sales {
			for _, it := range s.Items {
				if it.ProductID == id {
					count++
				}
			}
		}
		for _, a := range d.adjustments {
			if a.ProductID == id {
				count++
			}
		}
		for _, l := range d.lots {
			for _, it := range l.Items {
				if it.ProductID == id {
					count++
				}
			}
		}
		return nil
	})
	return count, err
}

// Delete borra el producto y su posición de stock.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.h.with(func(d *dataset) error {
		delete(d.products, id)
		delete(d.stock, id)
		return nil
	})
}
