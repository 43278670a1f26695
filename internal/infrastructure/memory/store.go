// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa con STORAGE_DRIVER=memory y en los tests del motor: las transacciones se
// serializan con un mutex y trabajan sobre una copia que solo se publica al confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type dataset struct {
	products    map[string]entity.Product
	stock       map[string]entity.StockPosition
	clients     map[string]entity.Client
	sales       map[string]entity.Sale
	adjustments []entity.Adjustment
	payments    []entity.Payment
	lots        []entity.InboundLot
}

func newDataset() *dataset {
	return &dataset{
		products: map[string]entity.Product{},
		stock:    map[string]entity.StockPosition{},
		clients:  map[string]entity.Client{},
		sales:    map[string]entity.Sale{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.stock {
		c.stock[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	for k, v := range d.sales {
		c.sales[k] = copySale(v)
	}
	c.adjustments = append([]entity.Adjustment(nil), d.adjustments...)
	c.payments = append([]entity.Payment(nil), d.payments...)
	c.lots = make([]entity.InboundLot, 0, len(d.lots))
	for _, l := range d.lots {
		c.lots = append(c.lots, copyLot(l))
	}
	return c
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return s
}

func copyLot(l entity.InboundLot) entity.InboundLot {
	l.Items = append([]entity.InboundLotItem(nil), l.Items...)
	return l
}

// Store almacenamiento en memoria con semántica transaccional.
type Store struct {
	mu         sync.Mutex
	data       *dataset
	failCommit error
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// FailNextCommit hace que la próxima transacción falle al confirmar con err
// (simula una caída del almacenamiento: nada de lo escrito en la tx se publica).
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn y el commit tienen éxito.
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	if err := fn(reposFor(handle{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failCommit != nil {
		err := s.failCommit
		s.failCommit = nil
		return err
	}
	s.data = work
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el lock del store).
func (s *Store) Repos() ports.TxRepos {
	return reposFor(handle{store: s})
}

// handle da acceso al dataset: la copia de la tx en curso o el estado publicado bajo lock.
type handle struct {
	store *Store
	tx    *dataset
}

func (h handle) with(fn func(d *dataset) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.data)
}

func reposFor(h handle) ports.TxRepos {
	return ports.TxRepos{
		Products:    &ProductRepo{h: h},
		Stock:       &StockRepo{h: h},
		Clients:     &ClientRepo{h: h},
		Sales:       &SaleRepo{h: h},
		Adjustments: &AdjustmentRepo{h: h},
		Payments:    &PaymentRepo{h: h},
		Inbound:     &InboundRepo{h: h},
	}
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
