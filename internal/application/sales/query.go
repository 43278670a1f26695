package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// maxListLimit tope de registros por página en listados de ventas.
const maxListLimit = 100

// QueryUseCase consultas de ventas y ticket imprimible.
type QueryUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	tickets     ports.TicketGenerator
	loc         *time.Location
}

// NewQueryUseCase construye el caso de uso. tickets puede ser nil si no se generan PDF.
func NewQueryUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	tickets ports.TicketGenerator,
	loc *time.Location,
) *QueryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &QueryUseCase{saleRepo: saleRepo, productRepo: productRepo, clientRepo: clientRepo, tickets: tickets, loc: loc}
}

// GetSale obtiene una venta con sus líneas.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return ToSaleResponse(s), nil
}

// ListSales lista ventas. Date (YYYY-MM-DD en la zona del negocio) tiene prioridad sobre From/To.
func (uc *QueryUseCase) ListSales(ctx context.Context, q dto.ListSalesQuery) ([]*dto.SaleResponse, error) {
	filter := repository.SaleFilter{
		ClientID:         q.ClientID,
		Type:             q.Type,
		IncludeCancelled: q.IncludeCancelled,
		Limit:            q.Limit,
		Offset:           q.Offset,
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && filter.Type != entity.SaleTypeCash && filter.Type != entity.SaleTypeOrder {
		return nil, domain.ErrInvalidInput
	}

	switch {
	case q.Date != "":
		from, to, err := report.DayRange(q.Date, uc.loc)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	default:
		if q.From != "" {
			from, _, err := report.DayRange(q.From, uc.loc)
			if err != nil {
				return nil, err
			}
			filter.From = &from
		}
		if q.To != "" {
			_, to, err := report.DayRange(q.To, uc.loc)
			if err != nil {
				return nil, err
			}
			filter.To = &to
		}
	}

	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSaleResponse(s))
	}
	return out, nil
}

// Ticket genera el PDF de la venta y la marca como impresa (único campo mutable tras confirmar).
func (uc *QueryUseCase) Ticket(ctx context.Context, id string) ([]byte, error) {
	if uc.tickets == nil {
		return nil, domain.ErrInvalidState
	}
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	var client *entity.Client
	if s.ClientID != nil {
		client, err = uc.clientRepo.GetByID(ctx, *s.ClientID)
		if err != nil {
			return nil, err
		}
	}
	products := make(map[string]*entity.Product, len(s.Items))
	for _, it := range s.Items {
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[p.ID] = p
		}
	}
	pdf, err := uc.tickets.GenerateSaleTicket(ctx, s, client, products)
	if err != nil {
		return nil, err
	}
	if !s.IsPrinted {
		if err := uc.saleRepo.MarkPrinted(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return pdf, nil
}
