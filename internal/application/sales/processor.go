// Package sales procesa ventas: confirmación atómica (stock + cuenta corriente + venta)
// y anulación con reversión exacta.
package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domaincredit "github.com/jhoicas/Ventas-api/internal/domain/credit"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var tracer = otel.Tracer("ventas-api/sales")

// Processor confirma y anula ventas. Toda la venta (descuento de stock de cada línea,
// cuenta corriente y cabecera + líneas) se confirma en una sola transacción.
type Processor struct {
	txRunner ports.TxRunner
	saleRepo repository.SaleRepository
	cache    ports.ReportCache
	loc      *time.Location
	log      zerolog.Logger
	now      func() time.Time
}

// NewProcessor construye el procesador. cache puede ser nil.
func NewProcessor(txRunner ports.TxRunner, saleRepo repository.SaleRepository, cache ports.ReportCache, loc *time.Location, log zerolog.Logger) *Processor {
	if loc == nil {
		loc = time.UTC
	}
	return &Processor{txRunner: txRunner, saleRepo: saleRepo, cache: cache, loc: loc, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// CreateSale DRAFT → VALIDATED → COMMITTED.
// Con clave de idempotencia, un reintento devuelve la venta ya confirmada sin volver a aplicarla.
func (p *Processor) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (_ *dto.SaleResponse, err error) {
	ctx, span := tracer.Start(ctx, "sales.CreateSale",
		trace.WithAttributes(
			attribute.String("type", in.Type),
			attribute.String("payment_method", in.PaymentMethod),
			attribute.Int("items", len(in.Items)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	draft, err := NewDraft(actorID, in)
	if err != nil {
		return nil, err
	}

	key := draft.Header.IdempotencyKey
	if key != "" {
		existing, err := p.saleRepo.GetByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			span.SetAttributes(attribute.Bool("idempotent_replay", true))
			return ToSaleResponse(existing), nil
		}
	}

	sale, err := p.commit(ctx, draft)
	if err != nil {
		// Dos envíos simultáneos con la misma clave: gana el primero, el segundo devuelve esa venta.
		if key != "" && errors.Is(err, domain.ErrDuplicate) {
			existing, getErr := p.saleRepo.GetByIdempotencyKey(ctx, key)
			if getErr == nil && existing != nil {
				return ToSaleResponse(existing), nil
			}
		}
		return nil, ports.CommitError(err)
	}

	span.SetAttributes(attribute.String("sale_id", sale.ID))
	ev := p.log.Info().
		Str("sale_id", sale.ID).
		Str("type", sale.Type).
		Str("payment_method", sale.PaymentMethod).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Str("actor", actorID)
	if sale.ClientID != nil {
		ev = ev.Str("client_id", *sale.ClientID)
	}
	ev.Msg("venta confirmada")
	return ToSaleResponse(sale), nil
}

func (p *Processor) commit(ctx context.Context, draft *Draft) (*entity.Sale, error) {
	now := p.now()
	var sale *entity.Sale

	err := p.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		validated, err := draft.Validate(ctx, repos.Products)
		if err != nil {
			return err
		}
		h := validated.Header

		var client *entity.Client
		if h.ClientID != "" {
			client, err = repos.Clients.GetByID(ctx, h.ClientID)
			if err != nil {
				return err
			}
			if client == nil {
				return domain.ErrNotFound
			}
			if !client.IsActive {
				return domain.ErrInvalidState
			}
		}

		sale = &entity.Sale{
			ID:            uuid.New().String(),
			Date:          now,
			Type:          h.Type,
			GuestName:     h.GuestName,
			PaymentMethod: h.PaymentMethod,
			Amortization:  h.Amortization,
			TotalAmount:   validated.Total,
			CreatedBy:     h.ActorID,
			CreatedAt:     now,
		}
		if h.ClientID != "" {
			cid := h.ClientID
			sale.ClientID = &cid
		}
		if h.IdempotencyKey != "" {
			k := h.IdempotencyKey
			sale.IdempotencyKey = &k
		}

		// Bloqueo de filas de stock en orden de producto (evita deadlocks entre ventas de varias líneas).
		items := make([]entity.SaleItem, len(validated.Items))
		copy(items, validated.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
		ledger := inventory.NewLedger(repos.Stock)
		for _, it := range items {
			if _, err := ledger.Deduct(ctx, it.ProductID, it.QuantityJavas, now); err != nil {
				return err
			}
		}

		if validated.TouchesCredit() {
			cl := credit.NewLedger(repos.Clients)
			locked, err := cl.Lock(ctx, client.ID)
			if err != nil {
				return err
			}
			creditAmount := validated.CreditAmount()
			projected := domaincredit.ApplySale(locked.CurrentDebt, creditAmount, h.Amortization)
			if creditAmount.IsPositive() && !h.ConfirmOverLimit && domaincredit.ExceedsLimit(projected, locked.CreditLimit) {
				return domain.ErrCreditLimitExceeded
			}
			previous, next, err := cl.ApplySaleOnCredit(ctx, locked, creditAmount, h.Amortization)
			if err != nil {
				return err
			}
			sale.PreviousDebt = &previous
			sale.NewDebt = &next
		}

		for i := range validated.Items {
			validated.Items[i].ID = uuid.New().String()
			validated.Items[i].SaleID = sale.ID
		}
		sale.Items = validated.Items
		return repos.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale COMMITTED → CANCELLED: devuelve las javas de cada línea al stock y revierte
// el delta de deuda. Una venta solo puede anularse una vez.
func (p *Processor) CancelSale(ctx context.Context, actorID, saleID string) (_ *dto.SaleResponse, err error) {
	ctx, span := tracer.Start(ctx, "sales.CancelSale",
		trace.WithAttributes(attribute.String("sale_id", saleID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if actorID == "" || saleID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := p.now()
	var sale *entity.Sale
	err = p.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if StateOf(s) != StateCommitted {
			return domain.ErrInvalidState
		}

		items := make([]entity.SaleItem, len(s.Items))
		copy(items, s.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
		ledger := inventory.NewLedger(repos.Stock)
		for _, it := range items {
			if _, err := ledger.Restock(ctx, it.ProductID, it.QuantityJavas, now); err != nil {
				return err
			}
		}

		if delta := s.DebtDelta(); s.ClientID != nil && !delta.Equal(decimal.Zero) {
			cl := credit.NewLedger(repos.Clients)
			client, err := cl.Lock(ctx, *s.ClientID)
			if err != nil {
				return err
			}
			if err := cl.ReverseSale(ctx, client, delta); err != nil {
				return err
			}
		}

		if err := repos.Sales.MarkCancelled(ctx, s.ID, now, actorID); err != nil {
			return err
		}
		s.IsCancelled = true
		s.CancelledAt = &now
		by := actorID
		s.CancelledBy = &by
		sale = s
		return nil
	})
	if err != nil {
		return nil, ports.CommitError(err)
	}

	// El cuadre cacheado del día de la venta deja de ser válido.
	if p.cache != nil {
		if err := p.cache.Delete(ctx, report.DayKey(sale.Date, p.loc)); err != nil {
			p.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo invalidar el cuadre cacheado")
		}
	}

	p.log.Info().
		Str("sale_id", sale.ID).
		Str("actor", actorID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Msg("venta anulada")
	return ToSaleResponse(sale), nil
}

// ToSaleResponse convierte la entidad en respuesta.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:        it.ProductID,
			QuantityKg:       it.QuantityKg,
			QuantityJavas:    it.QuantityJavas,
			ConversionFactor: it.ConversionFactor,
			PricePerKg:       it.PricePerKg,
			Subtotal:         it.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		Type:          s.Type,
		ClientID:      s.ClientID,
		GuestName:     s.GuestName,
		PaymentMethod: s.PaymentMethod,
		Amortization:  s.Amortization,
		PreviousDebt:  s.PreviousDebt,
		NewDebt:       s.NewDebt,
		TotalAmount:   s.TotalAmount,
		IsPrinted:     s.IsPrinted,
		IsCancelled:   s.IsCancelled,
		CancelledAt:   s.CancelledAt,
		CreatedBy:     s.CreatedBy,
		Items:         items,
	}
}
