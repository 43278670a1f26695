package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var tracer = otel.Tracer("ventas-api/inventory")

// minTruckIDLen largo mínimo de la placa del camión.
const minTruckIDLen = 3

// InboundUseCase registra ingresos de mercadería (recordInbound): por cada línea bloquea
// la posición, promedia el costo y suma javas; lote y stock se confirman en una sola transacción.
type InboundUseCase struct {
	txRunner    ports.TxRunner
	inboundRepo repository.InboundRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewInboundUseCase construye el caso de uso.
func NewInboundUseCase(txRunner ports.TxRunner, inboundRepo repository.InboundRepository, log zerolog.Logger) *InboundUseCase {
	return &InboundUseCase{txRunner: txRunner, inboundRepo: inboundRepo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *InboundUseCase) WithClock(now func() time.Time) *InboundUseCase {
	uc.now = now
	return uc
}

// RecordInbound valida el ingreso y lo aplica al stock.
// Con CostMode KG el costo recibido es por kilo y se convierte a costo por java con el factor del producto.
func (uc *InboundUseCase) RecordInbound(ctx context.Context, actorID string, in dto.RecordInboundRequest) (_ *dto.InboundLotResponse, err error) {
	ctx, span := tracer.Start(ctx, "inventory.RecordInbound",
		trace.WithAttributes(attribute.Int("items", len(in.Items))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	supplier := strings.TrimSpace(in.SupplierName)
	truckID := strings.ToUpper(strings.TrimSpace(in.TruckID))
	if actorID == "" || supplier == "" || len(truckID) < minTruckIDLen || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.QuantityCrates.IsPositive() || it.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		switch strings.ToUpper(it.CostMode) {
		case "", entity.CostModeJava, entity.CostModeKg:
		default:
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.now()
	lot := &entity.InboundLot{
		ID:           uuid.New().String(),
		SupplierName: supplier,
		TruckID:      truckID,
		Date:         now,
		TotalCost:    decimal.Zero,
		CreatedBy:    actorID,
		CreatedAt:    now,
	}

	// Orden por producto para bloquear filas siempre en el mismo orden.
	items := make([]dto.InboundItemRequest, len(in.Items))
	copy(items, in.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	err = uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		ledger := NewLedger(repos.Stock)
		for _, it := range items {
			product, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if !product.IsActive {
				return domain.ErrInvalidState
			}
			costPerCrate := it.Cost
			if strings.ToUpper(it.CostMode) == entity.CostModeKg {
				costPerCrate = it.Cost.Mul(product.ConversionFactor)
			}
			if _, err := ledger.Receive(ctx, product.ID, it.QuantityCrates, costPerCrate, now); err != nil {
				return err
			}
			total := it.QuantityCrates.Mul(costPerCrate)
			lot.Items = append(lot.Items, entity.InboundLotItem{
				ID:             uuid.New().String(),
				LotID:          lot.ID,
				ProductID:      product.ID,
				QuantityCrates: it.QuantityCrates,
				CostPerCrate:   costPerCrate,
				TotalCost:      total,
			})
			lot.TotalCost = lot.TotalCost.Add(total)
		}
		return repos.Inbound.Create(ctx, lot)
	})
	if err != nil {
		return nil, ports.CommitError(err)
	}

	uc.log.Info().
		Str("lot_id", lot.ID).
		Str("truck_id", lot.TruckID).
		Str("actor", actorID).
		Str("total_cost", lot.TotalCost.StringFixed(2)).
		Msg("ingreso registrado")
	return toInboundResponse(lot), nil
}

// GetInbound obtiene un ingreso por ID.
func (uc *InboundUseCase) GetInbound(ctx context.Context, id string) (*dto.InboundLotResponse, error) {
	lot, err := uc.inboundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return toInboundResponse(lot), nil
}

// ListInbound lista ingresos, más recientes primero.
func (uc *InboundUseCase) ListInbound(ctx context.Context, page dto.PageRequest) ([]*dto.InboundLotResponse, error) {
	page.DefaultPage()
	lots, err := uc.inboundRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InboundLotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toInboundResponse(l))
	}
	return out, nil
}

func toInboundResponse(lot *entity.InboundLot) *dto.InboundLotResponse {
	items := make([]dto.InboundItemResponse, 0, len(lot.Items))
	for _, it := range lot.Items {
		items = append(items, dto.InboundItemResponse{
			ProductID:      it.ProductID,
			QuantityCrates: it.QuantityCrates,
			CostPerCrate:   it.CostPerCrate,
			TotalCost:      it.TotalCost,
		})
	}
	return &dto.InboundLotResponse{
		ID:           lot.ID,
		SupplierName: lot.SupplierName,
		TruckID:      lot.TruckID,
		Date:         lot.Date,
		TotalCost:    lot.TotalCost,
		CreatedBy:    lot.CreatedBy,
		Items:        items,
	}
}
