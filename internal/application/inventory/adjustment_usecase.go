package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// AdjustmentUseCase registra ajustes de inventario (recordAdjustment).
// El registro del ajuste y el delta de stock se escriben en la misma transacción.
type AdjustmentUseCase struct {
	txRunner       ports.TxRunner
	adjustmentRepo repository.AdjustmentRepository
	log            zerolog.Logger
	now            func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner ports.TxRunner, adjustmentRepo repository.AdjustmentRepository, log zerolog.Logger) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, adjustmentRepo: adjustmentRepo, log: log, now: time.Now}
}

// RecordAdjustment aplica un ajuste con signo. Si no se informa CostImpact se valoriza
// como |cantidad| * costo promedio vigente. El costo promedio no cambia.
func (uc *AdjustmentUseCase) RecordAdjustment(ctx context.Context, actorID string, in dto.RecordAdjustmentRequest) (_ *dto.AdjustmentResponse, err error) {
	ctx, span := tracer.Start(ctx, "inventory.RecordAdjustment",
		trace.WithAttributes(attribute.String("product_id", in.ProductID), attribute.String("type", in.Type)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if actorID == "" || in.ProductID == "" || in.QuantityCrates.IsZero() || !entity.IsValidAdjustmentType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.CostImpact != nil && in.CostImpact.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	adj := &entity.Adjustment{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		QuantityCrates: in.QuantityCrates,
		Type:           in.Type,
		Reason:         strings.TrimSpace(in.Reason),
		CreatedBy:      actorID,
		CreatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.IsActive {
			return domain.ErrInvalidState
		}
		pos, err := repos.Stock.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.CostImpact != nil {
			adj.CostImpact = *in.CostImpact
		} else {
			adj.CostImpact = in.QuantityCrates.Abs().Mul(pos.AverageCostPerCrate)
		}
		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		_, err = NewLedger(repos.Stock).Apply(ctx, in.ProductID, in.QuantityCrates, now)
		return err
	})
	if err != nil {
		return nil, ports.CommitError(err)
	}

	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("product_id", adj.ProductID).
		Str("type", adj.Type).
		Str("quantity_crates", adj.QuantityCrates.String()).
		Str("actor", actorID).
		Msg("ajuste registrado")
	return toAdjustmentResponse(adj), nil
}

// ListAdjustments lista ajustes (de un producto si productID no es vacío).
func (uc *AdjustmentUseCase) ListAdjustments(ctx context.Context, productID string, page dto.PageRequest) ([]*dto.AdjustmentResponse, error) {
	page.DefaultPage()
	list, err := uc.adjustmentRepo.List(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAdjustmentResponse(a))
	}
	return out, nil
}

func toAdjustmentResponse(a *entity.Adjustment) *dto.AdjustmentResponse {
	return &dto.AdjustmentResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		QuantityCrates: a.QuantityCrates,
		Type:           a.Type,
		Reason:         a.Reason,
		CostImpact:     a.CostImpact,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
