package credit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
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

var tracer = otel.Tracer("ventas-api/credit")

// PaymentUseCase registra abonos (recordPayment) y lista el historial de un cliente.
type PaymentUseCase struct {
	txRunner    ports.TxRunner
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner ports.TxRunner, paymentRepo repository.PaymentRepository, clientRepo repository.ClientRepository, log zerolog.Logger) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, paymentRepo: paymentRepo, clientRepo: clientRepo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *PaymentUseCase) WithClock(now func() time.Time) *PaymentUseCase {
	uc.now = now
	return uc
}

// RecordPayment descuenta el abono de la deuda del cliente bajo bloqueo de fila.
// El resultado puede quedar negativo (saldo a favor). CREDIT no es un medio de pago válido para abonar.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, actorID, clientID string, in dto.RecordPaymentRequest) (_ *dto.PaymentResponse, err error) {
	ctx, span := tracer.Start(ctx, "credit.RecordPayment",
		trace.WithAttributes(attribute.String("client_id", clientID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if actorID == "" || clientID == "" || !in.Amount.IsPositive() ||
		!entity.IsValidPaymentMethod(method) || method == entity.PaymentMethodCredit {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	payment := &entity.Payment{
		ID:            uuid.New().String(),
		ClientID:      clientID,
		Amount:        in.Amount,
		PaymentMethod: method,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedBy:     actorID,
		CreatedAt:     now,
	}
	resp := toPaymentResponse(payment)

	err = uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		ledger := NewLedger(repos.Clients)
		client, err := ledger.Lock(ctx, clientID)
		if err != nil {
			return err
		}
		previous, next, err := ledger.RecordPayment(ctx, client, in.Amount, now)
		if err != nil {
			return err
		}
		resp.PreviousDebt = &previous
		resp.NewDebt = &next
		return repos.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, ports.CommitError(err)
	}

	uc.log.Info().
		Str("payment_id", payment.ID).
		Str("client_id", clientID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("actor", actorID).
		Msg("abono registrado")
	return resp, nil
}

// ListPayments historial de abonos de un cliente, más recientes primero.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, clientID string, page dto.PageRequest) ([]*dto.PaymentResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	list, err := uc.paymentRepo.ListByClient(ctx, clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:            p.ID,
		ClientID:      p.ClientID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}
