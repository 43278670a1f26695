package credit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domaincredit "github.com/jhoicas/Ventas-api/internal/domain/credit"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Settings parámetros de negocio de la cuenta corriente.
type Settings struct {
	DebtAlertThreshold decimal.Decimal
	Location           *time.Location
}

// ClientUseCase casos de uso de administración y consulta de clientes.
type ClientUseCase struct {
	repo     repository.ClientRepository
	settings Settings
	now      func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, settings Settings) *ClientUseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &ClientUseCase{repo: repo, settings: settings, now: time.Now}
}

// Create registra un cliente con deuda cero.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	limit := decimal.Zero
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		limit = *in.CreditLimit
	}
	now := uc.now()
	c := &entity.Client{
		ID:             uuid.New().String(),
		Name:           name,
		WhatsAppNumber: strings.TrimSpace(in.WhatsAppNumber),
		CurrentDebt:    decimal.Zero,
		CreditLimit:    limit,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return uc.ToResponse(c), nil
}

// GetByID obtiene un cliente con sus campos derivados.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.ToResponse(c), nil
}

// List lista clientes con filtros.
func (uc *ClientUseCase) List(ctx context.Context, filter repository.ClientFilter) ([]*dto.ClientResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, uc.ToResponse(c))
	}
	return out, nil
}

// Update modifica datos maestros. La deuda solo cambia por ventas, abonos y anulaciones.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	if in.WhatsAppNumber != nil {
		c.WhatsAppNumber = strings.TrimSpace(*in.WhatsAppNumber)
	}
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		c.CreditLimit = *in.CreditLimit
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.ToResponse(c), nil
}

// ToResponse arma la respuesta calculando semáforo y días sin abonar al momento de leer.
func (uc *ClientUseCase) ToResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		WhatsAppNumber:     c.WhatsAppNumber,
		CurrentDebt:        c.CurrentDebt,
		CreditLimit:        c.CreditLimit,
		LastPaymentDate:    c.LastPaymentDate,
		DaysWithoutPayment: domaincredit.DaysWithoutPayment(c.LastPaymentDate, uc.now(), uc.settings.Location),
		DebtSemaphore:      string(domaincredit.Semaphore(c.CurrentDebt, uc.settings.DebtAlertThreshold)),
		IsActive:           c.IsActive,
	}
}
