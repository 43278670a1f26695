package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newClients(store *memory.Store) *credit.ClientUseCase {
	return credit.NewClientUseCase(store.Repos().Clients, credit.Settings{DebtAlertThreshold: d("1000"), Location: time.UTC})
}

func TestClientUseCase_CrearYActualizar(t *testing.T) {
	store := memory.NewStore()
	uc := newClients(store)
	ctx := context.Background()

	limit := d("500")
	c, err := uc.Create(ctx, dto.CreateClientRequest{Name: "  Doña Rosa ", CreditLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "Doña Rosa", c.Name)
	assert.True(t, c.CurrentDebt.IsZero())
	assert.Nil(t, c.DaysWithoutPayment, "nunca abonó")
	assert.Equal(t, string(entity.DebtGreen), c.DebtSemaphore)

	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := d("-1")
	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "X", CreditLimit: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inactive := false
	updated, err := uc.Update(ctx, c.ID, dto.UpdateClientRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.CreditLimit.Equal(limit), "lo no informado no cambia")

	_, err = uc.Update(ctx, "no-existe", dto.UpdateClientRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientUseCase_ListarConDeudaYBusqueda(t *testing.T) {
	store := memory.NewStore()
	uc := newClients(store)
	ctx := context.Background()

	rosa, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Rosa Quispe"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "José Huamán"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Clients.UpdateDebt(ctx, rosa.ID, d("1200"), nil))

	withDebt, err := uc.List(ctx, repository.ClientFilter{WithDebtOnly: true})
	require.NoError(t, err)
	require.Len(t, withDebt, 1)
	assert.Equal(t, rosa.ID, withDebt[0].ID)
	assert.Equal(t, string(entity.DebtRed), withDebt[0].DebtSemaphore)

	found, err := uc.List(ctx, repository.ClientFilter{Search: "jose"})
	require.NoError(t, err)
	require.Len(t, found, 1, "búsqueda sin tildes ni mayúsculas")
	assert.Equal(t, "José Huamán", found[0].Name)
}

func TestPaymentUseCase_AbonoReduceDeudaYFijaFecha(t *testing.T) {
	store := memory.NewStore()
	clients := newClients(store)
	ctx := context.Background()
	paidAt := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	uc := credit.NewPaymentUseCase(store, store.Repos().Payments, store.Repos().Clients, zerolog.Nop()).
		WithClock(func() time.Time { return paidAt })

	c, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Rosa"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Clients.UpdateDebt(ctx, c.ID, d("250"), nil))

	p, err := uc.RecordPayment(ctx, "cajero-1", c.ID, dto.RecordPaymentRequest{Amount: d("100"), Notes: " yape "})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodCash, p.PaymentMethod, "método por defecto")
	assert.Equal(t, "yape", p.Notes)
	assert.True(t, p.PreviousDebt.Equal(d("250")))
	assert.True(t, p.NewDebt.Equal(d("150")))

	got, err := clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentDebt.Equal(d("150")))
	require.NotNil(t, got.LastPaymentDate)
	assert.True(t, got.LastPaymentDate.Equal(paidAt))

	_, err = uc.RecordPayment(ctx, "cajero-1", c.ID, dto.RecordPaymentRequest{Amount: d("200"), PaymentMethod: entity.PaymentMethodBankTransfer})
	require.NoError(t, err)
	got, err = clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentDebt.Equal(d("-50")), "saldo a favor permitido")

	history, err := uc.ListPayments(ctx, c.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestPaymentUseCase_Validaciones(t *testing.T) {
	store := memory.NewStore()
	clients := newClients(store)
	ctx := context.Background()
	uc := credit.NewPaymentUseCase(store, store.Repos().Payments, store.Repos().Clients, zerolog.Nop())

	c, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Rosa"})
	require.NoError(t, err)

	_, err = uc.RecordPayment(ctx, "cajero-1", c.ID, dto.RecordPaymentRequest{Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = uc.RecordPayment(ctx, "cajero-1", c.ID, dto.RecordPaymentRequest{Amount: d("10"), PaymentMethod: entity.PaymentMethodCredit})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se abona a crédito")

	_, err = uc.RecordPayment(ctx, "cajero-1", "no-existe", dto.RecordPaymentRequest{Amount: d("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ListPayments(ctx, "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
