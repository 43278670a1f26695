package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type fakeTickets struct {
	calls    int
	products int
	client   *entity.Client
}

func (f *fakeTickets) GenerateSaleTicket(_ context.Context, _ *entity.Sale, client *entity.Client, products map[string]*entity.Product) ([]byte, error) {
	f.calls++
	f.products = len(products)
	f.client = client
	return []byte("%PDF-1.4"), nil
}

func TestQueryUseCase_TicketMarcaImpresa(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.client(t, "C1", "0", "0")
	repos := f.store.Repos()
	tickets := &fakeTickets{}
	q := sales.NewQueryUseCase(repos.Sales, repos.Products, repos.Clients, tickets, time.UTC)

	s, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
		Items: []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("17"), PricePerKg: d("2")}},
	})
	require.NoError(t, err)
	assert.False(t, s.IsPrinted)

	pdf, err := q.Ticket(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, tickets.products)
	require.NotNil(t, tickets.client)
	assert.Equal(t, "C1", tickets.client.ID)

	got, err := q.GetSale(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrinted)

	_, err = q.Ticket(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = sales.NewQueryUseCase(repos.Sales, repos.Products, repos.Clients, nil, time.UTC).Ticket(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin generador de tickets")
}

func TestQueryUseCase_ListarPorDiaYExcluirAnuladas(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "10")
	repos := f.store.Repos()
	day := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	p := sales.NewProcessor(f.store, repos.Sales, nil, time.UTC, zerolog.Nop()).WithClock(func() time.Time { return day })
	q := sales.NewQueryUseCase(repos.Sales, repos.Products, repos.Clients, nil, time.UTC)

	kept, err := p.CreateSale(context.Background(), actor, cashSale("P", "10", "1"))
	require.NoError(t, err)
	gone, err := p.CreateSale(context.Background(), actor, cashSale("P", "10", "1"))
	require.NoError(t, err)
	_, err = p.CancelSale(context.Background(), "admin-1", gone.ID)
	require.NoError(t, err)

	list, err := q.ListSales(context.Background(), dto.ListSalesQuery{Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	all, err := q.ListSales(context.Background(), dto.ListSalesQuery{Date: "2024-06-01", IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := q.ListSales(context.Background(), dto.ListSalesQuery{Date: "2024-06-02"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = q.ListSales(context.Background(), dto.ListSalesQuery{Date: "01-06-2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = q.ListSales(context.Background(), dto.ListSalesQuery{Type: "FIADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
