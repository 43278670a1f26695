package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const actor = "cajero-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store     *memory.Store
	processor *sales.Processor
	inbound   *inventory.InboundUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	return &fixture{
		store:     store,
		processor: sales.NewProcessor(store, repos.Sales, nil, time.UTC, zerolog.Nop()),
		inbound:   inventory.NewInboundUseCase(store, repos.Inbound, zerolog.Nop()),
	}
}

func (f *fixture) product(t *testing.T, id string, factor string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, Name: "Papa " + id, Type: "Amarilla", Quality: "Primera",
		ConversionFactor: d(factor), IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) client(t *testing.T, id, debt, limit string) {
	t.Helper()
	repos := f.store.Repos()
	require.NoError(t, repos.Clients.Create(context.Background(), &entity.Client{
		ID: id, Name: "Cliente " + id, CurrentDebt: decimal.Zero, CreditLimit: d(limit), IsActive: true,
	}))
	require.NoError(t, repos.Clients.UpdateDebt(context.Background(), id, d(debt), nil))
}

func (f *fixture) receive(t *testing.T, productID, qty, cost string) {
	t.Helper()
	_, err := f.inbound.RecordInbound(context.Background(), actor, dto.RecordInboundRequest{
		SupplierName: "Proveedor", TruckID: "abc-123",
		Items: []dto.InboundItemRequest{{ProductID: productID, QuantityCrates: d(qty), Cost: d(cost)}},
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, productID string) *entity.StockPosition {
	t.Helper()
	pos, err := f.store.Repos().Stock.Get(context.Background(), productID)
	require.NoError(t, err)
	return pos
}

func (f *fixture) debt(t *testing.T, clientID string) decimal.Decimal {
	t.Helper()
	c, err := f.store.Repos().Clients.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.CurrentDebt
}

func cashSale(productID, kg, price string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Type:          entity.SaleTypeCash,
		PaymentMethod: entity.PaymentMethodCash,
		Items:         []dto.SaleItemRequest{{ProductID: productID, QuantityKg: d(kg), PricePerKg: d(price)}},
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de costo y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_EscenarioCostoPromedioYDescuentoEnJavas(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")

	f.receive(t, "P", "10", "5")
	pos := f.stock(t, "P")
	assertDec(t, "5", pos.AverageCostPerCrate, "costo tras primer ingreso")
	assertDec(t, "10", pos.QuantityCrates, "javas tras primer ingreso")

	f.receive(t, "P", "5", "8")
	assertDec(t, "6", f.stock(t, "P").AverageCostPerCrate, "costo tras segundo ingreso")

	sale, err := f.processor.CreateSale(context.Background(), actor, cashSale("P", "34", "10"))
	require.NoError(t, err)
	assertDec(t, "340", sale.TotalAmount, "total")
	require.Len(t, sale.Items, 1)
	assertDec(t, "2", sale.Items[0].QuantityJavas, "javas de la línea")
	assertDec(t, "17", sale.Items[0].ConversionFactor, "factor fijado en la línea")
	assert.Nil(t, sale.PreviousDebt, "venta contado sin cliente no toca deuda")

	pos = f.stock(t, "P")
	assertDec(t, "13", pos.QuantityCrates, "javas tras la venta")
	assertDec(t, "6", pos.AverageCostPerCrate, "la venta no cambia el costo promedio")
}

func TestCreateSale_SobreventaPermitidaDejaStockNegativo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "20")
	f.receive(t, "P", "1", "10")

	_, err := f.processor.CreateSale(context.Background(), actor, cashSale("P", "60", "3"))
	require.NoError(t, err, "la sobreventa nunca bloquea la venta")
	assertDec(t, "-2", f.stock(t, "P").QuantityCrates, "stock negativo")
}

func TestCreateSale_DeltasDeStockIgualanJavasVendidas(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", "17")
	f.product(t, "B", "20")
	f.product(t, "C", "12.5")

	before := f.stock(t, "A").QuantityCrates.Add(f.stock(t, "B").QuantityCrates).Add(f.stock(t, "C").QuantityCrates)
	sale, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeCash, PaymentMethod: entity.PaymentMethodDigitalWalletA,
		Items: []dto.SaleItemRequest{
			{ProductID: "C", QuantityKg: d("10"), PricePerKg: d("4.5")},
			{ProductID: "A", QuantityKg: d("8.5"), PricePerKg: d("3")},
			{ProductID: "B", QuantityKg: d("45"), PricePerKg: d("2.2")},
		},
	})
	require.NoError(t, err)
	after := f.stock(t, "A").QuantityCrates.Add(f.stock(t, "B").QuantityCrates).Add(f.stock(t, "C").QuantityCrates)

	javas := decimal.Zero
	for _, it := range sale.Items {
		javas = javas.Add(it.QuantityJavas)
	}
	assert.True(t, after.Sub(before).Equal(javas.Neg()), "delta %s vs javas %s", after.Sub(before), javas)
	assertDec(t, "169.5", sale.TotalAmount, "total = 45 + 25.5 + 99")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuenta corriente
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_EscenarioDeudaConAmortizacion(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.client(t, "C1", "100", "500")

	sale, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
		Amortization: d("50"),
		Items:        []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("20"), PricePerKg: d("10")}},
	})
	require.NoError(t, err)
	require.NotNil(t, sale.PreviousDebt)
	require.NotNil(t, sale.NewDebt)
	assertDec(t, "200", sale.TotalAmount, "total")
	assertDec(t, "100", *sale.PreviousDebt, "deuda anterior")
	assertDec(t, "250", *sale.NewDebt, "deuda nueva")
	assertDec(t, "250", f.debt(t, "C1"), "deuda del cliente")
}

func TestCreateSale_AmortizacionMayorQueVentaDejaSaldoAFavor(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.client(t, "C1", "30", "0")

	sale, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeCash, ClientID: "C1", PaymentMethod: entity.PaymentMethodCash,
		Amortization: d("80"),
		Items:        []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("1"), PricePerKg: d("5")}},
	})
	require.NoError(t, err)
	assertDec(t, "-50", *sale.NewDebt, "30 + 0 - 80")
	assertDec(t, "-50", f.debt(t, "C1"), "no se recorta a cero")
}

func TestCreateSale_LimiteDeCreditoRequiereConfirmacion(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.receive(t, "P", "10", "5")
	f.client(t, "C1", "400", "500")

	req := dto.CreateSaleRequest{
		Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
		Items: []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("17"), PricePerKg: d("10")}},
	}
	_, err := f.processor.CreateSale(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	assertDec(t, "10", f.stock(t, "P").QuantityCrates, "sin confirmación no se descuenta stock")
	assertDec(t, "400", f.debt(t, "C1"), "sin confirmación no cambia la deuda")

	req.ConfirmOverLimit = true
	sale, err := f.processor.CreateSale(context.Background(), actor, req)
	require.NoError(t, err)
	assertDec(t, "570", *sale.NewDebt, "venta confirmada sobre el límite")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones (antes de mutar)
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.receive(t, "P", "5", "5")
	ctx := context.Background()

	order := cashSale("P", "10", "1")
	order.Type = entity.SaleTypeOrder
	_, err := f.processor.CreateSale(ctx, actor, order)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "ORDER sin cliente")

	credit := cashSale("P", "10", "1")
	credit.PaymentMethod = entity.PaymentMethodCredit
	_, err = f.processor.CreateSale(ctx, actor, credit)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "CREDIT sin cliente")

	_, err = f.processor.CreateSale(ctx, actor, cashSale("P", "0", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "kilos en cero")

	_, err = f.processor.CreateSale(ctx, actor, cashSale("P", "1", "-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	dup := cashSale("P", "1", "1")
	dup.Items = append(dup.Items, dup.Items[0])
	_, err = f.processor.CreateSale(ctx, actor, dup)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto repetido")

	_, err = f.processor.CreateSale(ctx, actor, cashSale("NOPE", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")

	_, err = f.processor.CreateSale(ctx, "", cashSale("P", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin actor")

	guest := cashSale("P", "1", "0")
	guest.GuestName = "Don Lucho"
	_, err = f.processor.CreateSale(ctx, actor, guest)
	assert.NoError(t, err, "contado con nombre libre y precio cero")

	p := &entity.Product{ConversionFactor: d("17")}
	want := d("5").Sub(p.KgToJavas(d("1")))
	assert.True(t, f.stock(t, "P").QuantityCrates.Equal(want), "solo la venta válida descontó")
}

func TestCreateSale_ProductoArchivadoRechazado(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	repos := f.store.Repos()
	p, err := repos.Products.GetByID(context.Background(), "P")
	require.NoError(t, err)
	p.IsActive = false
	require.NoError(t, repos.Products.Update(context.Background(), p))

	_, err = f.processor.CreateSale(context.Background(), actor, cashSale("P", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_RestauraStockYDeudaExactos(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.product(t, "Q", "23")
	f.receive(t, "P", "10", "5")
	f.client(t, "C1", "100", "0")

	stockP, stockQ, debt := f.stock(t, "P"), f.stock(t, "Q"), f.debt(t, "C1")

	sale, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
		Amortization: d("15.5"),
		Items: []dto.SaleItemRequest{
			{ProductID: "P", QuantityKg: d("10"), PricePerKg: d("3.3")},
			{ProductID: "Q", QuantityKg: d("7"), PricePerKg: d("1.1")},
		},
	})
	require.NoError(t, err)

	cancelled, err := f.processor.CancelSale(context.Background(), "admin-1", sale.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.NotNil(t, cancelled.CancelledAt)

	assert.True(t, f.stock(t, "P").QuantityCrates.Equal(stockP.QuantityCrates), "stock P restaurado")
	assert.True(t, f.stock(t, "Q").QuantityCrates.Equal(stockQ.QuantityCrates), "stock Q restaurado")
	assert.True(t, f.stock(t, "P").AverageCostPerCrate.Equal(stockP.AverageCostPerCrate), "costo intacto")
	assert.True(t, f.debt(t, "C1").Equal(debt), "deuda restaurada")

	_, err = f.processor.CancelSale(context.Background(), "admin-1", sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se puede anular dos veces")

	_, err = f.processor.CancelSale(context.Background(), "admin-1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad, idempotencia y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_FalloAlConfirmarNoDejaCambiosParciales(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.receive(t, "P", "10", "5")
	f.client(t, "C1", "0", "0")

	f.store.FailNextCommit(errors.New("conexión perdida"))
	_, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
		Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
		Items: []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("17"), PricePerKg: d("10")}},
	})
	require.ErrorIs(t, err, domain.ErrCommitFailed)
	assertDec(t, "10", f.stock(t, "P").QuantityCrates, "stock sin cambios")
	assertDec(t, "0", f.debt(t, "C1"), "deuda sin cambios")

	list, err := f.store.Repos().Sales.List(context.Background(), repositoryAll())
	require.NoError(t, err)
	assert.Empty(t, list, "no quedó venta persistida")
}

func TestCreateSale_ClaveDeIdempotenciaNoDuplica(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.receive(t, "P", "10", "5")

	req := cashSale("P", "17", "10")
	req.IdempotencyKey = "caja1-000123"
	first, err := f.processor.CreateSale(context.Background(), actor, req)
	require.NoError(t, err)
	second, err := f.processor.CreateSale(context.Background(), actor, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "el reintento devuelve la misma venta")
	assertDec(t, "9", f.stock(t, "P").QuantityCrates, "stock descontado una sola vez")
}

func TestCreateSale_ConcurrentesSobreElMismoProducto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "P", "17")
	f.receive(t, "P", "20", "5")
	f.client(t, "C1", "0", "0")

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.processor.CreateSale(context.Background(), actor, dto.CreateSaleRequest{
				Type: entity.SaleTypeOrder, ClientID: "C1", PaymentMethod: entity.PaymentMethodCredit,
				Items: []dto.SaleItemRequest{{ProductID: "P", QuantityKg: d("17"), PricePerKg: d("2")}},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assertDec(t, "-20", f.stock(t, "P").QuantityCrates, "20 - 40 javas, cada venta contada una vez")
	assertDec(t, "1360", f.debt(t, "C1"), "40 * 34")
}
