package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }

func seed(t *testing.T, store *memory.Store, id, factor string, active bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, store.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, Name: "Camote", Type: id, Quality: "Primera",
		ConversionFactor: d(factor), IsActive: active, CreatedAt: now, UpdatedAt: now,
	}))
}

func inbound(items ...dto.InboundItemRequest) dto.RecordInboundRequest {
	return dto.RecordInboundRequest{SupplierName: "Agro Sur", TruckID: " abc-123 ", Items: items}
}

func TestRecordInbound_CostoPromedioPonderado(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "17", true)
	uc := inventory.NewInboundUseCase(store, store.Repos().Inbound, zerolog.Nop())

	lot, err := uc.RecordInbound(context.Background(), "admin-1", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("10"), Cost: d("5")}))
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", lot.TruckID, "placa normalizada")
	assert.True(t, lot.TotalCost.Equal(d("50")))

	_, err = uc.RecordInbound(context.Background(), "admin-1", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("5"), Cost: d("8")}))
	require.NoError(t, err)

	pos, err := store.Repos().Stock.Get(context.Background(), "P")
	require.NoError(t, err)
	assert.True(t, pos.QuantityCrates.Equal(d("15")))
	assert.True(t, pos.AverageCostPerCrate.Equal(d("6")), "got %s", pos.AverageCostPerCrate)

	list, err := uc.ListInbound(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := uc.GetInbound(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, got.ID)
	require.Len(t, got.Items, 1)
}

func TestRecordInbound_CostoPorKiloSeConvierteAJava(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "20", true)
	uc := inventory.NewInboundUseCase(store, store.Repos().Inbound, zerolog.Nop())

	lot, err := uc.RecordInbound(context.Background(), "admin-1", inbound(dto.InboundItemRequest{
		ProductID: "P", QuantityCrates: d("3"), Cost: d("0.5"), CostMode: "kg",
	}))
	require.NoError(t, err)
	require.Len(t, lot.Items, 1)
	assert.True(t, lot.Items[0].CostPerCrate.Equal(d("10")), "0.5 * 20")
	assert.True(t, lot.TotalCost.Equal(d("30")))
}

func TestRecordInbound_Validaciones(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "17", true)
	seed(t, store, "OLD", "17", false)
	uc := inventory.NewInboundUseCase(store, store.Repos().Inbound, zerolog.Nop())
	ctx := context.Background()
	ok := dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("1"), Cost: d("1")}

	cases := []struct {
		name string
		req  dto.RecordInboundRequest
		want error
	}{
		{"sin proveedor", dto.RecordInboundRequest{TruckID: "ABC123", Items: []dto.InboundItemRequest{ok}}, domain.ErrInvalidInput},
		{"placa corta", dto.RecordInboundRequest{SupplierName: "X", TruckID: "AB", Items: []dto.InboundItemRequest{ok}}, domain.ErrInvalidInput},
		{"sin líneas", inbound(), domain.ErrInvalidInput},
		{"cantidad cero", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("0"), Cost: d("1")}), domain.ErrInvalidInput},
		{"costo negativo", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("1"), Cost: d("-1")}), domain.ErrInvalidInput},
		{"modo desconocido", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("1"), Cost: d("1"), CostMode: "TON"}), domain.ErrInvalidInput},
		{"producto inexistente", inbound(dto.InboundItemRequest{ProductID: "NOPE", QuantityCrates: d("1"), Cost: d("1")}), domain.ErrNotFound},
		{"producto archivado", inbound(dto.InboundItemRequest{ProductID: "OLD", QuantityCrates: d("1"), Cost: d("1")}), domain.ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordInbound(ctx, "admin-1", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	pos, err := store.Repos().Stock.Get(ctx, "P")
	require.NoError(t, err)
	assert.True(t, pos.QuantityCrates.IsZero(), "ningún ingreso inválido tocó el stock")
}

func TestRecordInbound_LoteConLineaInvalidaNoAplicaNada(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "A", "17", true)
	seed(t, store, "Z", "17", false)
	uc := inventory.NewInboundUseCase(store, store.Repos().Inbound, zerolog.Nop())

	_, err := uc.RecordInbound(context.Background(), "admin-1", inbound(
		dto.InboundItemRequest{ProductID: "A", QuantityCrates: d("4"), Cost: d("2")},
		dto.InboundItemRequest{ProductID: "Z", QuantityCrates: d("4"), Cost: d("2")},
	))
	require.ErrorIs(t, err, domain.ErrInvalidState)

	pos, err := store.Repos().Stock.Get(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, pos.QuantityCrates.IsZero(), "la línea válida se revirtió con el lote")
}

func TestRecordAdjustment_NoCambiaCostoPromedio(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "17", true)
	in := inventory.NewInboundUseCase(store, store.Repos().Inbound, zerolog.Nop())
	_, err := in.RecordInbound(context.Background(), "admin-1", inbound(dto.InboundItemRequest{ProductID: "P", QuantityCrates: d("10"), Cost: d("6")}))
	require.NoError(t, err)

	uc := inventory.NewAdjustmentUseCase(store, store.Repos().Adjustments, zerolog.Nop())
	adj, err := uc.RecordAdjustment(context.Background(), "admin-1", dto.RecordAdjustmentRequest{
		ProductID: "P", QuantityCrates: d("-2.5"), Type: entity.AdjustmentShrinkage, Reason: "  podrida ",
	})
	require.NoError(t, err)
	assert.True(t, adj.CostImpact.Equal(d("15")), "2.5 * 6, got %s", adj.CostImpact)
	assert.Equal(t, "podrida", adj.Reason)

	pos, err := store.Repos().Stock.Get(context.Background(), "P")
	require.NoError(t, err)
	assert.True(t, pos.QuantityCrates.Equal(d("7.5")))
	assert.True(t, pos.AverageCostPerCrate.Equal(d("6")))

	_, err = uc.RecordAdjustment(context.Background(), "admin-1", dto.RecordAdjustmentRequest{
		ProductID: "P", QuantityCrates: d("1"), Type: entity.AdjustmentCountError, CostImpact: ptr(d("0")),
	})
	require.NoError(t, err)

	list, err := uc.ListAdjustments(context.Background(), "P", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRecordAdjustment_Validaciones(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "17", true)
	uc := inventory.NewAdjustmentUseCase(store, store.Repos().Adjustments, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.RecordAdjustment(ctx, "admin-1", dto.RecordAdjustmentRequest{ProductID: "P", QuantityCrates: d("0"), Type: entity.AdjustmentTheft})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.RecordAdjustment(ctx, "admin-1", dto.RecordAdjustmentRequest{ProductID: "P", QuantityCrates: d("1"), Type: "REGALO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = uc.RecordAdjustment(ctx, "admin-1", dto.RecordAdjustmentRequest{ProductID: "P", QuantityCrates: d("1"), Type: entity.AdjustmentTheft, CostImpact: ptr(d("-1"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "impacto negativo")

	_, err = uc.RecordAdjustment(ctx, "admin-1", dto.RecordAdjustmentRequest{ProductID: "NOPE", QuantityCrates: d("1"), Type: entity.AdjustmentTheft})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_EstadoYKilosDerivados(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "P", "20", true)
	seed(t, store, "Q", "17", true)
	repos := store.Repos()
	require.NoError(t, repos.Stock.Upsert(context.Background(), &entity.StockPosition{
		ProductID: "P", QuantityCrates: d("-1.5"), AverageCostPerCrate: d("4"), UpdatedAt: time.Now(),
	}))

	uc := inventory.NewStockUseCase(repos.Products, repos.Stock, d("5"))
	info, err := uc.GetStockPosition(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, "NEGATIVE", info.Status)
	assert.True(t, info.QuantityKg.Equal(d("-30")))
	assert.NotNil(t, info.UpdatedAt)

	list, err := uc.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		if s.ProductID == "Q" {
			assert.True(t, s.QuantityCrates.IsZero(), "producto sin movimientos aparece en cero")
			assert.Equal(t, "LOW", s.Status)
		}
	}

	_, err = uc.GetStockPosition(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment_PriorizaRotacionYLuegoDeficit(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"P", "Q", "R", "S"} {
		seed(t, store, id, "10", true)
	}
	repos := store.Repos()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for id, qty := range map[string]string{"P": "2", "Q": "4", "R": "10", "S": "-1"} {
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.StockPosition{
			ProductID: id, QuantityCrates: d(qty), AverageCostPerCrate: d("6"), UpdatedAt: now,
		}))
	}
	sale := func(id string, at time.Time, cancelled bool, productID, crates string) {
		require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{
			ID: id, Date: at, Type: entity.SaleTypeCash, PaymentMethod: entity.PaymentMethodCash,
			IsCancelled: cancelled, CreatedBy: "c", CreatedAt: at,
			Items: []entity.SaleItem{{ID: id + "-1", SaleID: id, ProductID: productID, QuantityKg: d(crates).Mul(d("10")),
				QuantityJavas: d(crates), ConversionFactor: d("10"), PricePerKg: d("1"), Subtotal: d(crates).Mul(d("10"))}},
		}))
	}
	sale("s1", now.AddDate(0, 0, -2), false, "Q", "3")
	sale("s2", now.AddDate(0, 0, -1), true, "P", "50")  // anulada: no cuenta
	sale("s3", now.AddDate(0, 0, -30), false, "P", "50") // fuera de la semana

	stock := inventory.NewStockUseCase(repos.Products, repos.Stock, d("5"))
	uc := inventory.NewReplenishmentUseCase(stock, repos.Sales).WithClock(func() time.Time { return now })
	list, err := uc.GenerateReplenishmentList(ctx)
	require.NoError(t, err)

	require.Len(t, list, 3, "R está en NORMAL")
	assert.Equal(t, "Q", list[0].ProductID, "mayor rotación primero")
	assert.True(t, list[0].CratesSoldLastWeek.Equal(d("3")))
	assert.True(t, list[0].SuggestedCrates.Equal(d("3.5")))

	assert.Equal(t, "S", list[1].ProductID, "a igual rotación, mayor déficit")
	assert.True(t, list[1].SuggestedCrates.Equal(d("8.5")))
	assert.True(t, list[1].EstimatedCost.Equal(d("51")))
	assert.Equal(t, "NEGATIVE", list[1].Status)

	assert.Equal(t, "P", list[2].ProductID)
	assert.True(t, list[2].CratesSoldLastWeek.IsZero())
	assert.Equal(t, 3, list[2].Priority)
}
