package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/catalog"
	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type stubTickets struct{}

func (stubTickets) GenerateSaleTicket(context.Context, *entity.Sale, *entity.Client, map[string]*entity.Product) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type apiEnv struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T, health map[string]apphttp.Pinger) *apiEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()
	stockUC := inventory.NewStockUseCase(repos.Products, repos.Stock, decimal.NewFromInt(5))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    catalog.NewProductUseCase(repos.Products, store, entity.DefaultConversionFactor, log),
		StockUC:      stockUC,
		RestockUC:    inventory.NewReplenishmentUseCase(stockUC, repos.Sales),
		InboundUC:    inventory.NewInboundUseCase(store, repos.Inbound, log),
		AdjustmentUC: inventory.NewAdjustmentUseCase(store, repos.Adjustments, log),
		ClientUC:     credit.NewClientUseCase(repos.Clients, credit.Settings{DebtAlertThreshold: decimal.NewFromInt(1000)}),
		PaymentUC:    credit.NewPaymentUseCase(store, repos.Payments, repos.Clients, log),
		SaleUC:       sales.NewProcessor(store, repos.Sales, nil, time.UTC, log),
		SaleQueryUC:  sales.NewQueryUseCase(repos.Sales, repos.Products, repos.Clients, stubTickets{}, time.UTC),
		DailyReport:  report.NewDailyReportUseCase(repos.Sales, repos.Payments, nil, time.UTC, log),
		HealthDeps:   health,
		JWTSecret:    testJWTSecret,
	})
	return &apiEnv{app: app, store: store}
}

func (e *apiEnv) do(t *testing.T, method, path, role string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *apiEnv) createProduct(t *testing.T, name string) dto.ProductResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", "admin", map[string]any{
		"name": name, "type": "Amarilla", "quality": "Primera", "conversion_factor": "17",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func (e *apiEnv) receive(t *testing.T, productID, crates, cost string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/inbound", "admin", map[string]any{
		"supplier_name": "Proveedor", "truck_id": "abc-123",
		"items": []map[string]any{{"product_id": productID, "quantity_crates": crates, "cost": cost}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_TodoConectado(t *testing.T) {
	env := newAPI(t, map[string]apphttp.Pinger{"db": pingFunc(func(context.Context) error { return nil })})
	resp := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
}

func TestHealth_DependenciaCaida_Retorna503(t *testing.T) {
	env := newAPI(t, map[string]apphttp.Pinger{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})
	resp := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "error", body["redis"])
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	env := newAPI(t, nil)
	resp := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CajeroNoPuedeCrearProducto(t *testing.T) {
	env := newAPI(t, nil)
	resp := env.do(t, http.MethodPost, "/api/products", "cajero", map[string]any{"name": "Papa"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_VentaContadoDescuentaStockYEsIdempotente(t *testing.T) {
	env := newAPI(t, nil)
	p := env.createProduct(t, "Papa")
	env.receive(t, p.ID, "10", "5")

	sale := map[string]any{
		"type": "CASH", "payment_method": "CASH", "amortization": "0",
		"items": []map[string]any{{"product_id": p.ID, "quantity_kg": "34", "price_per_kg": "10"}},
	}
	first := env.do(t, http.MethodPost, "/api/sales", "cajero", sale, apphttp.HeaderIdempotencyKey, "venta-001")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	created := decode[dto.SaleResponse](t, first)
	assert.True(t, created.TotalAmount.Equal(decimal.NewFromInt(340)))

	again := env.do(t, http.MethodPost, "/api/sales", "cajero", sale, apphttp.HeaderIdempotencyKey, "venta-001")
	require.Equal(t, http.StatusCreated, again.StatusCode)
	assert.Equal(t, created.ID, decode[dto.SaleResponse](t, again).ID, "la misma clave devuelve la venta original")

	stock := env.do(t, http.MethodGet, "/api/stock/"+p.ID, "cajero", nil)
	require.Equal(t, http.StatusOK, stock.StatusCode)
	info := decode[dto.StockInfo](t, stock)
	assert.True(t, info.QuantityCrates.Equal(decimal.NewFromInt(8)), "10 - 34/17 = 8, una sola vez")

	rep := env.do(t, http.MethodGet, "/api/reports/daily", "cajero", nil)
	require.Equal(t, http.StatusOK, rep.StatusCode)
	daily := decode[dto.DailyReport](t, rep)
	assert.True(t, daily.TotalSales.Equal(decimal.NewFromInt(340)))
	assert.Equal(t, 1, daily.TransactionCount)
}

func TestAPI_PedidoSobreLimite_Retorna409HastaConfirmar(t *testing.T) {
	env := newAPI(t, nil)
	p := env.createProduct(t, "Camote")
	env.receive(t, p.ID, "20", "5")

	resp := env.do(t, http.MethodPost, "/api/clients", "cajero", map[string]any{"name": "Doña Rosa", "credit_limit": "100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	client := decode[dto.ClientResponse](t, resp)

	order := map[string]any{
		"type": "ORDER", "client_id": client.ID, "payment_method": "CREDIT", "amortization": "0",
		"items": []map[string]any{{"product_id": p.ID, "quantity_kg": "17", "price_per_kg": "10"}},
	}
	over := env.do(t, http.MethodPost, "/api/sales", "cajero", order)
	assert.Equal(t, http.StatusConflict, over.StatusCode)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", decode[dto.ErrorResponse](t, over).Code)

	order["confirm_over_limit"] = true
	ok := env.do(t, http.MethodPost, "/api/sales", "cajero", order)
	require.Equal(t, http.StatusCreated, ok.StatusCode)
	sale := decode[dto.SaleResponse](t, ok)

	got := decode[dto.ClientResponse](t, env.do(t, http.MethodGet, "/api/clients/"+client.ID, "cajero", nil))
	assert.True(t, got.CurrentDebt.Equal(decimal.NewFromInt(170)))

	pay := env.do(t, http.MethodPost, "/api/clients/"+client.ID+"/payments", "cajero",
		map[string]any{"amount": "70", "payment_method": "CASH"})
	require.Equal(t, http.StatusCreated, pay.StatusCode)

	// Anular es solo para admin.
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/sales/"+sale.ID+"/cancel", "cajero", nil).StatusCode)
	cancel := env.do(t, http.MethodPost, "/api/sales/"+sale.ID+"/cancel", "admin", nil)
	require.Equal(t, http.StatusOK, cancel.StatusCode)

	got = decode[dto.ClientResponse](t, env.do(t, http.MethodGet, "/api/clients/"+client.ID, "cajero", nil))
	assert.True(t, got.CurrentDebt.Equal(decimal.NewFromInt(-70)), "se revierte la venta, el abono se mantiene")

	again := env.do(t, http.MethodPost, "/api/sales/"+sale.ID+"/cancel", "admin", nil)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, again).Code)
}

func TestAPI_ReposicionNoChocaConStockPorProducto(t *testing.T) {
	env := newAPI(t, nil)
	p := env.createProduct(t, "Papa")
	env.receive(t, p.ID, "2", "5")

	resp := env.do(t, http.MethodGet, "/api/stock/replenishment", "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.ReplenishmentSuggestion](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ProductID)
	assert.True(t, list[0].SuggestedCrates.Equal(decimal.RequireFromString("5.5")), "ideal 7.5 - 2")
}

func TestAPI_TicketDevuelvePDF(t *testing.T) {
	env := newAPI(t, nil)
	p := env.createProduct(t, "Papa")
	env.receive(t, p.ID, "5", "5")

	resp := env.do(t, http.MethodPost, "/api/sales", "cajero", map[string]any{
		"type": "CASH", "payment_method": "DIGITAL_WALLET_A", "guest_name": "Don Lucho",
		"items": []map[string]any{{"product_id": p.ID, "quantity_kg": "1", "price_per_kg": "3"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)

	ticket := env.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/ticket", "cajero", nil)
	require.Equal(t, http.StatusOK, ticket.StatusCode)
	assert.Equal(t, "application/pdf", ticket.Header.Get("Content-Type"))

	got := decode[dto.SaleResponse](t, env.do(t, http.MethodGet, "/api/sales/"+sale.ID, "cajero", nil))
	assert.True(t, got.IsPrinted)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_MapeoDeErrores(t *testing.T) {
	env := newAPI(t, nil)

	notFound := env.do(t, http.MethodGet, "/api/sales/no-existe", "cajero", nil)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, notFound).Code)

	invalid := env.do(t, http.MethodPost, "/api/sales", "cajero", map[string]any{"type": "CASH", "payment_method": "CASH"})
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, invalid).Code)

	badDate := env.do(t, http.MethodGet, "/api/reports/daily?date=10-03-2024", "cajero", nil)
	assert.Equal(t, http.StatusBadRequest, badDate.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "cajero"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAPI_EliminarProductoConHistorialLoArchiva(t *testing.T) {
	env := newAPI(t, nil)
	used := env.createProduct(t, "Papa")
	env.receive(t, used.ID, "1", "5")
	unused := env.createProduct(t, "Olluco")

	usage := decode[dto.ProductUsageResponse](t, env.do(t, http.MethodGet, "/api/products/"+used.ID+"/usage", "cajero", nil))
	assert.True(t, usage.HasHistory)

	archived := decode[dto.DeleteProductResponse](t, env.do(t, http.MethodDelete, "/api/products/"+used.ID, "admin", nil))
	assert.Equal(t, entity.DeleteOutcomeArchived, archived.Outcome)

	deleted := decode[dto.DeleteProductResponse](t, env.do(t, http.MethodDelete, "/api/products/"+unused.ID, "admin", nil))
	assert.Equal(t, entity.DeleteOutcomeDeleted, deleted.Outcome)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/products/"+unused.ID, "cajero", nil).StatusCode)
}
