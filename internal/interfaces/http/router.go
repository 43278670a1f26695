package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/catalog"
	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *catalog.ProductUseCase
	StockUC      *inventory.StockUseCase
	InboundUC    *inventory.InboundUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	RestockUC    *inventory.ReplenishmentUseCase
	ClientUC     *credit.ClientUseCase
	PaymentUC    *credit.PaymentUseCase
	SaleUC       *sales.Processor
	SaleQueryUC  *sales.QueryUseCase
	DailyReport  *report.DailyReportUseCase
	HealthDeps   map[string]Pinger
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.HealthDeps))

	// Todo /api requiere Bearer Token y un rol conocido.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleCajero))
	adminOnly := RequireRole(RoleAdmin)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/tree", productHandler.Tree)
	products.Post("/tree/navigate", productHandler.Navigate)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Get("/:id/usage", productHandler.Usage)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock, ingresos y ajustes
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.InboundUC, deps.AdjustmentUC, deps.RestockUC)
	api.Get("/stock", inventoryHandler.ListStock)
	api.Get("/stock/replenishment", inventoryHandler.Replenishment)
	api.Get("/stock/:product_id", inventoryHandler.GetStock)
	api.Post("/inbound", adminOnly, inventoryHandler.RecordInbound)
	api.Get("/inbound", inventoryHandler.ListInbound)
	api.Get("/inbound/:id", inventoryHandler.GetInbound)
	api.Post("/adjustments", adminOnly, inventoryHandler.RecordAdjustment)
	api.Get("/adjustments", inventoryHandler.ListAdjustments)

	// Clients y abonos
	clientHandler := NewClientHandler(deps.ClientUC, deps.PaymentUC)
	clients := api.Group("/clients")
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Post("/:id/payments", clientHandler.RecordPayment)
	clients.Get("/:id/payments", clientHandler.ListPayments)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.SaleQueryUC)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", adminOnly, saleHandler.Cancel)
	salesGroup.Get("/:id/ticket", saleHandler.Ticket)

	// Reports
	reportHandler := NewReportHandler(deps.DailyReport)
	api.Get("/reports/daily", reportHandler.Daily)
}
