package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Ventas-api/internal/application/catalog"
	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria del negocio")
	}

	ctx := context.Background()
	healthDeps := map[string]httpRouter.Pinger{}

	// Almacenamiento: PostgreSQL en producción, memoria para demos y desarrollo local.
	var (
		txRunner ports.TxRunner
		repos    ports.TxRepos
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Zerolog()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.Repos(pool)
		healthDeps["db"] = pool
	}

	// Cache del cuadre diario: Redis si hay dirección, si no no se cachea.
	var reportCache ports.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisReportCache(
			cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
			cfg.Redis.TTL,
		)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible al iniciar")
		}
		defer redisCache.Close()
		reportCache = redisCache
		healthDeps["redis"] = redisCache
	}

	zl := log.Zerolog()
	productUC := catalog.NewProductUseCase(repos.Products, txRunner, cfg.Business.DefaultConversionFactor, zl)
	stockUC := inventory.NewStockUseCase(repos.Products, repos.Stock, cfg.Business.LowStockThreshold)
	inboundUC := inventory.NewInboundUseCase(txRunner, repos.Inbound, zl)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, repos.Adjustments, zl)
	restockUC := inventory.NewReplenishmentUseCase(stockUC, repos.Sales)
	clientUC := credit.NewClientUseCase(repos.Clients, credit.Settings{
		DebtAlertThreshold: cfg.Business.DebtAlertThreshold,
		Location:           loc,
	})
	paymentUC := credit.NewPaymentUseCase(txRunner, repos.Payments, repos.Clients, zl)
	processor := sales.NewProcessor(txRunner, repos.Sales, reportCache, loc, zl)

	// PDF: ticket de venta para la impresora de 80 mm
	tickets := infrapdf.NewMarotoTicketGenerator(cfg.Business.Name, cfg.Business.Currency, loc)
	saleQueryUC := sales.NewQueryUseCase(repos.Sales, repos.Products, repos.Clients, tickets, loc)
	dailyReportUC := report.NewDailyReportUseCase(repos.Sales, repos.Payments, reportCache, loc, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ventas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		StockUC:      stockUC,
		InboundUC:    inboundUC,
		AdjustmentUC: adjustmentUC,
		RestockUC:    restockUC,
		ClientUC:     clientUC,
		PaymentUC:    paymentUC,
		SaleUC:       processor,
		SaleQueryUC:  saleQueryUC,
		DailyReport:  dailyReportUC,
		HealthDeps:   healthDeps,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
