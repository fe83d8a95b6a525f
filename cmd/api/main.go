package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcosting "github.com/jhoicas/Ventas-api/internal/application/costing"
	"github.com/jhoicas/Ventas-api/internal/application/saleorder"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	rateRepo := postgres.NewCurrencyRateRepository(pool)
	orderRepo := postgres.NewSaleOrderRepository(pool)
	appSaleRepo := postgres.NewAppSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Costeo: costo por empresa → conversión de moneda → escala de precio unitario.
	costLookup := appcosting.NewProductCompanyCostLookup(productRepo)
	converter := appcosting.NewRateConverter(rateRepo, int32(cfg.Costing.AmountScale))
	scales := appcosting.NewAppSaleScaleProvider(appSaleRepo, int32(cfg.Costing.UnitPriceScale))
	clock := appcosting.NewCompanyClock(cfg.Costing.DefaultTimezone, time.Now)
	filler := appcosting.NewCostPriceFiller(companyRepo, costLookup, converter, scales, clock)
	calculator := domcosting.NewCostRollupCalculator(costLookup, converter, scales, clock, filler)

	saleOrderUC := saleorder.NewCostUseCase(
		txRunner, orderRepo, companyRepo, productRepo, calculator,
		infrapdf.NewMarotoCostSheetGenerator(), log,
		saleorder.Config{MaxDepth: cfg.Costing.MaxDepth},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:      usecase.NewCompanyUseCase(companyRepo),
		ProductUC:      usecase.NewProductUseCase(productRepo),
		CurrencyRateUC: usecase.NewCurrencyRateUseCase(rateRepo),
		SaleOrderUC:    saleOrderUC,
		JWTSecret:      cfg.JWT.Secret,
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
