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
	"github.com/rahulAIsingh/smart-asset-backend/internal/application/stock"
	"github.com/rahulAIsingh/smart-asset-backend/internal/infrastructure/excel"
	"github.com/rahulAIsingh/smart-asset-backend/internal/infrastructure/pdf"
	"github.com/rahulAIsingh/smart-asset-backend/internal/infrastructure/postgres"
	httpRouter "github.com/rahulAIsingh/smart-asset-backend/internal/interfaces/http"
	"github.com/rahulAIsingh/smart-asset-backend/pkg/config"
	"github.com/rahulAIsingh/smart-asset-backend/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema del almacén")
	}

	recordRepo := postgres.NewStockRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	proposeUC := stock.NewProposeMovementUseCase(recordRepo)
	approvalUC := stock.NewApprovalUseCase(txRunner)
	queryUC := stock.NewQueryUseCase(recordRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // exportaciones xlsx/pdf
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpLog := log.Component("http")
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		httpLog.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Asset Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Propose:   proposeUC,
		Approval:  approvalUC,
		Query:     queryUC,
		Exporter:  excel.NewMovementExporter(),
		Report:    pdf.NewSummaryReportGenerator(),
		JWTSecret: cfg.JWT.Secret,

		LowStockThreshold: cfg.Ledger.LowStockThreshold,
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
