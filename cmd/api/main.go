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
	"github.com/lromero/cpr-api/internal/application/picking"
	"github.com/lromero/cpr-api/internal/application/planning"
	"github.com/lromero/cpr-api/internal/application/production"
	"github.com/lromero/cpr-api/internal/application/trace"
	"github.com/lromero/cpr-api/internal/infrastructure/postgres"
	httpRouter "github.com/lromero/cpr-api/internal/interfaces/http"
	"github.com/lromero/cpr-api/pkg/config"
	"github.com/lromero/cpr-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ofRepo := postgres.NewOFRepository(pool)
	asignacionRepo := postgres.NewAsignacionRepository(pool)
	contenedorRepo := postgres.NewContenedorRepository(pool)
	pickingRepo := postgres.NewPickingStateRepository(pool)
	briefingRepo := postgres.NewBriefingRepository(pool)
	recetaRepo := postgres.NewRecetaRepository(pool)
	elaboracionRepo := postgres.NewElaboracionRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	secuenciaRepo := postgres.NewSecuenciaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	planningUC := planning.NewUseCase(briefingRepo, recetaRepo, elaboracionRepo, stockRepo, ofRepo)
	productionUC := production.NewUseCase(ofRepo, asignacionRepo, secuenciaRepo)
	pickingUC := picking.NewUseCase(txRunner, briefingRepo, pickingRepo)
	traceUC := trace.NewUseCase(ofRepo, asignacionRepo, contenedorRepo, briefingRepo, recetaRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CPR API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PlanningUC:   planningUC,
		ProductionUC: productionUC,
		PickingUC:    pickingUC,
		TraceUC:      traceUC,
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
