package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	appanalytics "github.com/jhoicas/iMarket-api/internal/application/analytics"
	"github.com/jhoicas/iMarket-api/internal/application/cashclose"
	"github.com/jhoicas/iMarket-api/internal/application/consignment"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/application/provider"
	"github.com/jhoicas/iMarket-api/internal/application/rates"
	"github.com/jhoicas/iMarket-api/internal/application/reservation"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/cache"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/metrics"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/postgres"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/quote"
	httpRouter "github.com/jhoicas/iMarket-api/internal/interfaces/http"
	"github.com/jhoicas/iMarket-api/pkg/config"
	"github.com/jhoicas/iMarket-api/pkg/logger"
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
		Str("store_driver", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Almacenamiento: PostgreSQL (producción) o memoria (desarrollo local).
	var (
		txRunner ports.TxRunner
		repos    repository.Repos
		closeDB  = func() {}
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
		closeDB = pool.Close
	}
	defer closeDB()

	// Cotización: Redis y la API externa son opcionales.
	var rateCache ports.RateCache
	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se sigue sin caché de cotización")
		} else {
			defer client.Close()
			rateCache = cache.NewRateCache(client)
		}
	}
	var quoter ports.RateQuoter
	if cfg.Rates.QuoteURL != "" {
		quoter = quote.NewDolarClient(cfg.Rates.QuoteURL)
	}
	rateSvc := rates.NewService(repos.Rates, rateCache, quoter, cfg.Rates.CacheTTL)

	m := metrics.New()

	ledger := inventory.NewLedger()
	inventoryUC := inventory.NewUseCase(txRunner, repos, ledger)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products, cfg.Business.LowStockThreshold)
	salesUC := sales.NewUseCase(txRunner, repos, ledger, rateSvc, m)
	reservationUC := reservation.NewUseCase(txRunner, repos, ledger, rateSvc, salesUC, cfg.Business.ReserveDays)
	cashUC := cashclose.NewUseCase(txRunner, repos)
	providerUC := provider.NewUseCase(repos.Providers)
	consignmentUC := consignment.NewUseCase(txRunner, repos, ledger, rateSvc, salesUC)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Sales, replenishmentUC, rateSvc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 20,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "iMarket API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC:     inventoryUC,
		ReplenishmentUC: replenishmentUC,
		SalesUC:         salesUC,
		ReservationUC:   reservationUC,
		CashUC:          cashUC,
		ProviderUC:      providerUC,
		ConsignmentUC:   consignmentUC,
		Rates:           rateSvc,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	errGrp, grpCtx := errgroup.WithContext(ctx)

	errGrp.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	})

	if cfg.Rates.RefreshInterval > 0 && quoter != nil {
		errGrp.Go(func() error {
			rateSvc.RunRefresher(grpCtx, cfg.Rates.RefreshInterval)
			return nil
		})
	}

	errGrp.Go(func() error {
		<-grpCtx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("apagado del servidor: %w", err)
		}
		return nil
	})

	if err := errGrp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		closeDB()
		os.Exit(1)
	}

	log.Info().Msg("aplicación detenida")
}
