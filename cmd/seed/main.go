// seed carga datos iniciales: cotización del dólar, catálogo de productos desde CSV y proveedores.
// Al final imprime un token JWT para probar la API.
//
// Uso: go run ./cmd/seed -catalog catalogo.csv -rate 1200 -provider "Mayorista Once"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/provider"
	"github.com/jhoicas/iMarket-api/internal/application/rates"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/postgres"
	"github.com/jhoicas/iMarket-api/pkg/config"
	"github.com/jhoicas/iMarket-api/pkg/jwt"
	"github.com/jhoicas/iMarket-api/pkg/logger"
)

const seedUserID = "seed"

func main() {
	catalogPath := flag.String("catalog", "", "CSV del catálogo (separador ';')")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	rate := flag.String("rate", "", "cotización USD→ARS inicial")
	providerName := flag.String("provider", "", "proveedor a crear")
	role := flag.String("role", jwt.RoleAdmin, "rol del token impreso (admin | vendedor)")
	store := flag.String("store", "local1", "sucursal del token impreso")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	repos := postgres.NewRepos(pool)

	if *rate != "" {
		r, err := decimal.NewFromString(*rate)
		if err != nil {
			log.Fatal().Err(err).Str("rate", *rate).Msg("cotización inválida")
		}
		if _, err := rates.NewService(repos.Rates, nil, nil, 0).Set(ctx, r); err != nil {
			log.Fatal().Err(err).Msg("guardar cotización")
		}
		log.Info().Str("rate", r.String()).Msg("cotización cargada")
	}

	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		items, err := readCatalog(f, *latin1)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("parsear catálogo")
		}
		inventoryUC := inventory.NewUseCase(postgres.NewTxRunner(pool), repos, inventory.NewLedger())
		created := 0
		for _, in := range items {
			if _, err := inventoryUC.CreateProduct(ctx, seedUserID, in); err != nil {
				log.Warn().Err(err).Str("product", in.Name).Msg("producto omitido")
				continue
			}
			created++
		}
		log.Info().Int("created", created).Int("rows", len(items)).Msg("catálogo cargado")
	}

	if *providerName != "" {
		p, err := provider.NewUseCase(repos.Providers).Create(ctx, dto.CreateProviderRequest{Name: *providerName})
		if err != nil {
			log.Fatal().Err(err).Msg("crear proveedor")
		}
		log.Info().Str("provider_id", p.ID).Msg("proveedor creado")
	}

	token, err := jwt.Generate(cfg.JWT.Secret, seedUserID, *store, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(token)
}
