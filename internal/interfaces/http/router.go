package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/iMarket-api/internal/application/analytics"
	"github.com/jhoicas/iMarket-api/internal/application/cashclose"
	"github.com/jhoicas/iMarket-api/internal/application/consignment"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/provider"
	"github.com/jhoicas/iMarket-api/internal/application/rates"
	"github.com/jhoicas/iMarket-api/internal/application/reservation"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC     *inventory.UseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	SalesUC         *sales.UseCase
	ReservationUC   *reservation.UseCase
	CashUC          *cashclose.UseCase
	ProviderUC      *provider.UseCase
	ConsignmentUC   *consignment.UseCase
	Rates           *rates.Service
	DashboardUC     *appanalytics.DashboardUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.InventoryUC, deps.ReplenishmentUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/valuation", productHandler.Valuation)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/:id/restock", productHandler.Restock)
	products.Post("/:id/adjust", productHandler.Adjust)
	products.Post("/:id/transfer", productHandler.Transfer)

	// Sales
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Reserves (señas)
	reserves := api.Group("/reserves")
	reserveHandler := NewReserveHandler(deps.ReservationUC)
	reserves.Post("/", reserveHandler.Create)
	reserves.Get("/", reserveHandler.List)
	reserves.Get("/:id", reserveHandler.GetByID)
	reserves.Post("/:id/complete", reserveHandler.Complete)
	reserves.Post("/:id/cancel", reserveHandler.Cancel)

	// Cash register
	cash := api.Group("/cash")
	cashHandler := NewCashHandler(deps.CashUC)
	cash.Get("/summary", cashHandler.Summary)
	cash.Post("/close", adminOnly, cashHandler.Close)
	cash.Get("/closures", cashHandler.Closures)
	cash.Get("/closures/last", cashHandler.LastClosure)
	cash.Post("/withdrawals", cashHandler.RegisterWithdrawal)
	cash.Get("/withdrawals", cashHandler.Withdrawals)

	// Providers
	providers := api.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Post("/", providerHandler.Create)
	providers.Get("/", providerHandler.List)
	providers.Get("/:id/ledger", providerHandler.Ledger)
	providers.Post("/:id/transactions", providerHandler.AddTransaction)

	// JBL
	jbl := api.Group("/jbl")
	jblHandler := NewJblHandler(deps.ConsignmentUC)
	jbl.Post("/", jblHandler.Create)
	jbl.Get("/", jblHandler.List)
	jbl.Post("/:id/sell", jblHandler.Sell)
	jbl.Post("/:id/load", jblHandler.Load)

	// Rates
	ratesGroup := api.Group("/rates")
	rateHandler := NewRateHandler(deps.Rates)
	ratesGroup.Get("/usd", rateHandler.Get)
	ratesGroup.Put("/usd", adminOnly, rateHandler.Set)
	ratesGroup.Post("/usd/refresh", adminOnly, rateHandler.Refresh)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/today", dashboardHandler.Today)
}
