package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/iMarket-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Today devuelve ventas, ganancias, cotización, valorización y faltantes del día.
// GET /api/dashboard/today?store=local1
//
// Sin store se consolidan ambas sucursales. Las ventas históricas sin fecha no cuentan.
func (h *DashboardHandler) Today(c *fiber.Ctx) error {
	summary, err := h.uc.Today(c.UserContext(), c.Query("store"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
