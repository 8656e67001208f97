package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/rates"
)

// RateHandler cotización del dólar.
type RateHandler struct {
	svc *rates.Service
}

// NewRateHandler construye el handler.
func NewRateHandler(svc *rates.Service) *RateHandler {
	return &RateHandler{svc: svc}
}

// Get GET /api/rates/usd
func (h *RateHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Set godoc
// @Summary      Fijar cotización USD→ARS
// @Tags         rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetRateRequest  true  "Cotización (> 0)"
// @Success      200   {object}  dto.RateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/rates/usd [put]
func (h *RateHandler) Set(c *fiber.Ctx) error {
	var in dto.SetRateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.svc.Set(c.UserContext(), in.Rate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Refresh POST /api/rates/usd/refresh. Si la API externa falla responde 200 con stale=true y el valor anterior.
func (h *RateHandler) Refresh(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()
	out, err := h.svc.Refresh(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
