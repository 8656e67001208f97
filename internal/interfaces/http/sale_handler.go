package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

// SaleHandler ventas de mostrador.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, elimina celulares agotados y guarda la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Carrito y pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      422   {object}  dto.ErrorResponse  "PAYMENT_MISMATCH | RATE_UNAVAILABLE"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), GetStore(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/sales?from=&to=&store=. from/to aceptan RFC3339 o AAAA-MM-DD (to incluye el día completo).
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	filter := repository.SaleFilter{Store: c.Query("store"), Limit: page.Limit, Offset: page.Offset}
	if v := c.Query("from"); v != "" {
		t, ok := parseQueryTime(v, false)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, ok := parseQueryTime(v, true)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
		}
		filter.To = &t
	}
	out, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseQueryTime(v string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
