package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/reservation"
)

// ReserveHandler señas.
type ReserveHandler struct {
	uc *reservation.UseCase
}

// NewReserveHandler construye el handler.
func NewReserveHandler(uc *reservation.UseCase) *ReserveHandler {
	return &ReserveHandler{uc: uc}
}

// Create godoc
// @Summary      Crear seña
// @Tags         reserves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReserveRequest  true  "Seña (montos en USD)"
// @Success      201   {object}  dto.ReserveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reserves [post]
func (h *ReserveHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReserveRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/reserves/:id
func (h *ReserveHandler) GetByID(c *fiber.Ctx) error {
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

// List GET /api/reserves?status=reserved|completed|cancelled
func (h *ReserveHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar seña
// @Description  Emite la venta por el saldo pendiente y cierra la seña.
// @Tags         reserves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la seña"
// @Param        body  body  dto.CompleteReserveRequest  true  "Medio de pago"
// @Success      200   {object}  dto.CompleteReserveResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/reserves/{id}/complete [post]
func (h *ReserveHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.CompleteReserveRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Complete(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/reserves/:id/cancel. Devuelve el stock retenido.
func (h *ReserveHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Cancel(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
