package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/consignment"
	"github.com/jhoicas/iMarket-api/internal/application/dto"
)

// JblHandler parlantes JBL en inventario propio o consignación.
type JblHandler struct {
	uc *consignment.UseCase
}

// NewJblHandler construye el handler.
func NewJblHandler(uc *consignment.UseCase) *JblHandler {
	return &JblHandler{uc: uc}
}

func (h *JblHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJblRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *JblHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sell POST /api/jbl/:id/sell
func (h *JblHandler) Sell(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.JblQuantityRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Sell(c.UserContext(), GetUserID(c), GetStore(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Load POST /api/jbl/:id/load
func (h *JblHandler) Load(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.JblQuantityRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Load(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
