package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/provider"
)

// ProviderHandler proveedores y cuenta corriente.
type ProviderHandler struct {
	uc *provider.UseCase
}

// NewProviderHandler construye el handler.
func NewProviderHandler(uc *provider.UseCase) *ProviderHandler {
	return &ProviderHandler{uc: uc}
}

func (h *ProviderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProviderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ProviderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Ledger GET /api/providers/:id/ledger: movimientos con saldo acumulado.
func (h *ProviderHandler) Ledger(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Ledger(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddTransaction godoc
// @Summary      Registrar deuda o pago
// @Tags         providers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "ID del proveedor"
// @Param        body  body  dto.AddProviderTransactionRequest  true  "Movimiento"
// @Success      201   {object}  dto.ProviderResponse
// @Failure      400   {object}  dto.ErrorResponse  "detalle obligatorio para deudas"
// @Router       /api/providers/{id}/transactions [post]
func (h *ProviderHandler) AddTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.AddProviderTransactionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddTransaction(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
