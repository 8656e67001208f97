package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/cashclose"
	"github.com/jhoicas/iMarket-api/internal/application/dto"
)

// CashHandler cierre de caja y retiros.
type CashHandler struct {
	uc *cashclose.UseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cashclose.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Summary godoc
// @Summary      Vista previa del período abierto
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClosureResponse
// @Router       /api/cash/summary [get]
func (h *CashHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Preview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Persiste el cierre inmutable; su timestamp inicia el período siguiente. Solo admin.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.ClosureResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/cash/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CashHandler) Closures(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CashHandler) LastClosure(c *fiber.Ctx) error {
	out, err := h.uc.Last(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterWithdrawal POST /api/cash/withdrawals
func (h *CashHandler) RegisterWithdrawal(c *fiber.Ctx) error {
	var in dto.CreateWithdrawalRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterWithdrawal(c.UserContext(), GetUserID(c), GetStore(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Withdrawals GET /api/cash/withdrawals (período abierto).
func (h *CashHandler) Withdrawals(c *fiber.Ctx) error {
	out, err := h.uc.ListWithdrawals(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
