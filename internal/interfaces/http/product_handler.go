package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

// ProductHandler catálogo y operaciones de stock.
type ProductHandler struct {
	uc            *inventory.UseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *inventory.UseCase, replenishment *inventory.ReplenishmentUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Cargar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateProduct(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        store     query  string  false  "local1 | local2"
// @Param        category  query  string  false  "Categoría exacta"
// @Param        in_stock  query  bool    false  "Solo con stock"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.ListProducts(c.UserContext(), repository.ProductFilter{
		Store:    c.Query("store"),
		Category: c.Query("category"),
		InStock:  c.QueryBool("in_stock", false),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Restock POST /api/products/:id/restock
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.RestockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Restock(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Adjust POST /api/products/:id/adjust. El stock resultante se limita a 0; un celular agotado se elimina.
func (h *ProductHandler) Adjust(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.AdjustStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Adjust(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer POST /api/products/:id/transfer
func (h *ProductHandler) Transfer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.TransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Transfer(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements GET /api/products/:id/movements
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Movements(c.UserContext(), id, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos para reponer
// @Description  Productos que no son celulares con stock en o por debajo del umbral.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        store      query  string  false  "local1 | local2"
// @Param        threshold  query  int     false  "Umbral (default LOW_STOCK_THRESHOLD)"
// @Success      200        {array}  dto.LowStockDTO
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.replenishment.LowStock(c.UserContext(), c.Query("store"), c.QueryInt("threshold", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Valuation GET /api/products/valuation
func (h *ProductHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.replenishment.Valuation(c.UserContext(), c.Query("store"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
