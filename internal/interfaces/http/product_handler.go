package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	appinv "github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	svc *appinv.LedgerService
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *appinv.LedgerService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary      Agregar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AddProduct(c.UserContext(), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener producto por nombre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{name} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.GetProduct(productParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos (filtro opcional por nombre, categoría o proveedor)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Texto a buscar"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.svc.ListProducts(c.Query("q")))
}

// Search godoc
// @Summary      Buscar producto por nombre (exacto primero; parcial opcional)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q        query  string  true   "Nombre"
// @Param        partial  query  bool    false  "Permitir coincidencia parcial" default(true)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/search/products [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	partial := c.QueryBool("partial", true)
	return c.JSON(h.svc.FindProducts(c.Query("q"), partial))
}

// Update godoc
// @Summary      Editar producto (los campos omitidos se conservan)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                    true  "Nombre del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Cambios"
// @Success      200   {object}  dto.ProductResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{name} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.EditProduct(c.UserContext(), productParam(c), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto (el historial de movimientos se conserva)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del producto"
// @Success      200   {object}  dto.DeleteProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{name} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	out, err := h.svc.DeleteProduct(c.UserContext(), productParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// productParam nombre del producto en la ruta, sin escapes de URL.
func productParam(c *fiber.Ctx) string {
	raw := c.Params("name")
	if name, err := url.PathUnescape(raw); err == nil {
		raw = name
	}
	return strings.TrimSpace(raw)
}
