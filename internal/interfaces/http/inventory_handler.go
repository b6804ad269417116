package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	appinv "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/csvexport"
)

// InventoryHandler movimientos, exportación y alertas de stock bajo.
type InventoryHandler struct {
	svc      *appinv.LedgerService
	lowStock *appinv.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *appinv.LedgerService, lowStock *appinv.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{svc: svc, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                       true  "Nombre del producto"
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{name}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.RegisterMovement(c.UserContext(), productParam(c), in, GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos, del más reciente al más antiguo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Producto, tipo, usuario u observaciones"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	return c.JSON(h.svc.ListMovements(c.Query("q")))
}

// ExportMovements godoc
// @Summary      Exportar el historial completo a CSV
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := csvexport.WriteMovements(&buf, h.svc.Movements()); err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("movimientos_%s.csv", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// LowStock godoc
// @Summary      Productos con stock en o bajo su mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReportResponse
// @Router       /api/alerts/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.lowStock.Report())
}
