package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandler gráficos y reporte PDF.
type AnalyticsHandler struct {
	charts  *analytics.ChartUseCase
	reports *analytics.ReportUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(charts *analytics.ChartUseCase, reports *analytics.ReportUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{charts: charts, reports: reports}
}

// Chart godoc
// @Summary      Datos de un gráfico (stock, value, category, low-stock)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "Tipo de gráfico"
// @Success      200   {object}  dto.ChartDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/charts/{kind} [get]
func (h *AnalyticsHandler) Chart(c *fiber.Ctx) error {
	out, err := h.charts.Chart(c.Params("kind"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChartWorkbook godoc
// @Summary      Libro .xlsx con todos los gráficos
// @Tags         analytics
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/charts/report.xlsx [get]
func (h *AnalyticsHandler) ChartWorkbook(c *fiber.Ctx) error {
	data, err := h.charts.Workbook(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("graficos_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// InventoryPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/reports/inventory.pdf [get]
func (h *AnalyticsHandler) InventoryPDF(c *fiber.Ctx) error {
	data, filename, err := h.reports.InventoryPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(data)
}
