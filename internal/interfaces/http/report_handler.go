package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/report"
)

// ReportHandler cuadre de caja.
type ReportHandler struct {
	daily *report.DailyReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(daily *report.DailyReportUseCase) *ReportHandler {
	return &ReportHandler{daily: daily}
}

// Daily godoc
// @Summary      Cuadre diario
// @Description  Totales del día por medio de pago, crédito, cobranza y abonos.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día YYYY-MM-DD (defecto: hoy)"
// @Success      200  {object}  dto.DailyReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	out, err := h.daily.GetDailyReport(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
