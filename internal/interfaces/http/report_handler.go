package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/analytics"
	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
)

// ReportHandler dashboard, resumen semanal, historial, registros y calendario.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	pdf ports.WeeklyReportRenderer
}

// NewReportHandler construye el handler. pdf puede ser nil (exportación desactivada).
func NewReportHandler(uc *analytics.ReportUseCase, pdf ports.WeeklyReportRenderer) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf}
}

// Dashboard godoc
// @Summary      Panel principal
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        ciudad  query  string  false  "Ciudad"
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), orderQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func summaryQuery(c *fiber.Ctx) dto.WeeklySummaryQuery {
	return dto.WeeklySummaryQuery{Week: c.Query("semana"), Day: c.Query("dia")}
}

// WeeklySummary godoc
// @Summary      Resumen semanal de pedidos
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        semana  query  string  false  "YYYY-MM-DD (se ajusta al lunes)"
// @Param        dia     query  int     false  "Día 1..6"
// @Success      200  {object}  dto.WeeklySummaryResponse
// @Router       /api/pedidos/resumen [get]
func (h *ReportHandler) WeeklySummary(c *fiber.Ctx) error {
	out, err := h.uc.WeeklySummary(c.UserContext(), summaryQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// WeeklySummaryPDF godoc
// @Summary      Resumen semanal en PDF
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Param        semana  query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Router       /api/pedidos/resumen.pdf [get]
func (h *ReportHandler) WeeklySummaryPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return fiber.ErrNotFound
	}
	summary, err := h.uc.WeeklySummary(c.UserContext(), summaryQuery(c))
	if err != nil {
		return err
	}
	data, err := h.pdf.RenderWeeklySummary(summary)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="resumen_%s.pdf"`, summary.Week))
	return c.Send(data)
}

// History godoc
// @Summary      Historial de pedidos cerrados
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        anio  query  int  false  "Año"
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/pedidos/historial [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	q := dto.HistoryQuery{OrderListQuery: orderQuery(c), Year: c.Query("anio")}
	out, err := h.uc.History(c.UserContext(), GetActor(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// StatusLogs godoc
// @Summary      Registros de cambios de estado
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        usuario  query  string  false  "ID del usuario"
// @Param        fecha    query  string  false  "YYYY-MM-DD"
// @Param        page     query  int     false  "Página"
// @Success      200  {object}  dto.StatusLogPage
// @Router       /api/pedidos/registros [get]
func (h *ReportHandler) StatusLogs(c *fiber.Ctx) error {
	q := dto.StatusLogQuery{
		UserID:      c.Query("usuario"),
		Date:        c.Query("fecha"),
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1)},
	}
	out, err := h.uc.StatusLogs(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Calendar godoc
// @Summary      Entregas pendientes para el calendario
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CalendarEvent
// @Router       /api/entregas/calendario [get]
func (h *ReportHandler) Calendar(c *fiber.Ctx) error {
	out, err := h.uc.Calendar(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
