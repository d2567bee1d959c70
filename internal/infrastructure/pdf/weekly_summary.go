// Package pdf exporta el resumen semanal de forecast a PDF.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: título + semana            │  totales de la semana  │
//	│  RESUMEN POR TIPO: Tipo | Forecast | Programado | Pendiente  │
//	│  PRESENTACIONES: Pres. | Forecast | Lun..Sab | Prog. | Pend. │
//	│  TOTALES POR DÍA                                             │
//	│  DETALLE DEL DÍA: Proveedor | Presentación | Tipo | Kg       │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
)

var _ ports.WeeklyReportRenderer = (*MarotoRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 230, Green: 236, Blue: 245}
)

// MarotoRenderer implementa ports.WeeklyReportRenderer usando Maroto v2.
type MarotoRenderer struct {
	company string
}

// NewMarotoRenderer construye el generador; company aparece como autor del documento.
func NewMarotoRenderer(company string) *MarotoRenderer {
	return &MarotoRenderer{company: company}
}

// RenderWeeklySummary genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) RenderWeeklySummary(s *dto.WeeklySummaryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen semanal de forecast", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("RESUMEN POR TIPO DE HUEVO"))
	m.AddRows(eggTypeHeaderRow())
	m.AddRows(eggTypeRows(s)...)

	m.AddRows(row.New(4))
	m.AddRows(sectionRow("FORECAST VS PROGRAMADO POR PRESENTACIÓN"))
	m.AddRows(presentationHeaderRow(s.Days))
	m.AddRows(presentationRows(s)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(dayTotalsRow(s))

	m.AddRows(row.New(4))
	m.AddRows(sectionRow(fmt.Sprintf("DETALLE DEL %s %s", s.SelectedDay.Label, s.SelectedDay.Date)))
	m.AddRows(detailHeaderRow())
	m.AddRows(detailRows(s)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *dto.WeeklySummaryResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Resumen semanal de forecast", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Semana del "+s.WeekLabel, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Forecast: "+formatKg(s.TotalForecast), props.Text{Size: 9, Align: align.Right, Top: 1}),
			text.New("Programado: "+formatKg(s.TotalScheduled), props.Text{Size: 9, Align: align.Right, Top: 6}),
			text.New("Pendiente: "+formatKg(s.TotalPending), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 11, Color: colorPrimary,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func eggTypeHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Tipo de huevo", 6, align.Left),
		headerCell("Forecast", 2, align.Right),
		headerCell("Programado", 2, align.Right),
		headerCell("Pendiente", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func eggTypeRows(s *dto.WeeklySummaryResponse) []core.Row {
	out := make([]core.Row, 0, len(s.EggTypeTotals))
	for _, t := range s.EggTypeTotals {
		out = append(out, row.New(5).Add(
			cell(t.Label, 6, align.Left),
			cell(formatKg(t.Forecast), 2, align.Right),
			cell(formatKg(t.Scheduled), 2, align.Right),
			cell(formatKg(t.PendingSchedule), 2, align.Right),
		))
	}
	return out
}

// La grilla usa 12 columnas: presentación (3), forecast (1), seis días (1 c/u),
// programado (1) y pendiente (1).
func presentationHeaderRow(days []dto.ScheduleDay) core.Row {
	cols := []core.Col{headerCell("Presentación", 3, align.Left), headerCell("Forecast", 1, align.Right)}
	for _, d := range days {
		cols = append(cols, headerCell(d.ShortLabel, 1, align.Right))
	}
	cols = append(cols, headerCell("Prog.", 1, align.Right), headerCell("Pend.", 1, align.Right))
	return row.New(6).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func presentationRows(s *dto.WeeklySummaryResponse) []core.Row {
	if len(s.Rows) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin pedidos para la semana.", props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
		))}
	}
	out := make([]core.Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		cols := []core.Col{cell(r.Presentation, 3, align.Left), cell(formatKg(r.TotalForecast), 1, align.Right)}
		for _, d := range r.Days {
			cols = append(cols, cell(formatKg(d.Total), 1, align.Right))
		}
		cols = append(cols, cell(formatKg(r.TotalScheduled), 1, align.Right), cell(formatKg(r.PendingSchedule), 1, align.Right))
		out = append(out, row.New(5).Add(cols...))
	}
	return out
}

func dayTotalsRow(s *dto.WeeklySummaryResponse) core.Row {
	bold := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	cols := []core.Col{bold("Total", 3, align.Left), bold(formatKg(s.TotalForecast), 1, align.Right)}
	for _, d := range s.DayTotals {
		cols = append(cols, bold(formatKg(d.Total), 1, align.Right))
	}
	cols = append(cols, bold(formatKg(s.TotalScheduled), 1, align.Right), bold(formatKg(s.TotalPending), 1, align.Right))
	return row.New(6).Add(cols...)
}

func detailHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Proveedor", 5, align.Left),
		headerCell("Presentación", 3, align.Left),
		headerCell("Tipo de huevo", 2, align.Left),
		headerCell("Kg", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func detailRows(s *dto.WeeklySummaryResponse) []core.Row {
	if len(s.DayDetail) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin entregas programadas para el día.", props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
		))}
	}
	out := make([]core.Row, 0, len(s.DayDetail)+1)
	for _, d := range s.DayDetail {
		out = append(out, row.New(5).Add(
			cell(d.Supplier, 5, align.Left),
			cell(d.Presentation, 3, align.Left),
			cell(d.EggType, 2, align.Left),
			cell(formatKg(d.Quantity), 2, align.Right),
		))
	}
	out = append(out, row.New(6).Add(
		col.New(10).Add(text.New("Total del día", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(formatKg(s.SelectedDayTotal), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	))
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatKg entero con puntos de miles. Ej: 25000 → "25.000", -1500 → "-1.500".
func formatKg(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
