package dto

import (
	"time"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// WeeklySummaryQuery parámetros del resumen semanal.
type WeeklySummaryQuery struct {
	Week string `query:"semana"`
	Day  string `query:"dia"`
}

// ScheduleDay día programable de la semana.
type ScheduleDay struct {
	Key        int    `json:"key"`
	Label      string `json:"label"`
	ShortLabel string `json:"short_label"`
	Date       string `json:"fecha"`
}

// DayQuantities cantidades por tipo de huevo (en el orden de tipos_huevo) en un día.
type DayQuantities struct {
	ScheduleDay
	Quantities []int64 `json:"cantidades"`
	Total      int64   `json:"total"`
}

// PresentationRow fila del resumen por presentación.
type PresentationRow struct {
	Code            string          `json:"codigo"`
	Presentation    string          `json:"presentacion"`
	Forecast        []int64         `json:"forecast"`
	Days            []DayQuantities `json:"dias"`
	TotalForecast   int64           `json:"total_forecast"`
	TotalScheduled  int64           `json:"total_programado"`
	PendingSchedule int64           `json:"pendiente_programar"`
}

// EggTypeSummary totales por tipo de huevo.
type EggTypeSummary struct {
	Code            string `json:"codigo"`
	Label           string `json:"label"`
	Forecast        int64  `json:"forecast"`
	Scheduled       int64  `json:"programado"`
	PendingSchedule int64  `json:"pendiente_programar"`
}

// DayDetailRow detalle del día seleccionado.
type DayDetailRow struct {
	Supplier     string `json:"proveedor"`
	Presentation string `json:"presentacion"`
	EggType      string `json:"tipo_huevo"`
	Quantity     int64  `json:"cantidad"`
}

// DayCard tarjeta de día con su total.
type DayCard struct {
	Key      int    `json:"key"`
	Label    string `json:"label"`
	Date     string `json:"fecha"`
	Total    int64  `json:"total"`
	Selected bool   `json:"selected"`
}

// WeekOption semana disponible en el selector.
type WeekOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// WeeklySummaryResponse resumen de forecast semanal.
type WeeklySummaryResponse struct {
	EggTypes         []entity.Choice   `json:"tipos_huevo"`
	Days             []ScheduleDay     `json:"dias_programacion"`
	Rows             []PresentationRow `json:"filas_presentacion"`
	SelectedDay      ScheduleDay       `json:"dia_seleccionado"`
	SelectedDayKey   int               `json:"dia_seleccionado_key"`
	DayCards         []DayCard         `json:"tarjetas_dia"`
	DayDetail        []DayDetailRow    `json:"detalle_dia_filas"`
	SelectedDayTotal int64             `json:"total_dia_seleccionado"`
	CityTables       []CityTable       `json:"tablas_ciudades"`
	EggTypeTotals    []EggTypeSummary  `json:"resumen_tipos"`
	DayTotals        []DayQuantities   `json:"totales_dia"`
	TotalForecast    int64             `json:"total_forecast_semana"`
	TotalScheduled   int64             `json:"total_programado_semana"`
	TotalPending     int64             `json:"total_pendiente_semana"`
	Week             string            `json:"semana"`
	WeekLabel        string            `json:"semana_label"`
	Weeks            []WeekOption      `json:"semanas_disponibles"`
}

// HistoryQuery filtros del historial.
type HistoryQuery struct {
	OrderListQuery
	Year string `query:"anio"`
}

// HistoryOrder pedido del historial con su último registro de cierre.
type HistoryOrder struct {
	OrderResponse
	HistoryStatus string     `json:"estado_historial"`
	HistoryDate   *time.Time `json:"fecha_historial"`
	HistoryUser   string     `json:"usuario_historial"`
	HistoryDetail string     `json:"detalle_historial"`
}

// HistoryResponse historial anual de pedidos cerrados.
type HistoryResponse struct {
	Orders      []HistoryOrder    `json:"pedidos"`
	Suppliers   []SupplierOption  `json:"proveedores"`
	Statuses    []entity.Choice   `json:"estados"`
	Years       []int             `json:"anios_disponibles"`
	Year        int               `json:"anio"`
	ChartLabels [12]string        `json:"historial_chart_labels"`
	ChartData   [12]int64         `json:"historial_chart_data"`
	CanEdit     bool              `json:"puede_editar_historial"`
	Filters     map[string]string `json:"filtros"`
}

// StatusLogQuery filtros de registros de estado.
type StatusLogQuery struct {
	UserID string `query:"usuario"`
	Date   string `query:"fecha"`
	PageRequest
}

// StatusLogResponse registro de cambio de estado.
type StatusLogResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"pedido_id"`
	OrderNumber int64     `json:"pedido_numero"`
	User        string    `json:"usuario"`
	FromStatus  string    `json:"estado_anterior"`
	ToStatus    string    `json:"estado_nuevo"`
	FromLabel   string    `json:"estado_anterior_label"`
	ToLabel     string    `json:"estado_nuevo_label"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

// StatusLogPage página de registros y usuarios disponibles para filtrar.
type StatusLogPage struct {
	Items   []StatusLogResponse `json:"registros"`
	Users   []UserOption        `json:"usuarios"`
	Page    PageResponse        `json:"page"`
	Filters map[string]string   `json:"filtros"`
}

// CalendarEvent evento de calendario (FullCalendar).
type CalendarEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`
}
