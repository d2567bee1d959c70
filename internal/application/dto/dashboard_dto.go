package dto

import "github.com/shopspring/decimal"

// MonthLabels etiquetas de los meses en las gráficas.
var MonthLabels = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// CommercialTotal kg de un comercial en una ciudad.
type CommercialTotal struct {
	Commercial string          `json:"comercial"`
	TotalKg    int64           `json:"total_kg"`
	TotalTons  decimal.Decimal `json:"total_toneladas"`
}

// CityTable pedidos y totales por ciudad.
type CityTable struct {
	Code      string            `json:"codigo"`
	Name      string            `json:"nombre"`
	Orders    []OrderResponse   `json:"pedidos"`
	Totals    []CommercialTotal `json:"totales"`
	TotalTons decimal.Decimal   `json:"total_toneladas"`
}

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	LatestOrders    []OrderResponse   `json:"ultimos_pedidos"`
	Orders          []OrderResponse   `json:"pedidos"`
	CityTables      []CityTable       `json:"tablas_ciudades"`
	PendingCount    int               `json:"pedidos_pendientes"`
	ConfirmedCount  int               `json:"pedidos_confirmados"`
	ChartLabels     [12]string        `json:"chart_labels"`
	ChartPending    [12]int64         `json:"chart_pendientes_data"`
	ChartConfirmed  [12]int64         `json:"chart_confirmados_data"`
	ChartRaw        [12]int64         `json:"chart_materia_prima_data"`
	ChartCommercial [12]int64         `json:"chart_comerciales_data"`
	ChartBalance    [12]int64         `json:"chart_balance_data"`
	ChartYear       int               `json:"chart_year"`
	CityLabels      []string          `json:"city_labels"`
	CityData        []decimal.Decimal `json:"city_data"`
	TotalTons       decimal.Decimal   `json:"total_toneladas"`
	Filters         map[string]string `json:"filtros"`
}
