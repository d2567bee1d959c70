package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/application/analytics"
	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

type fixture struct {
	store    *testutil.Store
	uc       *analytics.ReportUseCase
	admin    *entity.User
	carlos   *entity.User
	angela   *entity.User
	beto     *entity.User
	sur      *entity.Supplier
	valle    *entity.Supplier
	adminAct access.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	store.SetNow(func() time.Time { return fixedNow })
	f := &fixture{store: store}
	f.admin = store.AddUser(entity.User{Username: "admin", Role: entity.RoleAdmin, City: entity.CityBogota, Active: true})
	f.carlos = store.AddUser(entity.User{Username: "carlos", FirstName: "carlos", Role: entity.RoleComercial, City: entity.CityBogota, Active: true})
	f.angela = store.AddUser(entity.User{Username: "angela", FirstName: "Ángela", Role: entity.RoleComercial, City: entity.CityBogota, Active: true})
	f.beto = store.AddUser(entity.User{Username: "beto", FirstName: "Beto", Role: entity.RoleComercial, City: entity.CityCali, Active: true})
	f.sur = store.AddSupplier(entity.Supplier{Name: "Avícola Sur", Active: true, City: entity.CityBogota, Presentation: "SAC_20"})
	f.valle = store.AddSupplier(entity.Supplier{Name: "Granja Valle", Active: true, City: entity.CityCali, Presentation: "OV15_200"})
	f.adminAct = access.FromUser(f.admin)
	f.uc = analytics.NewReportUseCase(store.Orders(), store.Suppliers(), store.RawMaterials(), store.StatusLogs()).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func (f *fixture) order(o entity.Order) *entity.Order {
	if o.SupplierID == "" {
		o.SupplierID = f.sur.ID
	}
	if o.EggType == "" {
		o.EggType = entity.EggWholeLiquid
	}
	if o.City == "" {
		o.City = entity.CityBogota
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = day(2025, 3, 1)
	}
	o.Quantity = o.TotalQuantity
	return f.store.AddOrder(o)
}

func tonsEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

// ── Tablero ───────────────────────────────────────────────────────────────────

func TestDashboard_GraficasYConteos(t *testing.T) {
	f := newFixture(t)
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 300, Status: entity.StatusPending})
	f.order(entity.Order{CommercialID: f.beto.ID, City: entity.CityCali, SupplierID: f.valle.ID, TotalQuantity: 200, Status: entity.StatusConfirmed})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 100, Status: entity.StatusDelivered})
	f.order(entity.Order{CommercialID: f.admin.ID, TotalQuantity: 50, Status: entity.StatusInProduction})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 70, Status: entity.StatusPending, CreatedAt: day(2024, 3, 1)})
	require.NoError(t, f.store.RawMaterials().Create(context.Background(), &entity.RawMaterial{
		Date: day(2025, 3, 5), EggType: entity.EggWholeLiquid, QuantityKg: 1000, CreatedBy: f.admin.ID,
	}))

	out, err := f.uc.Dashboard(context.Background(), dto.OrderListQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2025, out.ChartYear)
	assert.Equal(t, 2, out.PendingCount, "incluye el pendiente de 2024")
	assert.Equal(t, 2, out.ConfirmedCount, "confirmado y en producción")
	assert.Len(t, out.Orders, 4, "entregados fuera del tablero")

	assert.Equal(t, int64(300), out.ChartPending[2])
	assert.Equal(t, int64(250), out.ChartConfirmed[2])
	assert.Equal(t, int64(1000), out.ChartRaw[2])
	assert.Equal(t, int64(600), out.ChartCommercial[2], "solo pedidos de comerciales del año, en cualquier estado")
	assert.Equal(t, int64(400), out.ChartBalance[2])
	assert.Equal(t, int64(0), out.ChartPending[0])

	require.Len(t, out.CityLabels, len(entity.Cities))
	assert.Equal(t, "Bogotá", out.CityLabels[0])
	tonsEqual(t, "0.42", out.CityData[0])
	tonsEqual(t, "0.2", out.CityData[1])
	tonsEqual(t, "0.62", out.TotalTons)
}

func TestDashboard_UltimosPendientesMasRecientes(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 5; i++ {
		f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: int64(i * 10), Status: entity.StatusPending, CreatedAt: day(2025, 3, i)})
	}
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 99, Status: entity.StatusConfirmed, CreatedAt: day(2025, 3, 9)})

	out, err := f.uc.Dashboard(context.Background(), dto.OrderListQuery{})
	require.NoError(t, err)

	require.Len(t, out.LatestOrders, analytics.LatestOrders)
	assert.Equal(t, int64(50), out.LatestOrders[0].TotalQuantity)
	assert.Equal(t, int64(40), out.LatestOrders[1].TotalQuantity)
	assert.Equal(t, int64(30), out.LatestOrders[2].TotalQuantity)
}

func TestDashboard_FiltroCiudad(t *testing.T) {
	f := newFixture(t)
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 300, Status: entity.StatusPending})
	f.order(entity.Order{CommercialID: f.beto.ID, City: entity.CityCali, TotalQuantity: 200, Status: entity.StatusPending})

	out, err := f.uc.Dashboard(context.Background(), dto.OrderListQuery{City: entity.CityCali, CreatedOn: "no-es-fecha"})
	require.NoError(t, err)

	require.Len(t, out.Orders, 1)
	assert.Equal(t, entity.CityCali, out.Orders[0].City)
	assert.Equal(t, map[string]string{"ciudad": entity.CityCali}, out.Filters, "fechas inválidas se ignoran")
	assert.Equal(t, int64(200), out.ChartPending[2])
}

func TestDashboard_TotalesPorComercialOrdenAlfabetico(t *testing.T) {
	f := newFixture(t)
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 100, Status: entity.StatusPending})
	f.order(entity.Order{CommercialID: f.angela.ID, TotalQuantity: 200, Status: entity.StatusPending})
	f.order(entity.Order{CommercialID: f.beto.ID, TotalQuantity: 300, Status: entity.StatusPending})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 50, Status: entity.StatusConfirmed})

	out, err := f.uc.Dashboard(context.Background(), dto.OrderListQuery{})
	require.NoError(t, err)

	bogota := out.CityTables[0]
	assert.Equal(t, entity.CityBogota, bogota.Code)
	require.Len(t, bogota.Totals, 3)
	assert.Equal(t, "Ángela", bogota.Totals[0].Commercial)
	assert.Equal(t, "Beto", bogota.Totals[1].Commercial)
	assert.Equal(t, "carlos", bogota.Totals[2].Commercial)
	assert.Equal(t, int64(150), bogota.Totals[2].TotalKg)
	tonsEqual(t, "0.65", bogota.TotalTons)
	assert.Empty(t, out.CityTables[1].Orders)
}

// ── Resumen semanal ───────────────────────────────────────────────────────────

func (f *fixture) seedWeek() {
	week := day(2025, 3, 10)
	f.order(entity.Order{
		CommercialID: f.carlos.ID, Presentation: "SAC_20", TotalQuantity: 300, Week: ptr(week),
		DeliveryDate: ptr(day(2025, 3, 13)), Status: entity.StatusPending,
		Deliveries: []entity.Delivery{
			{Date: day(2025, 3, 11), Quantity: 100},
			{Date: day(2025, 3, 13), Quantity: 200},
		},
	})
	f.order(entity.Order{
		CommercialID: f.beto.ID, SupplierID: f.valle.ID, City: entity.CityCali, EggType: entity.EggYolkLiquid,
		Presentation: "OV15_200", TotalQuantity: 150, Week: ptr(week), DeliveryDate: ptr(day(2025, 3, 11)),
		Status: entity.StatusConfirmed,
	})
	f.order(entity.Order{
		CommercialID: f.carlos.ID, Presentation: "SAC_20", TotalQuantity: 80, Week: ptr(week),
		Status: entity.StatusPending,
	})
	f.order(entity.Order{
		CommercialID: f.carlos.ID, Presentation: "SAC_20", TotalQuantity: 999, Week: ptr(week),
		DeliveryDate: ptr(day(2025, 3, 11)), Status: entity.StatusCancelled,
	})
	f.order(entity.Order{
		CommercialID: f.carlos.ID, Presentation: "SAC_20", TotalQuantity: 40, Week: ptr(day(2025, 3, 3)),
		Status: entity.StatusDelivered,
	})
}

func TestWeeklySummary_ForecastVsProgramado(t *testing.T) {
	f := newFixture(t)
	f.seedWeek()

	out, err := f.uc.WeeklySummary(context.Background(), dto.WeeklySummaryQuery{Week: "2025-03-10", Day: "2"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", out.Week)
	assert.Equal(t, "10/03/2025", out.WeekLabel)
	require.Len(t, out.Days, 6)
	assert.Equal(t, "2025-03-15", out.Days[5].Date)

	require.Len(t, out.Rows, 2, "solo presentaciones con movimiento, en orden de catálogo")
	assert.Equal(t, "OV15_200", out.Rows[0].Code)
	assert.Equal(t, int64(150), out.Rows[0].TotalForecast)
	assert.Equal(t, int64(150), out.Rows[0].TotalScheduled)
	assert.Equal(t, "SAC_20", out.Rows[1].Code)
	assert.Equal(t, int64(380), out.Rows[1].TotalForecast)
	assert.Equal(t, int64(300), out.Rows[1].TotalScheduled)
	assert.Equal(t, int64(80), out.Rows[1].PendingSchedule)
	assert.Equal(t, int64(100), out.Rows[1].Days[1].Quantities[0])
	assert.Equal(t, int64(200), out.Rows[1].Days[3].Quantities[0])

	assert.Equal(t, int64(530), out.TotalForecast)
	assert.Equal(t, int64(450), out.TotalScheduled)
	assert.Equal(t, int64(80), out.TotalPending)
	assert.Equal(t, int64(380), out.EggTypeTotals[0].Forecast)
	assert.Equal(t, int64(150), out.EggTypeTotals[1].Scheduled)
	assert.Equal(t, int64(250), out.DayTotals[1].Total)

	assert.Equal(t, 2, out.SelectedDayKey)
	assert.Equal(t, "2025-03-11", out.SelectedDay.Date)
	require.Len(t, out.DayDetail, 2)
	assert.Equal(t, dto.DayDetailRow{Supplier: "Avícola Sur", Presentation: "Saco 20kg", EggType: "Huevo Líquido Entero", Quantity: 100}, out.DayDetail[0])
	assert.Equal(t, "Granja Valle", out.DayDetail[1].Supplier)
	assert.Equal(t, int64(150), out.DayDetail[1].Quantity)
	assert.Equal(t, int64(250), out.SelectedDayTotal)
	assert.True(t, out.DayCards[1].Selected)
	assert.Equal(t, int64(200), out.DayCards[3].Total)

	require.Len(t, out.Weeks, 2)
	assert.Equal(t, dto.WeekOption{Value: "2025-03-10", Label: "Semana del 10/03/2025", Selected: true}, out.Weeks[0])
	assert.Equal(t, "2025-03-03", out.Weeks[1].Value)
}

func TestWeeklySummary_SemanaPorDefectoYDiaInvalido(t *testing.T) {
	f := newFixture(t)
	f.seedWeek()

	out, err := f.uc.WeeklySummary(context.Background(), dto.WeeklySummaryQuery{Day: "9"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", out.Week, "la semana más reciente con pedidos")
	assert.Equal(t, 1, out.SelectedDayKey)
	assert.Empty(t, out.DayDetail)
}

func TestWeeklySummary_SemanaAjustadaYAgregadaAlSelector(t *testing.T) {
	f := newFixture(t)
	f.seedWeek()

	out, err := f.uc.WeeklySummary(context.Background(), dto.WeeklySummaryQuery{Week: "2025-03-22", Day: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-24", out.Week, "sábado avanza al lunes siguiente")
	assert.Empty(t, out.Rows)
	require.Len(t, out.Weeks, 3)
	assert.Equal(t, "2025-03-24", out.Weeks[0].Value)
	assert.True(t, out.Weeks[0].Selected)
	assert.Equal(t, 1, out.SelectedDayKey)
}

func TestWeeklySummary_SinPedidosUsaSemanaActual(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.WeeklySummary(context.Background(), dto.WeeklySummaryQuery{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", out.Week)
	require.Len(t, out.Weeks, 1)
	assert.Equal(t, int64(0), out.TotalForecast)
	assert.Len(t, out.DayCards, 6)
}

// ── Historial ─────────────────────────────────────────────────────────────────

func TestHistory_AnioPorDefectoYUltimoRegistro(t *testing.T) {
	f := newFixture(t)
	delivered := f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 300, Status: entity.StatusDelivered, CreatedAt: day(2025, 2, 3)})
	cancelled := f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 120, Status: entity.StatusCancelled, CreatedAt: day(2025, 1, 20)})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 70, Status: entity.StatusReturned, CreatedAt: day(2024, 6, 1)})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 10, Status: entity.StatusPending, CreatedAt: day(2025, 2, 1)})

	logs := f.store.StatusLogs()
	ctx := context.Background()
	require.NoError(t, logs.Create(ctx, &entity.StatusLog{OrderID: delivered.ID, UserID: f.carlos.ID, FromStatus: entity.StatusPending, ToStatus: entity.StatusConfirmed}))
	require.NoError(t, logs.Create(ctx, &entity.StatusLog{OrderID: delivered.ID, UserID: f.admin.ID, FromStatus: entity.StatusConfirmed, ToStatus: entity.StatusDelivered, Description: "  Entregado completo  "}))

	out, err := f.uc.History(ctx, f.adminAct, dto.HistoryQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2025, out.Year)
	assert.Equal(t, []int{2025, 2024}, out.Years)
	assert.True(t, out.CanEdit)
	assert.Equal(t, "2025", out.Filters["anio"])
	require.Len(t, out.Orders, 2)

	byID := map[string]dto.HistoryOrder{}
	for _, o := range out.Orders {
		byID[o.ID] = o
	}
	d := byID[delivered.ID]
	assert.Equal(t, "Entregado", d.HistoryStatus)
	assert.Equal(t, "admin", d.HistoryUser)
	assert.Equal(t, "Entregado completo", d.HistoryDetail)
	require.NotNil(t, d.HistoryDate)

	c := byID[cancelled.ID]
	assert.Equal(t, "Sistema", c.HistoryUser)
	assert.Nil(t, c.HistoryDate)
	assert.Equal(t, "Cancelado", c.HistoryStatus)

	assert.Equal(t, int64(120), out.ChartData[0])
	assert.Equal(t, int64(300), out.ChartData[1])
	require.Len(t, out.Statuses, 3)
}

func TestHistory_ParametroAnio(t *testing.T) {
	f := newFixture(t)
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 300, Status: entity.StatusDelivered, CreatedAt: day(2025, 2, 3)})
	f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 70, Status: entity.StatusReturned, CreatedAt: day(2024, 6, 1)})

	ctx := context.Background()
	comercial := access.FromUser(f.carlos)

	out, err := f.uc.History(ctx, comercial, dto.HistoryQuery{Year: "2024"})
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, int64(70), out.Orders[0].TotalQuantity)
	assert.False(t, out.CanEdit)

	out, err = f.uc.History(ctx, comercial, dto.HistoryQuery{Year: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 2025, out.Year)

	out, err = f.uc.History(ctx, comercial, dto.HistoryQuery{Year: "2019"})
	require.NoError(t, err)
	assert.Empty(t, out.Orders)
	assert.Equal(t, []int{2025, 2024, 2019}, out.Years)
}

// ── Registros y calendario ────────────────────────────────────────────────────

func TestStatusLogs_PaginacionYFiltroUsuario(t *testing.T) {
	f := newFixture(t)
	o := f.order(entity.Order{CommercialID: f.carlos.ID, TotalQuantity: 10, Status: entity.StatusPending})
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		user := f.admin.ID
		if i%4 == 0 {
			user = f.carlos.ID
		}
		require.NoError(t, f.store.StatusLogs().Create(ctx, &entity.StatusLog{
			OrderID: o.ID, UserID: user, FromStatus: entity.StatusPending, ToStatus: entity.StatusConfirmed,
		}))
	}

	out, err := f.uc.StatusLogs(ctx, dto.StatusLogQuery{PageRequest: dto.PageRequest{Page: 2}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 12, out.Page.Total)
	assert.Equal(t, 2, out.Page.TotalPages)
	assert.Equal(t, "Pendiente", out.Items[0].FromLabel)
	assert.Equal(t, o.Number, out.Items[0].OrderNumber)
	require.Len(t, out.Users, 2)
	assert.Equal(t, "admin", out.Users[0].Name)

	out, err = f.uc.StatusLogs(ctx, dto.StatusLogQuery{PageRequest: dto.PageRequest{Page: 9}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Page, "página fuera de rango sirve la última")
	assert.Len(t, out.Items, 2)

	out, err = f.uc.StatusLogs(ctx, dto.StatusLogQuery{UserID: f.carlos.ID, Date: "2025-03-12"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
	assert.Equal(t, "carlos", out.Items[0].User)
	assert.Equal(t, "2025-03-12", out.Filters["fecha"])
}

func TestCalendar_EntregasPendientes(t *testing.T) {
	f := newFixture(t)
	f.seedWeek()

	events, err := f.uc.Calendar(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, dto.CalendarEvent{Title: "Avícola Sur - 100kg", Start: "2025-03-11"}, events[0])
	assert.Equal(t, dto.CalendarEvent{Title: "Avícola Sur - 200kg", Start: "2025-03-13"}, events[1])
}
