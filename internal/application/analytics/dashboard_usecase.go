package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// LatestOrders pedidos pendientes más recientes que muestra el tablero.
const LatestOrders = 3

type listResult struct {
	orders []*entity.Order
	err    error
}

type totalsResult struct {
	rows []repository.MonthlyTotal
	err  error
}

// Dashboard tablero de inicio: pedidos activos filtrados, tablas por ciudad y
// gráficas mensuales del año en curso. Las consultas corren en paralelo.
func (uc *ReportUseCase) Dashboard(ctx context.Context, q dto.OrderListQuery) (*dto.DashboardResponse, error) {
	year := uc.now().Year()
	base, applied := orders.BuildFilter(q, nil)

	active := base
	active.Statuses = ordering.DashboardStatuses
	charted := active
	charted.Year = year
	commercial := base
	commercial.Year = year
	commercial.CommercialRole = entity.RoleComercial

	listCh := make(chan listResult, 1)
	statusCh := make(chan totalsResult, 1)
	rawCh := make(chan totalsResult, 1)
	commercialCh := make(chan totalsResult, 1)

	go func() {
		list, err := uc.orderRepo.List(ctx, active)
		listCh <- listResult{list, err}
	}()
	go func() {
		rows, err := uc.orderRepo.MonthlyTotals(ctx, charted)
		statusCh <- totalsResult{rows, err}
	}()
	go func() {
		rows, err := uc.rawRepo.MonthlyTotals(ctx, year)
		rawCh <- totalsResult{rows, err}
	}()
	go func() {
		rows, err := uc.orderRepo.MonthlyTotals(ctx, commercial)
		commercialCh <- totalsResult{rows, err}
	}()

	lr := <-listCh
	sr := <-statusCh
	rr := <-rawCh
	cr := <-commercialCh

	if lr.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", lr.err)
	}
	if sr.err != nil {
		return nil, fmt.Errorf("dashboard: totales por estado: %w", sr.err)
	}
	if rr.err != nil {
		return nil, fmt.Errorf("dashboard: materia prima: %w", rr.err)
	}
	if cr.err != nil {
		return nil, fmt.Errorf("dashboard: comerciales: %w", cr.err)
	}

	out := &dto.DashboardResponse{
		ChartLabels: dto.MonthLabels,
		ChartYear:   year,
		Orders:      dto.NewOrderResponses(lr.orders),
		Filters:     applied,
	}

	for _, r := range sr.rows {
		i := monthIndex(r.Month)
		if i < 0 {
			continue
		}
		switch {
		case r.Status == entity.StatusPending:
			out.ChartPending[i] += r.Kg.IntPart()
		case ordering.Contains(ordering.DashboardConfirmedStatuses, r.Status):
			out.ChartConfirmed[i] += r.Kg.IntPart()
		}
	}
	for _, r := range rr.rows {
		if i := monthIndex(r.Month); i >= 0 {
			out.ChartRaw[i] += r.Kg.IntPart()
		}
	}
	for _, r := range cr.rows {
		if i := monthIndex(r.Month); i >= 0 {
			out.ChartCommercial[i] += r.Kg.IntPart()
		}
	}
	for i := range out.ChartBalance {
		out.ChartBalance[i] = out.ChartRaw[i] - out.ChartCommercial[i]
	}

	var pending []*entity.Order
	for _, o := range lr.orders {
		switch {
		case o.Status == entity.StatusPending:
			out.PendingCount++
			pending = append(pending, o)
		case ordering.Contains(ordering.DashboardConfirmedStatuses, o.Status):
			out.ConfirmedCount++
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].CreatedAt.After(pending[j].CreatedAt) })
	if len(pending) > LatestOrders {
		pending = pending[:LatestOrders]
	}
	out.LatestOrders = dto.NewOrderResponses(pending)

	tables, kgs := cityTables(lr.orders)
	out.CityTables = tables
	var total int64
	for i, t := range tables {
		out.CityLabels = append(out.CityLabels, t.Name)
		out.CityData = append(out.CityData, t.TotalTons)
		total += kgs[i]
	}
	out.TotalTons = tons(total)
	return out, nil
}
