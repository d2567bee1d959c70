package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

type suppliersResult struct {
	list []*entity.Supplier
	err  error
}

// History pedidos cerrados (entregados, cancelados o devueltos) de un año, con
// el último registro de cierre de cada uno.
func (uc *ReportUseCase) History(ctx context.Context, actor access.Actor, q dto.HistoryQuery) (*dto.HistoryResponse, error) {
	years, err := uc.orderRepo.Years(ctx, ordering.HistoryStatuses)
	if err != nil {
		return nil, fmt.Errorf("historial: años: %w", err)
	}
	def := uc.now().Year()
	if len(years) > 0 {
		def = years[0]
	}
	year := parseYear(q.Year, def)
	years = withYear(years, year)

	filter, applied := orders.BuildFilter(q.OrderListQuery, ordering.HistoryStatuses)
	filter.Year = year
	applied["anio"] = strconv.Itoa(year)

	listCh := make(chan listResult, 1)
	totalsCh := make(chan totalsResult, 1)
	suppliersCh := make(chan suppliersResult, 1)
	go func() {
		list, err := uc.orderRepo.List(ctx, filter)
		listCh <- listResult{list, err}
	}()
	go func() {
		rows, err := uc.orderRepo.MonthlyTotals(ctx, filter)
		totalsCh <- totalsResult{rows, err}
	}()
	go func() {
		list, _, err := uc.supplierRepo.List(ctx, repository.SupplierFilter{ActiveOnly: true})
		suppliersCh <- suppliersResult{list, err}
	}()
	lr, tr, sr := <-listCh, <-totalsCh, <-suppliersCh
	if lr.err != nil {
		return nil, fmt.Errorf("historial: pedidos: %w", lr.err)
	}
	if tr.err != nil {
		return nil, fmt.Errorf("historial: totales: %w", tr.err)
	}
	if sr.err != nil {
		return nil, fmt.Errorf("historial: proveedores: %w", sr.err)
	}

	ids := make([]string, 0, len(lr.orders))
	for _, o := range lr.orders {
		ids = append(ids, o.ID)
	}
	latest := map[string]*entity.StatusLog{}
	if len(ids) > 0 {
		if latest, err = uc.logRepo.LatestByOrders(ctx, ids, ordering.HistoryStatuses); err != nil {
			return nil, fmt.Errorf("historial: registros: %w", err)
		}
	}

	out := &dto.HistoryResponse{
		Orders:      make([]dto.HistoryOrder, 0, len(lr.orders)),
		Suppliers:   dto.NewSupplierOptions(sr.list),
		Statuses:    ordering.StatusChoices(ordering.IsHistory),
		Years:       years,
		Year:        year,
		ChartLabels: dto.MonthLabels,
		CanEdit:     access.IsAdmin(actor),
		Filters:     applied,
	}
	for _, r := range tr.rows {
		if i := monthIndex(r.Month); i >= 0 {
			out.ChartData[i] += r.Kg.IntPart()
		}
	}
	for _, o := range lr.orders {
		h := dto.HistoryOrder{
			OrderResponse: dto.NewOrderResponse(o),
			HistoryStatus: ordering.StatusLabel(o.Status),
			HistoryUser:   "Sistema",
		}
		if l, ok := latest[o.ID]; ok {
			at := l.CreatedAt
			h.HistoryStatus = ordering.StatusLabel(l.ToStatus)
			h.HistoryDate = &at
			h.HistoryUser = orDefault(l.UserName, "Sistema")
			h.HistoryDetail = strings.TrimSpace(l.Description)
		}
		out.Orders = append(out.Orders, h)
	}
	return out, nil
}

// withYear añade y si falta y ordena descendente.
func withYear(years []int, y int) []int {
	out := append([]int(nil), years...)
	found := false
	for _, v := range out {
		if v == y {
			found = true
			break
		}
	}
	if !found {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
