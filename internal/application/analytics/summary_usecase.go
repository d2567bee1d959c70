package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// SummaryWeeks semanas que ofrece el selector del resumen.
const SummaryWeeks = 52

type presentationAcc struct {
	code     string
	label    string
	forecast []int64
	days     [][]int64
}

type detailKey struct {
	supplier     string
	presentation string
	eggType      string
}

// WeeklySummary forecast de la semana por presentación y tipo de huevo frente a
// lo programado día a día, con el detalle del día seleccionado.
func (uc *ReportUseCase) WeeklySummary(ctx context.Context, q dto.WeeklySummaryQuery) (*dto.WeeklySummaryResponse, error) {
	weeks, err := uc.orderRepo.Weeks(ctx, ordering.SummaryStatuses, SummaryWeeks)
	if err != nil {
		return nil, fmt.Errorf("resumen: semanas: %w", err)
	}
	selected, ok := ordering.AdjustWeekParam(q.Week)
	if !ok {
		if len(weeks) > 0 {
			selected = ordering.Truncate(weeks[0])
		} else {
			selected = ordering.StartOfWeek(uc.now())
		}
	}
	weeks = withWeek(weeks, selected)

	list, err := uc.orderRepo.List(ctx, repository.OrderFilter{Week: &selected, Statuses: ordering.SummaryStatuses})
	if err != nil {
		return nil, fmt.Errorf("resumen: pedidos: %w", err)
	}

	days := make([]dto.ScheduleDay, ordering.WorkingDays)
	dayIndex := map[string]int{}
	for i := range days {
		d := selected.AddDate(0, 0, i)
		days[i] = dto.ScheduleDay{
			Key:        i + 1,
			Label:      ordering.DayNames[i].Label,
			ShortLabel: ordering.DayNames[i].Short,
			Date:       d.Format(ordering.DateLayout),
		}
		dayIndex[days[i].Date] = i
	}

	eggIndex := map[string]int{}
	for i, c := range entity.EggTypes {
		eggIndex[c.Code] = i
	}
	nEgg := len(entity.EggTypes)

	var rows []*presentationAcc
	byPresentation := map[string]*presentationAcc{}
	newRow := func(code, label string) *presentationAcc {
		acc := &presentationAcc{code: code, label: label, forecast: make([]int64, nEgg), days: make([][]int64, len(days))}
		for i := range acc.days {
			acc.days[i] = make([]int64, nEgg)
		}
		byPresentation[code] = acc
		rows = append(rows, acc)
		return acc
	}
	for _, p := range entity.Presentations {
		newRow(p.Code, p.Label)
	}
	rowFor := func(code string) *presentationAcc {
		if acc, ok := byPresentation[code]; ok {
			return acc
		}
		return newRow(code, code)
	}

	for _, o := range list {
		ei, ok := eggIndex[o.EggType]
		if o.Presentation == "" || !ok {
			continue
		}
		rowFor(o.Presentation).forecast[ei] += o.EffectiveQuantity()
	}
	for _, o := range list {
		ei, ok := eggIndex[o.EggType]
		if o.Presentation == "" || !ok {
			continue
		}
		if len(o.Deliveries) > 0 {
			for _, d := range o.Deliveries {
				di, ok := dayIndex[d.Date.Format(ordering.DateLayout)]
				if !ok {
					continue
				}
				rowFor(o.Presentation).days[di][ei] += d.Quantity
			}
			continue
		}
		if o.DeliveryDate == nil {
			continue
		}
		if di, ok := dayIndex[o.DeliveryDate.Format(ordering.DateLayout)]; ok {
			rowFor(o.Presentation).days[di][ei] += o.EffectiveQuantity()
		}
	}

	out := &dto.WeeklySummaryResponse{
		EggTypes:  entity.EggTypes,
		Days:      days,
		Week:      selected.Format(ordering.DateLayout),
		WeekLabel: selected.Format(ordering.DisplayLayout),
	}

	typeForecast := make([]int64, nEgg)
	typeScheduled := make([]int64, nEgg)
	dayTotals := make([][]int64, len(days))
	for i := range dayTotals {
		dayTotals[i] = make([]int64, nEgg)
	}
	for _, acc := range rows {
		var forecast, scheduled int64
		for _, v := range acc.forecast {
			forecast += v
		}
		for _, day := range acc.days {
			for _, v := range day {
				scheduled += v
			}
		}
		if forecast == 0 && scheduled == 0 {
			continue
		}
		row := dto.PresentationRow{
			Code:            acc.code,
			Presentation:    acc.label,
			Forecast:        acc.forecast,
			TotalForecast:   forecast,
			TotalScheduled:  scheduled,
			PendingSchedule: forecast - scheduled,
		}
		for ei := range acc.forecast {
			typeForecast[ei] += acc.forecast[ei]
		}
		for di, day := range acc.days {
			row.Days = append(row.Days, dayQuantities(days[di], day))
			for ei, v := range day {
				typeScheduled[ei] += v
				dayTotals[di][ei] += v
			}
		}
		out.Rows = append(out.Rows, row)
	}

	for ei, c := range entity.EggTypes {
		out.EggTypeTotals = append(out.EggTypeTotals, dto.EggTypeSummary{
			Code:            c.Code,
			Label:           c.Label,
			Forecast:        typeForecast[ei],
			Scheduled:       typeScheduled[ei],
			PendingSchedule: typeForecast[ei] - typeScheduled[ei],
		})
		out.TotalForecast += typeForecast[ei]
		out.TotalScheduled += typeScheduled[ei]
	}
	out.TotalPending = out.TotalForecast - out.TotalScheduled
	for di := range days {
		out.DayTotals = append(out.DayTotals, dayQuantities(days[di], dayTotals[di]))
	}

	key := selectedDay(q.Day)
	out.SelectedDayKey = key
	out.SelectedDay = days[key-1]
	out.DayDetail = dayDetail(list, out.SelectedDay.Date)
	for _, r := range out.DayDetail {
		out.SelectedDayTotal += r.Quantity
	}
	for di, d := range days {
		out.DayCards = append(out.DayCards, dto.DayCard{
			Key:      d.Key,
			Label:    d.Label,
			Date:     d.Date,
			Total:    out.DayTotals[di].Total,
			Selected: d.Key == key,
		})
	}

	out.CityTables, _ = cityTables(list)

	value := out.Week
	for _, w := range weeks {
		v := w.Format(ordering.DateLayout)
		out.Weeks = append(out.Weeks, dto.WeekOption{
			Value:    v,
			Label:    "Semana del " + w.Format(ordering.DisplayLayout),
			Selected: v == value,
		})
	}
	return out, nil
}

func dayQuantities(day dto.ScheduleDay, qty []int64) dto.DayQuantities {
	out := dto.DayQuantities{ScheduleDay: day, Quantities: append([]int64(nil), qty...)}
	for _, v := range qty {
		out.Total += v
	}
	return out
}

// selectedDay clave 1..6 del parámetro dia; 1 si falta o es inválido.
func selectedDay(s string) int {
	k, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || k < 1 || k > ordering.WorkingDays {
		return 1
	}
	return k
}

// withWeek normaliza las semanas, añade sel si falta y ordena descendente.
func withWeek(weeks []time.Time, sel time.Time) []time.Time {
	out := make([]time.Time, 0, len(weeks)+1)
	found := false
	for _, w := range weeks {
		w = ordering.Truncate(w)
		if w.Equal(sel) {
			found = true
		}
		out = append(out, w)
	}
	if !found {
		out = append(out, sel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// dayDetail kg del día agrupados por proveedor, presentación y tipo de huevo.
func dayDetail(list []*entity.Order, date string) []dto.DayDetailRow {
	sums := map[detailKey]int64{}
	var keys []detailKey
	add := func(o *entity.Order, qty int64) {
		k := detailKey{
			supplier:     orDefault(o.SupplierName, "Sin compania"),
			presentation: orDefault(entity.Label(entity.Presentations, o.Presentation), "-"),
			eggType:      orDefault(entity.Label(entity.EggTypes, o.EggType), "-"),
		}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += qty
	}
	for _, o := range list {
		if len(o.Deliveries) > 0 {
			for _, d := range o.Deliveries {
				if d.Date.Format(ordering.DateLayout) == date {
					add(o, d.Quantity)
				}
			}
			continue
		}
		if o.DeliveryDate != nil && o.DeliveryDate.Format(ordering.DateLayout) == date {
			add(o, o.EffectiveQuantity())
		}
	}

	col := newCollator()
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if c := col.CompareString(a.supplier, b.supplier); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.presentation, b.presentation); c != 0 {
			return c < 0
		}
		return col.CompareString(a.eggType, b.eggType) < 0
	})
	out := make([]dto.DayDetailRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.DayDetailRow{
			Supplier:     k.supplier,
			Presentation: k.presentation,
			EggType:      k.eggType,
			Quantity:     sums[k],
		})
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
