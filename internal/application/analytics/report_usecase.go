// Package analytics contiene los casos de uso de reportes: tablero de inicio,
// resumen semanal de forecast, historial, registros de estado y calendario.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// ReportUseCase reportes de solo lectura sobre pedidos y materia prima.
type ReportUseCase struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	rawRepo      repository.RawMaterialRepository
	logRepo      repository.StatusLogRepository
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	rawRepo repository.RawMaterialRepository,
	logRepo repository.StatusLogRepository,
) *ReportUseCase {
	return &ReportUseCase{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		rawRepo:      rawRepo,
		logRepo:      logRepo,
		now:          time.Now,
	}
}

// WithClock fija el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

var thousand = decimal.NewFromInt(1000)

// tons kg a toneladas redondeadas a 2 decimales.
func tons(kg int64) decimal.Decimal {
	return decimal.NewFromInt(kg).Div(thousand).Round(2)
}

func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase)
}

// monthIndex índice 0..11 o -1 si el mes no es válido.
func monthIndex(m int) int {
	if m < 1 || m > 12 {
		return -1
	}
	return m - 1
}

type commercialAcc struct {
	name string
	kg   int64
}

// cityTables agrupa los pedidos por ciudad en el orden del catálogo, con totales
// por comercial. Devuelve también los kg de cada ciudad.
func cityTables(list []*entity.Order) ([]dto.CityTable, []int64) {
	col := newCollator()
	tables := make([]dto.CityTable, 0, len(entity.Cities))
	kgs := make([]int64, 0, len(entity.Cities))
	for _, city := range entity.Cities {
		var kg int64
		orders := []dto.OrderResponse{}
		byCommercial := map[string]*commercialAcc{}
		var accs []*commercialAcc
		for _, o := range list {
			if o.City != city.Code {
				continue
			}
			orders = append(orders, dto.NewOrderResponse(o))
			q := o.EffectiveQuantity()
			kg += q
			acc, ok := byCommercial[o.CommercialID]
			if !ok {
				name := strings.TrimSpace(o.CommercialName)
				if name == "" {
					name = "Sin comercial"
				}
				acc = &commercialAcc{name: name}
				byCommercial[o.CommercialID] = acc
				accs = append(accs, acc)
			}
			acc.kg += q
		}
		sortByName(col, accs)
		totals := make([]dto.CommercialTotal, 0, len(accs))
		for _, a := range accs {
			totals = append(totals, dto.CommercialTotal{Commercial: a.name, TotalKg: a.kg, TotalTons: tons(a.kg)})
		}
		tables = append(tables, dto.CityTable{
			Code:      city.Code,
			Name:      city.Label,
			Orders:    orders,
			Totals:    totals,
			TotalTons: tons(kg),
		})
		kgs = append(kgs, kg)
	}
	return tables, kgs
}

func sortByName(col *collate.Collator, accs []*commercialAcc) {
	sort.SliceStable(accs, func(i, j int) bool {
		return col.CompareString(accs[i].name, accs[j].name) < 0
	})
}

// Calendar entregas pendientes en formato de calendario.
func (uc *ReportUseCase) Calendar(ctx context.Context) ([]dto.CalendarEvent, error) {
	rows, err := uc.orderRepo.PendingDeliveries(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CalendarEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CalendarEvent{
			Title: fmt.Sprintf("%s - %dkg", r.SupplierName, r.Quantity),
			Start: r.Date.Format(ordering.DateLayout),
		})
	}
	return out, nil
}

// StatusLogs registros de cambio de estado paginados.
func (uc *ReportUseCase) StatusLogs(ctx context.Context, q dto.StatusLogQuery) (*dto.StatusLogPage, error) {
	q.Normalize()
	f := repository.StatusLogFilter{Limit: dto.DefaultPageSize, Offset: q.Offset(dto.DefaultPageSize)}
	applied := map[string]string{}
	if v := strings.TrimSpace(q.UserID); v != "" {
		f.UserID = v
		applied["usuario"] = v
	}
	if d, ok := ordering.ParseDate(q.Date); ok {
		f.Date = &d
		applied["fecha"] = d.Format(ordering.DateLayout)
	}
	list, total, err := uc.logRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := dto.NewPageResponse(q.Page, dto.DefaultPageSize, total)
	if page.Page != q.Page {
		f.Offset = (page.Page - 1) * dto.DefaultPageSize
		if list, _, err = uc.logRepo.List(ctx, f); err != nil {
			return nil, err
		}
	}
	users, err := uc.logRepo.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.StatusLogPage{
		Items:   make([]dto.StatusLogResponse, 0, len(list)),
		Users:   make([]dto.UserOption, 0, len(users)),
		Page:    page,
		Filters: applied,
	}
	for _, l := range list {
		out.Items = append(out.Items, dto.NewStatusLogResponse(l))
	}
	for _, u := range users {
		out.Users = append(out.Users, dto.UserOption{ID: u.ID, Name: u.DisplayName()})
	}
	return out, nil
}

// parseYear año del parámetro o def si está vacío o es inválido.
func parseYear(s string, def int) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return y
}
