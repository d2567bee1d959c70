// Package ordering contiene las reglas de negocio de los pedidos semanales:
// ajuste de semanas, entregas programadas y máquina de estados.
package ordering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/forecast-cloud/internal/domain"
)

// DateLayout formato ISO de fechas (YYYY-MM-DD) usado en formularios y filtros.
const DateLayout = "2006-01-02"

// DisplayLayout formato de fechas en mensajes para el usuario.
const DisplayLayout = "02/01/2006"

// WorkingDays número de días programables por semana (lunes a sábado).
const WorkingDays = 6

// DayNames nombres de los días programables.
var DayNames = [WorkingDays]struct{ Label, Short string }{
	{"Lunes", "Lun"},
	{"Martes", "Mar"},
	{"Miercoles", "Mie"},
	{"Jueves", "Jue"},
	{"Viernes", "Vie"},
	{"Sabado", "Sab"},
}

// ParseDate interpreta una fecha ISO. Devuelve false si está vacía o es inválida.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Truncate normaliza t a medianoche UTC conservando la fecha calendario.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AdjustToMonday lleva la fecha al lunes más cercano: martes a jueves retroceden,
// viernes a domingo avanzan.
func AdjustToMonday(t time.Time) time.Time {
	t = Truncate(t)
	weekday := (int(t.Weekday()) + 6) % 7 // lunes = 0
	if weekday == 0 {
		return t
	}
	distPrev := weekday
	distNext := 7 - weekday
	if distNext < distPrev {
		return t.AddDate(0, 0, distNext)
	}
	return t.AddDate(0, 0, -distPrev)
}

// AdjustWeekParam aplica AdjustToMonday sobre un parámetro de texto.
func AdjustWeekParam(s string) (time.Time, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return time.Time{}, false
	}
	return AdjustToMonday(t), true
}

// StartOfWeek lunes de la semana calendario de t (sin redondeo al más cercano).
func StartOfWeek(t time.Time) time.Time {
	t = Truncate(t)
	weekday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -weekday)
}

// WeekBounds devuelve el lunes y el sábado de la semana.
func WeekBounds(monday time.Time) (time.Time, time.Time) {
	monday = Truncate(monday)
	return monday, monday.AddDate(0, 0, WorkingDays-1)
}

// DeliveryInput entrega ya validada (fecha + kg > 0).
type DeliveryInput struct {
	Date     time.Time
	Quantity int64
}

// ParseDeliveries empareja fechas y cantidades del formulario. Se descartan
// filas vacías, cantidades no numéricas o no positivas y fechas inválidas.
func ParseDeliveries(dates, quantities []string) []DeliveryInput {
	n := len(dates)
	if len(quantities) < n {
		n = len(quantities)
	}
	out := make([]DeliveryInput, 0, n)
	for i := 0; i < n; i++ {
		rawDate := strings.TrimSpace(dates[i])
		rawQty := strings.TrimSpace(quantities[i])
		if rawDate == "" || rawQty == "" {
			continue
		}
		qty, err := strconv.ParseInt(rawQty, 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		date, ok := ParseDate(rawDate)
		if !ok {
			continue
		}
		out = append(out, DeliveryInput{Date: date, Quantity: qty})
	}
	return out
}

// SumDeliveries total de kg programados.
func SumDeliveries(ds []DeliveryInput) int64 {
	var total int64
	for _, d := range ds {
		total += d.Quantity
	}
	return total
}

// LatestDelivery fecha más tardía de las entregas, o nil si no hay.
func LatestDelivery(ds []DeliveryInput) *time.Time {
	if len(ds) == 0 {
		return nil
	}
	latest := ds[0].Date
	for _, d := range ds[1:] {
		if d.Date.After(latest) {
			latest = d.Date
		}
	}
	return &latest
}

// ResolveTotal usa la cantidad total indicada si es positiva; si no, la suma de entregas.
func ResolveTotal(raw string, ds []DeliveryInput) int64 {
	total, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || total <= 0 {
		return SumDeliveries(ds)
	}
	return total
}

// ValidateDeliveries verifica que las entregas caigan entre lunes y sábado de la
// semana y que, si hay cantidad total, las entregas sumen exactamente esa cantidad.
func ValidateDeliveries(ds []DeliveryInput, monday *time.Time, total int64) error {
	if monday != nil && len(ds) > 0 {
		start, end := WeekBounds(*monday)
		for _, d := range ds {
			if d.Date.Before(start) || d.Date.After(end) {
				return domain.NewValidationError(domain.ErrDeliveriesOutsideWeek, domain.FieldError{
					Field: "fecha_entrega",
					Message: fmt.Sprintf("Las entregas programadas deben estar entre %s y %s.",
						start.Format(DisplayLayout), end.Format(DisplayLayout)),
				})
			}
		}
	}
	if total > 0 && SumDeliveries(ds) != total {
		return domain.NewValidationError(domain.ErrDeliveriesMismatch, domain.FieldError{
			Field:   "cantidad_total",
			Message: "Las entregas programadas deben sumar la misma cantidad que la cantidad total (kg) indicada en la semana.",
		})
	}
	return nil
}
