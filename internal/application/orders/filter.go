package orders

import (
	"strings"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// BuildFilter traduce los filtros de la petición. Fechas inválidas se ignoran;
// la semana se ajusta al lunes más cercano. Devuelve también los filtros aplicados
// para devolverlos al cliente.
func BuildFilter(q dto.OrderListQuery, statuses []string) (repository.OrderFilter, map[string]string) {
	f := repository.OrderFilter{Statuses: statuses}
	applied := map[string]string{}

	if v := strings.TrimSpace(q.SupplierID); v != "" {
		f.SupplierID = v
		applied["proveedor_id"] = v
	}
	if v := strings.TrimSpace(q.City); v != "" {
		f.City = v
		applied["ciudad"] = v
	}
	if v := strings.TrimSpace(q.EggType); v != "" {
		f.EggType = v
		applied["tipo_huevo"] = v
	}
	if v := strings.TrimSpace(q.Presentation); v != "" {
		f.Presentation = v
		applied["presentacion"] = v
	}
	if v := strings.TrimSpace(q.Status); v != "" {
		f.Status = v
		applied["estado"] = v
	}
	if d, ok := ordering.ParseDate(q.CreatedOn); ok {
		f.CreatedOn = &d
		applied["fecha_creacion"] = d.Format(ordering.DateLayout)
	}
	if w, ok := ordering.AdjustWeekParam(q.Week); ok {
		f.Week = &w
		applied["semana"] = w.Format(ordering.DateLayout)
	}
	if d, ok := ordering.ParseDate(q.DeliveryFrom); ok {
		f.DeliveryFrom = &d
		applied["fecha_desde"] = d.Format(ordering.DateLayout)
	}
	if d, ok := ordering.ParseDate(q.DeliveryTo); ok {
		f.DeliveryTo = &d
		applied["fecha_hasta"] = d.Format(ordering.DateLayout)
	}
	return f, applied
}
