package ordering

import (
	"fmt"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// Conjuntos de estados usados por los distintos tableros.
var (
	ActiveStatuses             = []string{entity.StatusPending, entity.StatusConfirmed, entity.StatusInProduction, entity.StatusDispatched}
	DashboardConfirmedStatuses = []string{entity.StatusConfirmed, entity.StatusInProduction}
	DashboardStatuses          = []string{entity.StatusPending, entity.StatusConfirmed, entity.StatusInProduction}
	SummaryStatuses            = []string{entity.StatusPending, entity.StatusConfirmed, entity.StatusInProduction, entity.StatusDelivered}
	HistoryStatuses            = []string{entity.StatusDelivered, entity.StatusCancelled, entity.StatusReturned}
)

// ValidStatus indica si s es un estado de pedido conocido.
func ValidStatus(s string) bool { return entity.Valid(entity.OrderStatuses, s) }

// StatusLabel etiqueta legible del estado.
func StatusLabel(s string) string { return entity.Label(entity.OrderStatuses, s) }

// RequiresDescription estados de cierre que exigen una descripción.
func RequiresDescription(s string) bool {
	return s == entity.StatusDelivered || s == entity.StatusReturned
}

// IsHistory indica si el pedido ya salió del flujo activo.
func IsHistory(s string) bool { return contains(HistoryStatuses, s) }

// Contains indica si s está en set.
func Contains(set []string, s string) bool { return contains(set, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// StatusChoices filtra el catálogo de estados conservando el orden.
func StatusChoices(keep func(code string) bool) []entity.Choice {
	out := make([]entity.Choice, 0, len(entity.OrderStatuses))
	for _, c := range entity.OrderStatuses {
		if keep(c.Code) {
			out = append(out, c)
		}
	}
	return out
}

// StatusEvent mensaje y tipo de evento que se notifica al cambiar de estado.
type StatusEvent struct {
	Message   string
	EventType string
	PlaySound bool
}

// CreatedEvent evento de creación de pedido.
func CreatedEvent(number int64, actor string) StatusEvent {
	return StatusEvent{
		Message:   fmt.Sprintf("Pedido #%d creado por %s", number, actor),
		EventType: entity.EventOrderCreated,
		PlaySound: true,
	}
}

// ChangeEvent evento para el cambio from -> to. Confirmaciones, cancelaciones y
// devoluciones suenan en el navegador; el resto es informativo.
func ChangeEvent(number int64, from, to, actor string) StatusEvent {
	switch to {
	case entity.StatusConfirmed:
		return StatusEvent{fmt.Sprintf("Pedido #%d confirmado por %s", number, actor), entity.EventOrderConfirmed, true}
	case entity.StatusCancelled:
		return StatusEvent{fmt.Sprintf("Pedido #%d cancelado por %s", number, actor), entity.EventOrderCancelled, true}
	case entity.StatusReturned:
		return StatusEvent{fmt.Sprintf("Pedido #%d marcado como devuelto por %s", number, actor), entity.EventOrderReturned, true}
	default:
		return StatusEvent{
			Message:   fmt.Sprintf("Pedido #%d cambio de %s a %s por %s", number, StatusLabel(from), StatusLabel(to), actor),
			EventType: entity.EventOrderStatusEdit,
		}
	}
}
