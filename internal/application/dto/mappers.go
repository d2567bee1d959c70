package dto

import (
	"time"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// NewUserResponse mapea un usuario; photoURL es la URL pública de la foto (vacía si no tiene).
func NewUserResponse(u *entity.User, photoURL string) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Role:        u.Role,
		RoleLabel:   entity.Label(entity.Roles, u.Role),
		City:        u.City,
		CityLabel:   entity.Label(entity.Cities, u.City),
		IsSuperuser: u.IsSuperuser,
		Active:      u.Active,
		PhotoURL:    photoURL,
		CreatedAt:   u.CreatedAt,
	}
}

// NewSupplierResponse mapea un proveedor.
func NewSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                s.ID,
		Name:              s.Name,
		NIT:               s.NIT,
		Contact:           s.Contact,
		Phone:             s.Phone,
		Email:             s.Email,
		Active:            s.Active,
		City:              s.City,
		CityLabel:         entity.Label(entity.Cities, s.City),
		Presentation:      s.Presentation,
		PresentationLabel: entity.Label(entity.Presentations, s.Presentation),
		CreatedAt:         s.CreatedAt,
	}
}

// NewSupplierOptions proveedores resumidos.
func NewSupplierOptions(list []*entity.Supplier) []SupplierOption {
	out := make([]SupplierOption, 0, len(list))
	for _, s := range list {
		out = append(out, SupplierOption{ID: s.ID, Name: s.Name, City: s.City, Presentation: s.Presentation})
	}
	return out
}

// NewClientResponse mapea un cliente.
func NewClientResponse(c *entity.Client, imageURL string) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ImageURL:    imageURL,
		CreatedAt:   c.CreatedAt,
	}
}

// NewOrderResponse mapea un pedido con sus entregas ordenadas por fecha.
func NewOrderResponse(o *entity.Order) OrderResponse {
	deliveries := make([]DeliveryResponse, 0, len(o.Deliveries))
	for _, d := range o.Deliveries {
		deliveries = append(deliveries, DeliveryResponse{
			ID:       d.ID,
			Date:     d.Date.Format(dateLayout),
			Quantity: d.Quantity,
			Status:   d.Status,
		})
	}
	return OrderResponse{
		ID:                o.ID,
		Number:            o.Number,
		SupplierID:        o.SupplierID,
		SupplierName:      o.SupplierName,
		CommercialID:      o.CommercialID,
		CommercialName:    o.CommercialName,
		City:              o.City,
		CityLabel:         entity.Label(entity.Cities, o.City),
		EggType:           o.EggType,
		EggTypeLabel:      entity.Label(entity.EggTypes, o.EggType),
		Presentation:      o.Presentation,
		PresentationLabel: entity.Label(entity.Presentations, o.Presentation),
		Quantity:          o.Quantity,
		TotalQuantity:     o.TotalQuantity,
		EffectiveQuantity: o.EffectiveQuantity(),
		DeliveryDate:      formatDate(o.DeliveryDate),
		Week:              formatDate(o.Week),
		Status:            o.Status,
		StatusLabel:       entity.Label(entity.OrderStatuses, o.Status),
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		Deliveries:        deliveries,
	}
}

// NewOrderResponses mapea una lista de pedidos.
func NewOrderResponses(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

// NewRawMaterialResponse mapea un registro de materia prima.
func NewRawMaterialResponse(r *entity.RawMaterial) RawMaterialResponse {
	return RawMaterialResponse{
		ID:           r.ID,
		Date:         r.Date.Format(dateLayout),
		EggType:      r.EggType,
		EggTypeLabel: entity.Label(entity.EggTypes, r.EggType),
		QuantityKg:   r.QuantityKg,
		Notes:        r.Notes,
		CreatedBy:    r.CreatedByName,
		CreatedAt:    r.CreatedAt,
	}
}

// NewNotificationResponse mapea una notificación.
func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		EventType: n.EventType,
		PlaySound: n.PlaySound,
		CreatedAt: n.CreatedAt,
	}
}

// NewStatusLogResponse mapea un registro de cambio de estado.
func NewStatusLogResponse(l *entity.StatusLog) StatusLogResponse {
	user := l.UserName
	if user == "" {
		user = "Sistema"
	}
	return StatusLogResponse{
		ID:          l.ID,
		OrderID:     l.OrderID,
		OrderNumber: l.OrderNumber,
		User:        user,
		FromStatus:  l.FromStatus,
		ToStatus:    l.ToStatus,
		FromLabel:   entity.Label(entity.OrderStatuses, l.FromStatus),
		ToLabel:     entity.Label(entity.OrderStatuses, l.ToStatus),
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}
