// Package orders implementa los casos de uso de pedidos semanales: creación,
// edición, cambios de estado y eliminación.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// Deps dependencias del servicio. Mailer y Metrics son opcionales.
type Deps struct {
	Tx         TxRunner
	Orders     repository.OrderRepository
	Suppliers  repository.SupplierRepository
	Users      repository.UserRepository
	Notifier   Notifier
	Mailer     ports.Mailer
	Recipients []string // destinatarios del correo de pedido creado
	Metrics    ports.OrderMetrics
	Log        zerolog.Logger
	Now        func() time.Time
}

// Service casos de uso de pedidos.
type Service struct {
	tx         TxRunner
	orders     repository.OrderRepository
	suppliers  repository.SupplierRepository
	users      repository.UserRepository
	notifier   Notifier
	mailer     ports.Mailer
	recipients []string
	metrics    ports.OrderMetrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewService construye el servicio de pedidos.
func NewService(d Deps) *Service {
	s := &Service{
		tx:         d.Tx,
		orders:     d.Orders,
		suppliers:  d.Suppliers,
		users:      d.Users,
		notifier:   d.Notifier,
		mailer:     d.Mailer,
		recipients: d.Recipients,
		metrics:    d.Metrics,
		log:        d.Log,
		now:        d.Now,
	}
	if s.metrics == nil {
		s.metrics = ports.NopOrderMetrics{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func fieldErr(kind error, field, msg string) error {
	return domain.NewValidationError(kind, domain.FieldError{Field: field, Message: msg})
}

func parseDeliveries(rows []dto.DeliveryRow) []ordering.DeliveryInput {
	dates := make([]string, len(rows))
	qtys := make([]string, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
		qtys[i] = string(r.Quantity)
	}
	return ordering.ParseDeliveries(dates, qtys)
}

func toDeliveries(in []ordering.DeliveryInput) []entity.Delivery {
	out := make([]entity.Delivery, 0, len(in))
	for _, d := range in {
		out = append(out, entity.Delivery{Date: d.Date, Quantity: d.Quantity, Status: entity.DeliveryPending})
	}
	return out
}

// supplierFor devuelve el proveedor si está activo y, con restrict, disponible para el actor.
func (s *Service) supplierFor(ctx context.Context, actor access.Actor, id string, restrict bool) (*entity.Supplier, error) {
	unavailable := fieldErr(domain.ErrSupplierUnavailable, "proveedor", "Debes seleccionar un proveedor valido y activo.")
	if strings.TrimSpace(id) == "" {
		return nil, unavailable
	}
	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup == nil || !sup.Active {
		return nil, unavailable
	}
	if restrict && access.RestrictsSuppliersByCity(actor) && sup.City != actor.City {
		return nil, unavailable
	}
	return sup, nil
}

// availableSuppliers proveedores activos que el actor puede usar al crear pedidos.
func (s *Service) availableSuppliers(ctx context.Context, actor access.Actor) ([]*entity.Supplier, error) {
	f := repository.SupplierFilter{ActiveOnly: true}
	if access.RestrictsSuppliersByCity(actor) {
		if actor.City == "" {
			return nil, nil
		}
		f.City = actor.City
	}
	list, _, err := s.suppliers.List(ctx, f)
	return list, err
}

func (s *Service) load(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// Get devuelve un pedido.
func (s *Service) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// Create registra un pedido semanal del actor (que actúa como comercial).
func (s *Service) Create(ctx context.Context, actor access.Actor, in dto.OrderRequest) (*dto.OrderResponse, error) {
	if !access.CanManageOrders(actor) {
		return nil, fmt.Errorf("%w: no tienes permisos para crear pedidos", domain.ErrForbidden)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	deliveries := parseDeliveries(in.Deliveries)
	total := ordering.ResolveTotal(string(in.TotalQuantity), deliveries)
	week, ok := ordering.AdjustWeekParam(in.Week)
	if !ok {
		return nil, fieldErr(domain.ErrInvalidWeek, "semana", "La fecha de semana es invalida.")
	}
	if err := ordering.ValidateDeliveries(deliveries, &week, total); err != nil {
		return nil, err
	}
	if actor.City == "" {
		return nil, fieldErr(domain.ErrMissingCity, "comercial",
			"El comercial seleccionado no tiene ciudad asignada. Actualiza la ciudad del usuario antes de crear el pedido.")
	}
	sup, err := s.supplierFor(ctx, actor, in.SupplierID, true)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		SupplierID:    sup.ID,
		CommercialID:  actor.UserID,
		City:          actor.City,
		EggType:       in.EggType,
		Presentation:  sup.Presentation,
		Quantity:      total,
		TotalQuantity: total,
		DeliveryDate:  ordering.LatestDelivery(deliveries),
		Week:          &week,
		Status:        entity.StatusPending,
		Notes:         strings.TrimSpace(in.Notes),
		Deliveries:    toDeliveries(deliveries),
	}
	err = s.tx.Run(ctx, func(orders repository.OrderRepository, _ repository.StatusLogRepository) error {
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	order.SupplierName = sup.Name
	order.CommercialName = actor.DisplayName()

	if err := s.notifier.Broadcast(ctx, ordering.CreatedEvent(order.Number, actor.DisplayName())); err != nil {
		s.log.Error().Err(err).Int64("order", order.Number).Msg("no se pudo notificar la creación del pedido")
	}
	s.metrics.OrderCreated(order.City, order.EggType)
	s.sendCreatedMail(ctx, actor, order)

	s.log.Info().Int64("order", order.Number).Str("user", actor.Username).Int64("kg", total).Msg("pedido creado")
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// Update edita un pedido existente. Los pedidos del historial solo los edita un administrador.
func (s *Service) Update(ctx context.Context, actor access.Actor, id string, in dto.OrderRequest) (*dto.OrderResponse, error) {
	if !access.CanManageOrders(actor) {
		return nil, fmt.Errorf("%w: no tienes permisos para editar pedidos", domain.ErrForbidden)
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if ordering.IsHistory(order.Status) && !access.IsAdmin(actor) {
		return nil, fmt.Errorf("%w: solo un administrador puede editar pedidos del historial", domain.ErrForbidden)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	deliveries := parseDeliveries(in.Deliveries)
	total := ordering.ResolveTotal(string(in.TotalQuantity), deliveries)
	var week *time.Time
	if strings.TrimSpace(in.Week) != "" {
		w, ok := ordering.AdjustWeekParam(in.Week)
		if !ok {
			return nil, fieldErr(domain.ErrInvalidWeek, "semana", "La fecha de semana es invalida.")
		}
		week = &w
	}
	if err := ordering.ValidateDeliveries(deliveries, week, total); err != nil {
		return nil, err
	}

	commercialID := strings.TrimSpace(in.CommercialID)
	if commercialID == "" {
		commercialID = order.CommercialID
	}
	commercial, err := s.users.GetByID(ctx, commercialID)
	if err != nil {
		return nil, err
	}
	if commercial == nil || commercial.City == "" {
		return nil, fieldErr(domain.ErrMissingCity, "comercial",
			"El comercial seleccionado no tiene ciudad asignada. Actualiza la ciudad del usuario antes de editar el pedido.")
	}
	sup, err := s.supplierFor(ctx, actor, in.SupplierID, false)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	next := strings.TrimSpace(in.Status)
	description := ""
	if next == "" {
		next = previous
	} else if !ordering.ValidStatus(next) {
		return nil, fieldErr(domain.ErrInvalidStatus, "estado", "Debes seleccionar un estado valido.")
	} else if next != previous {
		if !access.AllowedStatuses(actor)[next] {
			return nil, domain.ErrStatusNotAllowed
		}
		if ordering.RequiresDescription(next) {
			description = strings.TrimSpace(in.Notes)
			if description == "" {
				return nil, fieldErr(domain.ErrDescriptionRequired, "observaciones",
					"Para marcar el pedido como entregado o devuelto agrega una descripcion en observaciones.")
			}
		}
	}

	order.SupplierID = sup.ID
	order.CommercialID = commercial.ID
	order.City = commercial.City
	order.EggType = in.EggType
	order.Presentation = sup.Presentation
	order.Quantity = total
	order.TotalQuantity = total
	order.DeliveryDate = ordering.LatestDelivery(deliveries)
	order.Week = week
	order.Notes = strings.TrimSpace(in.Notes)
	order.Status = next
	order.Deliveries = toDeliveries(deliveries)

	err = s.tx.Run(ctx, func(orders repository.OrderRepository, logs repository.StatusLogRepository) error {
		if err := orders.Update(ctx, order); err != nil {
			return err
		}
		if next == previous {
			return nil
		}
		return logs.Create(ctx, &entity.StatusLog{
			OrderID:     order.ID,
			UserID:      actor.UserID,
			FromStatus:  previous,
			ToStatus:    next,
			Description: description,
		})
	})
	if err != nil {
		return nil, err
	}
	order.SupplierName = sup.Name
	order.CommercialName = commercial.DisplayName()
	if next != previous {
		s.afterStatusChange(ctx, actor, order, previous, next)
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// ChangeStatus lleva el pedido al estado indicado si el rol del actor lo permite.
func (s *Service) ChangeStatus(ctx context.Context, actor access.Actor, id string, in dto.ChangeStatusRequest) (*dto.OrderResponse, error) {
	allowed := access.AllowedStatuses(actor)
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: no tienes permisos para cambiar el estado del pedido", domain.ErrForbidden)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := strings.TrimSpace(in.Status)
	description := strings.TrimSpace(in.Description)
	if !ordering.ValidStatus(next) {
		return nil, fieldErr(domain.ErrInvalidStatus, "estado", "Debes seleccionar un estado valido.")
	}
	if next != order.Status && !allowed[next] {
		return nil, domain.ErrStatusNotAllowed
	}
	if next != order.Status && ordering.RequiresDescription(next) && description == "" {
		return nil, fieldErr(domain.ErrDescriptionRequired, "descripcion_estado",
			"Debes agregar una descripcion para cerrar el pedido.")
	}
	if err := s.transition(ctx, actor, order, next, description); err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// MarkDelivered marca el pedido como entregado con una descripción automática.
func (s *Service) MarkDelivered(ctx context.Context, actor access.Actor, id string) (*dto.OrderResponse, error) {
	allowed := access.AllowedStatuses(actor)
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: no tienes permisos para cambiar el estado del pedido", domain.ErrForbidden)
	}
	if !allowed[entity.StatusDelivered] {
		return nil, fmt.Errorf("%w: no tienes permisos para cambiar el pedido a entregado", domain.ErrStatusNotAllowed)
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := fmt.Sprintf("Pedido entregado por %s el %s.", actor.DisplayName(), s.now().Format(ordering.DisplayLayout))
	if err := s.transition(ctx, actor, order, entity.StatusDelivered, detail); err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// transition persiste el cambio de estado y su registro en una transacción.
// Si el estado no cambia no se registra nada.
func (s *Service) transition(ctx context.Context, actor access.Actor, order *entity.Order, to, description string) error {
	from := order.Status
	if from == to {
		return nil
	}
	err := s.tx.Run(ctx, func(orders repository.OrderRepository, logs repository.StatusLogRepository) error {
		if err := orders.UpdateStatus(ctx, order.ID, to); err != nil {
			return err
		}
		return logs.Create(ctx, &entity.StatusLog{
			OrderID:     order.ID,
			UserID:      actor.UserID,
			FromStatus:  from,
			ToStatus:    to,
			Description: description,
		})
	})
	if err != nil {
		return err
	}
	order.Status = to
	s.afterStatusChange(ctx, actor, order, from, to)
	return nil
}

func (s *Service) afterStatusChange(ctx context.Context, actor access.Actor, order *entity.Order, from, to string) {
	ev := ordering.ChangeEvent(order.Number, from, to, actor.DisplayName())
	if err := s.notifier.Broadcast(ctx, ev); err != nil {
		s.log.Error().Err(err).Int64("order", order.Number).Msg("no se pudo notificar el cambio de estado")
	}
	s.metrics.OrderStatusChanged(from, to)
	s.log.Info().Int64("order", order.Number).Str("from", from).Str("to", to).Str("user", actor.Username).Msg("estado de pedido actualizado")
}

// Delete elimina un pedido. Solo administradores.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !access.CanDeleteOrders(actor) {
		return fmt.Errorf("%w: no tienes permisos para eliminar pedidos", domain.ErrForbidden)
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.OrderDeleted()
	s.log.Info().Str("order_id", id).Str("user", actor.Username).Msg("pedido eliminado")
	return nil
}

// Table tablero de pedidos activos con totales por familia de producto.
func (s *Service) Table(ctx context.Context, q dto.OrderListQuery) (*dto.OrderTableResponse, error) {
	filter, applied := BuildFilter(q, ordering.ActiveStatuses)
	list, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	suppliers, _, err := s.suppliers.List(ctx, repository.SupplierFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	out := &dto.OrderTableResponse{
		Orders:    dto.NewOrderResponses(list),
		Suppliers: dto.NewSupplierOptions(suppliers),
		Statuses:  ordering.StatusChoices(func(c string) bool { return ordering.Contains(ordering.ActiveStatuses, c) }),
		Filters:   applied,
	}
	for _, o := range list {
		switch o.EggType {
		case entity.EggWholeLiquid, entity.EggWhiteLiquid:
			out.TotalLiquid += o.EffectiveQuantity()
		case entity.EggYolkLiquid:
			out.TotalYolk += o.EffectiveQuantity()
		case entity.EggPowderMix:
			out.TotalMix += o.EffectiveQuantity()
		}
	}
	return out, nil
}

// Form datos para el formulario de creación (id vacío) o edición.
func (s *Service) Form(ctx context.Context, actor access.Actor, id string) (*dto.OrderFormResponse, error) {
	if !access.CanManageOrders(actor) {
		return nil, fmt.Errorf("%w: no tienes permisos para gestionar pedidos", domain.ErrForbidden)
	}
	out := &dto.OrderFormResponse{EggTypes: entity.EggTypes, Presentations: entity.Presentations}

	if id == "" {
		suppliers, err := s.availableSuppliers(ctx, actor)
		if err != nil {
			return nil, err
		}
		out.Suppliers = dto.NewSupplierOptions(suppliers)
		out.Commercials = []dto.UserOption{{ID: actor.UserID, Name: actor.DisplayName()}}
		return out, nil
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if ordering.IsHistory(order.Status) && !access.IsAdmin(actor) {
		return nil, fmt.Errorf("%w: solo un administrador puede editar pedidos del historial", domain.ErrForbidden)
	}
	suppliers, _, err := s.suppliers.List(ctx, repository.SupplierFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}
	out.Suppliers = dto.NewSupplierOptions(suppliers)
	for _, u := range users {
		out.Commercials = append(out.Commercials, dto.UserOption{ID: u.ID, Name: u.DisplayName()})
	}
	allowed := access.AllowedStatuses(actor)
	out.Statuses = ordering.StatusChoices(func(c string) bool { return allowed[c] })
	if ordering.ValidStatus(order.Status) && !allowed[order.Status] {
		current := entity.Choice{Code: order.Status, Label: ordering.StatusLabel(order.Status)}
		out.Statuses = append([]entity.Choice{current}, out.Statuses...)
	}
	resp := dto.NewOrderResponse(order)
	out.Order = &resp
	return out, nil
}

// StatusForm datos para el formulario de cambio de estado.
func (s *Service) StatusForm(ctx context.Context, actor access.Actor, id string) (*dto.StatusFormResponse, error) {
	allowed := access.AllowedStatuses(actor)
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: no tienes permisos para cambiar el estado del pedido", domain.ErrForbidden)
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StatusFormResponse{
		Order:               dto.NewOrderResponse(order),
		Statuses:            ordering.StatusChoices(func(c string) bool { return allowed[c] || c == order.Status }),
		RequiresDescription: []string{entity.StatusDelivered, entity.StatusReturned},
	}, nil
}
