// Package access define quién puede hacer qué. Todas las mutaciones pasan por
// estas funciones antes de tocar la base de datos.
package access

import (
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// Actor usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID    string
	Username  string
	Name      string // nombre para mostrar en mensajes
	Role      string
	City      string
	Superuser bool
}

// Authenticated indica si el actor corresponde a un usuario.
func (a Actor) Authenticated() bool { return a.UserID != "" }

// DisplayName nombre para notificaciones.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Username != "" {
		return a.Username
	}
	return "Sistema"
}

// FromUser construye el actor a partir del usuario persistido.
func FromUser(u *entity.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{
		UserID:    u.ID,
		Username:  u.Username,
		Name:      u.DisplayName(),
		Role:      u.Role,
		City:      u.City,
		Superuser: u.IsSuperuser,
	}
}

func (a Actor) hasRole(roles ...string) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Superuser {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin superusuario o rol admin.
func IsAdmin(a Actor) bool { return a.hasRole(entity.RoleAdmin) }

// CanManageUsers administración de usuarios.
func CanManageUsers(a Actor) bool { return a.hasRole(entity.RoleAdmin) }

// CanManageSuppliers crear, editar y eliminar proveedores.
func CanManageSuppliers(a Actor) bool { return a.hasRole(entity.RoleAdmin, entity.RoleComercial) }

// CanManageOrders crear y editar pedidos, registrar materia prima.
func CanManageOrders(a Actor) bool { return a.hasRole(entity.RoleAdmin, entity.RoleComercial) }

// CanManageClients crear, editar y eliminar clientes.
func CanManageClients(a Actor) bool { return a.hasRole(entity.RoleAdmin, entity.RoleComercial) }

// CanDeleteOrders solo administradores eliminan pedidos.
func CanDeleteOrders(a Actor) bool { return IsAdmin(a) }

var allStatusesButReturned = []string{
	entity.StatusPending, entity.StatusConfirmed, entity.StatusInProduction,
	entity.StatusDispatched, entity.StatusDelivered, entity.StatusCancelled,
}

var statusesByRole = map[string][]string{
	entity.RoleAdmin:       allStatusesButReturned,
	entity.RoleComercial:   {entity.StatusPending, entity.StatusConfirmed, entity.StatusCancelled},
	entity.RoleProduccion:  {entity.StatusInProduction, entity.StatusReturned},
	entity.RoleProgramador: {entity.StatusInProduction, entity.StatusReturned},
	entity.RoleLogistica:   {entity.StatusDispatched, entity.StatusDelivered, entity.StatusReturned},
}

// AllowedStatuses estados a los que el actor puede llevar un pedido.
func AllowedStatuses(a Actor) map[string]bool {
	out := make(map[string]bool)
	if !a.Authenticated() {
		return out
	}
	statuses := statusesByRole[a.Role]
	if a.Superuser {
		statuses = allStatusesButReturned
	}
	for _, s := range statuses {
		out[s] = true
	}
	return out
}

// CanChangeStatus el actor puede llevar pedidos al menos a un estado.
func CanChangeStatus(a Actor) bool { return len(AllowedStatuses(a)) > 0 }

// RestrictsSuppliersByCity los comerciales solo ven proveedores de su ciudad.
func RestrictsSuppliersByCity(a Actor) bool {
	return a.Authenticated() && !a.Superuser && a.Role == entity.RoleComercial
}
