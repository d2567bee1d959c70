package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleComercial  = "comercial"
	RoleLogistica  = "logistica"
	RoleProduccion = "produccion"
	// RoleProgramador perfiles antiguos creados antes del rol produccion.
	RoleProgramador = "programador"
)

// Roles catálogo de roles asignables desde la administración de usuarios.
var Roles = []Choice{
	{RoleComercial, "Comercial"},
	{RoleLogistica, "Logística"},
	{RoleProduccion, "Producción"},
	{RoleAdmin, "Administrador"},
}

// User representa un usuario del sistema junto con su perfil (rol, ciudad, foto).
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // bcrypt
	Role         string
	City         string
	IsSuperuser  bool
	Active       bool
	PhotoKey     string // clave en el almacenamiento de media; vacío si no tiene foto
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre completo o, si no tiene, el username.
func (u *User) DisplayName() string {
	if u == nil {
		return "Sistema"
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

// ApplyProfileDefaults completa rol y ciudad de perfiles incompletos:
// admin para superusuarios, produccion para el resto y ciudad Bogotá.
func (u *User) ApplyProfileDefaults() {
	if u.Role == "" {
		if u.IsSuperuser {
			u.Role = RoleAdmin
		} else {
			u.Role = RoleProduccion
		}
	}
	if u.City == "" {
		u.City = CityBogota
	}
}
