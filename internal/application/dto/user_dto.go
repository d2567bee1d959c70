package dto

import "time"

// CreateUserRequest alta de usuario desde la administración.
type CreateUserRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Password1 string `json:"password1" form:"password1" validate:"required"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
	Role      string `json:"rol" form:"rol" validate:"required,role"`
	City      string `json:"ciudad" form:"ciudad" validate:"required,city"`
	Active    *bool  `json:"is_active" form:"is_active"`
}

// UpdateUserRequest edición de usuario. Password1/Password2 vacíos conservan la contraseña.
type UpdateUserRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
	Role      string `json:"rol" form:"rol" validate:"required,role"`
	City      string `json:"ciudad" form:"ciudad" validate:"required,city"`
	Active    *bool  `json:"is_active" form:"is_active"`
}

// UpdateProfileRequest cambios del propio perfil (mi perfil).
type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" form:"last_name" validate:"max=150"`
	Email           string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword1    string `json:"new_password1" form:"new_password1"`
	NewPassword2    string `json:"new_password2" form:"new_password2"`
	DeletePhoto     bool   `json:"eliminar_foto" form:"eliminar_foto"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"nombre"`
	Role        string    `json:"rol"`
	RoleLabel   string    `json:"rol_label"`
	City        string    `json:"ciudad"`
	CityLabel   string    `json:"ciudad_label"`
	IsSuperuser bool      `json:"is_superuser"`
	Active      bool      `json:"is_active"`
	PhotoURL    string    `json:"foto_perfil,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserOption usuario resumido para selectores (comerciales, filtros).
type UserOption struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}
