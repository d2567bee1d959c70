package dto

import "time"

// LoginRequest credenciales y destino opcional tras el login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
	Next     string `json:"next" form:"next"`
}

// LoginResponse token de sesión, usuario y destino saneado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Next      string       `json:"next"`
	User      UserResponse `json:"user"`
}

// LoginPageResponse contexto del formulario de login.
type LoginPageResponse struct {
	Next string `json:"next"`
}
