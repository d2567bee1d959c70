package http

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/auth"
	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain"
)

// AuthHandler login por API y por formulario.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	cookieSecure bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure}
}

// Login godoc
// @Summary      Iniciar sesión (JSON)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password, next"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	out.Next = ResolveNext(in.Next, DefaultLoginNext)
	return c.JSON(out)
}

// LoginPage godoc
// @Summary      Contexto del formulario de login
// @Tags         auth
// @Produce      json
// @Param        next  query  string  false  "Destino tras el login"
// @Success      200   {object}  dto.LoginPageResponse
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(dto.LoginPageResponse{Next: SanitizeNext(c.Query("next"))})
}

// LoginForm godoc
// @Summary      Login por formulario: guarda la cookie de sesión y redirige
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true   "Usuario"
// @Param        password  formData  string  true   "Contraseña"
// @Param        next      formData  string  false  "Destino"
// @Success      303
// @Router       /login [post]
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	if in.Next == "" {
		in.Next = c.Query("next")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInactiveUser) || errors.Is(err, domain.ErrInvalidInput) {
			q := url.Values{"error": {"1"}}
			if next := SanitizeNext(in.Next); next != "" {
				q.Set("next", next)
			}
			return c.Redirect("/login?"+q.Encode(), fiber.StatusSeeOther)
		}
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(ResolveNext(in.Next, DefaultLoginNext), fiber.StatusSeeOther)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(RoutePath("login"), fiber.StatusSeeOther)
}
