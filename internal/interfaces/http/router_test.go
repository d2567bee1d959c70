package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
	apphttp "github.com/jhoicas/forecast-cloud/internal/interfaces/http"
)

func (e *testEnv) pendingOrder() *entity.Order {
	week := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return e.store.AddOrder(entity.Order{
		SupplierID:   e.supplier.ID,
		CommercialID: e.comercial.ID,
		City:         entity.CityBogota,
		EggType:      entity.EggWholeLiquid,
		Presentation: "SAC_20",
		Quantity:     500,
		Week:         &week,
		Status:       entity.StatusPending,
	})
}

func TestLoginForm_NextExternoRedirigeAlInicio(t *testing.T) {
	env := newTestEnv(t)
	for _, next := range []string{"https://evil.example.com", "http://evil.example.com/x", "//evil.example.com"} {
		body := url.Values{"username": {"carlos"}, "password": {testPassword}, "next": {next}}.Encode()
		resp := env.form(t, "/login", body)
		resp.Body.Close()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, next)
		assert.Equal(t, "/", resp.Header.Get("Location"), next)
		assert.Contains(t, resp.Header.Get("Set-Cookie"), apphttp.SessionCookie+"=", next)
		assert.Contains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "httponly", next)
	}
}

func TestLoginForm_NextLocalSeConserva(t *testing.T) {
	env := newTestEnv(t)
	body := url.Values{"username": {"carlos"}, "password": {testPassword}, "next": {"/pedidos/resumen/"}}.Encode()
	resp := env.form(t, "/login", body)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pedidos/resumen/", resp.Header.Get("Location"))
}

func TestLoginForm_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	body := url.Values{"username": {"carlos"}, "password": {"incorrecta"}, "next": {"https://evil.example.com"}}.Encode()
	resp := env.form(t, "/login", body)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?error=1", resp.Header.Get("Location"))
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestLoginPage_DescartaNextExterno(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/login?next="+url.QueryEscape("//evil.example.com"), "", "")
	var page dto.LoginPageResponse
	decode(t, resp, &page)
	assert.Equal(t, "", page.Next)

	resp = env.do(t, http.MethodGet, "/login?next="+url.QueryEscape("/pedidos/historial/"), "", "")
	decode(t, resp, &page)
	assert.Equal(t, "/pedidos/historial/", page.Next)
}

func TestLoginJSON_DevuelveTokenYNextSaneado(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "",
		`{"username":"carlos","password":"`+testPassword+`","next":"https://evil.example.com"}`)

	var out dto.LoginResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "/", out.Next)
}

func TestLoginJSON_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"carlos","password":"nope"}`)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", out.Code)
}

func TestCookieDeSesionAutentica(t *testing.T) {
	env := newTestEnv(t)
	body := url.Values{"username": {"carlos"}, "password": {testPassword}}.Encode()
	login := env.form(t, "/login", body)
	login.Body.Close()
	cookie := login.Header.Get("Set-Cookie")
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/api/mi-perfil", nil)
	req.Header.Set("Cookie", strings.SplitN(cookie, ";", 2)[0])
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEliminarPedido_SinRolDevuelve403YNoModifica(t *testing.T) {
	env := newTestEnv(t)
	order := env.pendingOrder()

	for _, u := range []*entity.User{env.comercial, env.logistica} {
		resp := env.do(t, http.MethodDelete, "/api/pedidos/"+order.ID, bearer(t, u), "")
		var body dto.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, u.Username)
		assert.Equal(t, "FORBIDDEN", body.Code)
	}

	stored, err := env.store.Orders().GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "el pedido no debe eliminarse")
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Equal(t, int64(500), stored.Quantity)
}

func TestEliminarPedido_Admin(t *testing.T) {
	env := newTestEnv(t)
	order := env.pendingOrder()

	resp := env.do(t, http.MethodDelete, "/api/pedidos/"+order.ID, bearer(t, env.admin), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, env.store.OrderCount())
}

func TestCrearUsuario_PasswordDebilNoPersiste(t *testing.T) {
	env := newTestEnv(t)
	before, err := env.store.Users().List(context.Background(), repository.UserFilter{})
	require.NoError(t, err)

	for _, pw := range []string{"12345678", "abc", "password", strings.Repeat("Zq7", 30)} {
		payload := `{"username":"nuevo","email":"nuevo@example.com","password1":"` + pw + `","password2":"` + pw + `","rol":"comercial","ciudad":"BOGOTA"}`
		resp := env.do(t, http.MethodPost, "/api/usuarios", bearer(t, env.admin), payload)

		var body dto.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, pw)
		assert.Equal(t, "WEAK_PASSWORD", body.Code, pw)
		assert.NotEmpty(t, body.Details, pw)
	}

	after, err := env.store.Users().List(context.Background(), repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestCrearUsuario_SoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	payload := `{"username":"nuevo","password1":"Granja2025!x","password2":"Granja2025!x","rol":"comercial","ciudad":"BOGOTA"}`

	resp := env.do(t, http.MethodPost, "/api/usuarios", bearer(t, env.comercial), payload)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/usuarios", bearer(t, env.admin), payload)
	var created dto.UserResponse
	decode(t, resp, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "nuevo", created.Username)
}

func TestCambiarEstado_NextExternoUsaTablero(t *testing.T) {
	env := newTestEnv(t)
	order := env.pendingOrder()

	resp := env.do(t, http.MethodPost, "/api/pedidos/"+order.ID+"/estado", bearer(t, env.comercial),
		`{"estado":"CONFIRMADO","next":"https://evil.example.com"}`)
	var out dto.ChangeStatusResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.StatusConfirmed, out.Order.Status)
	assert.Equal(t, "/editartablas/", out.Next)
}

func TestCambiarEstado_EstadoInvalidoEs400(t *testing.T) {
	env := newTestEnv(t)
	order := env.pendingOrder()

	resp := env.do(t, http.MethodPost, "/api/pedidos/"+order.ID+"/estado", bearer(t, env.comercial), `{"estado":"INVENTADO"}`)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", out.Code)
}

func TestCambiarEstado_NoPermitidoEs403(t *testing.T) {
	env := newTestEnv(t)
	order := env.pendingOrder()

	resp := env.do(t, http.MethodPost, "/api/pedidos/"+order.ID+"/estado", bearer(t, env.comercial),
		`{"estado":"DESPACHADO"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCuerpoMalFormadoEs400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/pedidos", bearer(t, env.comercial), `{"proveedor":`)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", out.Code)
}

func TestPedidoInexistenteEs404(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/pedidos/no-es-uuid", bearer(t, env.admin), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLimpiarNotificaciones(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/pedidos/notificaciones/limpiar", bearer(t, env.comercial), `{"next":"//evil.example.com"}`)

	var out dto.RedirectResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", out.Next)
}

func TestLimpiarNotificaciones_CuerpoMalFormadoNoBorra(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Notifications().CreateForUsers(context.Background(),
		[]string{env.comercial.ID}, entity.Notification{Message: "Pedido confirmado", EventType: "estado"}))

	resp := env.do(t, http.MethodPost, "/api/pedidos/notificaciones/limpiar", bearer(t, env.comercial), `{"next":`)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", out.Code)

	n, err := env.store.Notifications().CountUnread(context.Background(), env.comercial.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLimpiarNotificaciones_SinCuerpo(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/pedidos/notificaciones/limpiar", bearer(t, env.comercial), "")

	var out dto.RedirectResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", out.Next)
}

// pngImage cabecera PNG seguida de relleno; basta para la detección por contenido.
var pngImage = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func TestCrearCliente_ImagenSeSirveEnMedia(t *testing.T) {
	env := newTestEnv(t)
	resp := env.multipartFile(t, http.MethodPost, "/api/clientes", bearer(t, env.comercial),
		map[string]string{"titulo": "Hotel Central", "descripcion": "Desayunos"},
		"imagen", "logo.png", "image/png", pngImage)

	var created dto.ClientResponse
	decode(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, strings.HasPrefix(created.ImageURL, "/media/clientes/"), created.ImageURL)
	assert.True(t, strings.HasSuffix(created.ImageURL, ".png"), created.ImageURL)

	img := env.do(t, http.MethodGet, created.ImageURL, "", "")
	defer img.Body.Close()
	body, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, img.StatusCode)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", img.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, img.Header.Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, pngImage, body)
}

func TestCrearCliente_HTMLDeclaradoComoImagenEs400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.multipartFile(t, http.MethodPost, "/api/clientes", bearer(t, env.comercial),
		map[string]string{"titulo": "Hotel Central", "descripcion": "Desayunos"},
		"imagen", "evil.html", "image/png", []byte("<html><script>alert(document.cookie)</script></html>"))

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)

	clients, err := env.store.Clients().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestCalendario(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/entregas/calendario", bearer(t, env.logistica), "")

	var events []dto.CalendarEvent
	decode(t, resp, &events)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, events)
}
