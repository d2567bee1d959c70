package http

import (
	"strings"
)

// Rutas con nombre de la interfaz web; `next` puede referirse a ellas por nombre.
var namedRoutes = map[string]string{
	"inicio":                 "/",
	"login":                  "/login/",
	"clientesweb":            "/clientesweb/",
	"crearcliente":           "/crearcliente/",
	"editartablas":           "/editartablas/",
	"proveedores":            "/proveedores/",
	"crearproveedor":         "/proveedores/crear/",
	"usuarios":               "/usuarios/",
	"usuariocrear":           "/usuarios/crear/",
	"mi_perfil":              "/mi-perfil/",
	"crearpedido":            "/crearpedido/",
	"crear_materia_prima":    "/pedidos/materia-prima/",
	"editar_pedidos":         "/pedidos/editar/",
	"resumen_pedidos":        "/pedidos/resumen/",
	"panel_produccion":       "/pedidos/produccion/",
	"panel_logistica":        "/pedidos/logistica/",
	"notificaciones_pedidos": "/pedidos/notificaciones/",
	"historial":              "/pedidos/historial/",
	"registros_pedidos":      "/pedidos/registros/",
}

// Destinos por defecto.
const (
	DefaultLoginNext  = "inicio"
	DefaultStatusNext = "editartablas"
)

// RoutePath ruta del nombre dado ("" si no existe).
func RoutePath(name string) string { return namedRoutes[name] }

// ResolveNext sanea el destino tras una acción. Solo se aceptan rutas locales
// absolutas o nombres de ruta conocidos; cualquier otro valor lleva a defaultName.
func ResolveNext(next, defaultName string) string {
	fallback := namedRoutes[defaultName]
	if fallback == "" {
		fallback = "/"
	}
	next = strings.TrimSpace(next)
	if next == "" {
		return fallback
	}
	if isOffsite(next) {
		return fallback
	}
	if strings.HasPrefix(next, "/") {
		return next
	}
	if p, ok := namedRoutes[next]; ok {
		return p
	}
	return fallback
}

// SanitizeNext para el formulario de login: los destinos externos se descartan.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if isOffsite(next) {
		return ""
	}
	return next
}

func isOffsite(next string) bool {
	lower := strings.ToLower(next)
	for _, p := range []string{"http://", "https://", "//", `\`, "/\\"} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	// esquemas como javascript: o mailto:
	if i := strings.IndexByte(lower, ':'); i > 0 {
		if j := strings.IndexAny(lower, "/?#"); j == -1 || i < j {
			return true
		}
	}
	return strings.ContainsAny(next, "\r\n\t")
}
