package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// HTTPObserver recibe la duración de cada petición (métricas Prometheus).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

func statusOf(c *fiber.Ctx, err error) int {
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe.Code
		}
		status, _ := errorResponse(err, false)
		return status
	}
	return c.Response().StatusCode()
}

// AccessLog registra una línea por petición.
func AccessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := statusOf(c, err)
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", requestID(c)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return err
	}
}

// Metrics mide las peticiones por ruta registrada (no por path crudo).
func Metrics(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "desconocida"
		}
		obs.ObserveHTTP(c.Method(), route, statusOf(c, err), time.Since(start))
		return err
	}
}
