// Package jobs tareas periódicas: resumen diario de entregas y limpieza de notificaciones.
package jobs

import "context"

// Job tarea que ejecuta el planificador.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}
