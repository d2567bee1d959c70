package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// NotificationPruner recorta las notificaciones de todos los usuarios.
type NotificationPruner interface {
	PruneAll(ctx context.Context) (int64, error)
}

// PruneNotifications conserva solo las notificaciones más recientes de cada usuario.
type PruneNotifications struct {
	pruner NotificationPruner
	log    zerolog.Logger
}

func NewPruneNotifications(pruner NotificationPruner, log zerolog.Logger) *PruneNotifications {
	return &PruneNotifications{pruner: pruner, log: log}
}

func (p *PruneNotifications) Name() string { return "limpiar_notificaciones" }

func (p *PruneNotifications) Run(ctx context.Context) error {
	n, err := p.pruner.PruneAll(ctx)
	if err != nil {
		return fmt.Errorf("limpiar notificaciones: %w", err)
	}
	if n > 0 {
		p.log.Info().Int64("eliminadas", n).Msg("notificaciones antiguas eliminadas")
	}
	return nil
}
