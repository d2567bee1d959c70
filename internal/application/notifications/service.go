// Package notifications reparte los avisos de pedidos entre los usuarios activos
// y mantiene acotada la bandeja de cada uno.
package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// KeepPerUser notificaciones que conserva cada usuario.
const KeepPerUser = 5

// Service casos de uso de notificaciones.
type Service struct {
	users repository.UserRepository
	repo  repository.NotificationRepository
	keep  int
	log   zerolog.Logger
}

// NewService construye el servicio.
func NewService(users repository.UserRepository, repo repository.NotificationRepository, log zerolog.Logger) *Service {
	return &Service{users: users, repo: repo, keep: KeepPerUser, log: log}
}

// Broadcast crea la notificación para todos los usuarios activos y recorta
// la bandeja de cada uno a las KeepPerUser más recientes.
func (s *Service) Broadcast(ctx context.Context, ev ordering.StatusEvent) error {
	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("usuarios activos: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	n := entity.Notification{
		Message:   ev.Message,
		EventType: ev.EventType,
		PlaySound: ev.PlaySound,
	}
	if n.EventType == "" {
		n.EventType = entity.EventInfo
	}
	if err := s.repo.CreateForUsers(ctx, ids, n); err != nil {
		return fmt.Errorf("crear notificaciones: %w", err)
	}
	if _, err := s.repo.Prune(ctx, ids, s.keep); err != nil {
		return fmt.Errorf("recortar notificaciones: %w", err)
	}
	s.log.Debug().Str("event", n.EventType).Int("recipients", len(ids)).Msg("notificación enviada")
	return nil
}

// Context notificaciones no leídas (máximo 5) y total para la cabecera.
func (s *Service) Context(ctx context.Context, userID string) (*dto.NotificationContext, error) {
	items, err := s.repo.ListUnread(ctx, userID, KeepPerUser)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.NotificationContext{Items: make([]dto.NotificationResponse, 0, len(items)), Total: total}
	for _, n := range items {
		out.Items = append(out.Items, dto.NewNotificationResponse(n))
	}
	return out, nil
}

// Poll último evento con sonido del usuario.
func (s *Service) Poll(ctx context.Context, userID string) (*dto.NotificationPoll, error) {
	n, err := s.repo.LatestSound(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return &dto.NotificationPoll{}, nil
	}
	id, ts, msg := n.ID, n.CreatedAt, n.Message
	return &dto.NotificationPoll{LastEventID: &id, LastEventTS: &ts, LastEventMessage: &msg}, nil
}

// Clear elimina todas las notificaciones del usuario.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

// PruneAll recorta las bandejas de todos los usuarios (tarea nocturna).
func (s *Service) PruneAll(ctx context.Context) (int64, error) {
	return s.repo.Prune(ctx, nil, s.keep)
}
