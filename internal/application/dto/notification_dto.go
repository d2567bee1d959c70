package dto

import "time"

// NotificationResponse notificación de la cabecera.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"mensaje"`
	EventType string    `json:"tipo_evento"`
	PlaySound bool      `json:"reproducir_sonido"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// NotificationContext no leídas (máximo 5) y su total.
type NotificationContext struct {
	Items []NotificationResponse `json:"notificaciones"`
	Total int                    `json:"total_notificaciones"`
}

// NotificationPoll último evento sonoro del usuario; campos nulos si no hay.
type NotificationPoll struct {
	LastEventID      *string    `json:"last_event_id"`
	LastEventTS      *time.Time `json:"last_event_ts"`
	LastEventMessage *string    `json:"last_event_message,omitempty"`
}
