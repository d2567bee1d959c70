package entity

import "time"

// Client cliente publicado en la sección de clientes (título, descripción e imagen).
type Client struct {
	ID          string
	Title       string
	Description string
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
