package dto

import "time"

// ClientRequest alta/edición de cliente (la imagen llega como archivo multipart).
type ClientRequest struct {
	Title       string `json:"titulo" form:"titulo" validate:"required,max=100"`
	Description string `json:"descripcion" form:"descripcion" validate:"required,max=500"`
	RemoveImage bool   `json:"eliminar_imagen" form:"eliminar_imagen"`
}

// ClientResponse salida de cliente.
type ClientResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	ImageURL    string    `json:"imagen,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
