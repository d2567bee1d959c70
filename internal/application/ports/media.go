package ports

import (
	"context"
	"io"
)

// Upload archivo recibido en un formulario multipart.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaStore almacenamiento de imágenes (disco local o S3).
type MediaStore interface {
	// Save guarda el archivo bajo folder y devuelve la clave generada.
	Save(ctx context.Context, folder string, up Upload) (string, error)
	// Delete elimina el objeto; una clave inexistente no es error.
	Delete(ctx context.Context, key string) error
	// URL pública del objeto (vacía si key es vacía).
	URL(key string) string
}
