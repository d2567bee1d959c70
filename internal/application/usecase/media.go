package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
)

// MaxImageSize tamaño máximo de imágenes subidas (5 MiB).
const MaxImageSize = 5 << 20

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniffLen bytes que examina http.DetectContentType.
const sniffLen = 512

// checkImage valida tamaño y tipo de una imagen subida. El tipo se detecta
// por contenido; el Content-Type y el nombre que declara el cliente se ignoran.
// Deja en up.ContentType el tipo detectado y en up.Body el contenido completo.
func checkImage(field string, up *ports.Upload) error {
	if up.Size > MaxImageSize {
		return domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: field, Message: "La imagen no puede superar 5 MB."})
	}
	if up.Body == nil {
		return domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: field, Message: "Sube una imagen válida (JPG, PNG, GIF o WEBP)."})
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("leer %s: %w", field, err)
	}
	head = head[:n]
	ct := http.DetectContentType(head)
	if !imageTypes[ct] {
		return domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: field, Message: "Sube una imagen válida (JPG, PNG, GIF o WEBP)."})
	}
	up.ContentType = ct
	up.Body = io.MultiReader(bytes.NewReader(head), up.Body)
	return nil
}

func photoURL(media ports.MediaStore, key string) string {
	if media == nil || key == "" {
		return ""
	}
	return media.URL(key)
}

// removeMedia borra un objeto; el fallo solo se registra.
func removeMedia(ctx context.Context, media ports.MediaStore, log zerolog.Logger, key string) {
	if media == nil || key == "" {
		return
	}
	if err := media.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo eliminar el archivo")
	}
}
