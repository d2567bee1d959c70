package http

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
)

// formUpload archivo opcional de un formulario multipart. La función devuelta se llama
// siempre al terminar; sin archivo devuelve nil.
func formUpload(c *fiber.Ctx, field string) (*ports.Upload, func(), error) {
	noop := func() {}
	form, ferr := c.MultipartForm()
	if ferr != nil {
		return nil, noop, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, noop, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fiber.NewError(fiber.StatusBadRequest, "no se pudo leer el archivo "+field)
	}
	return uploadFrom(fh, f), func() { f.Close() }, nil
}

func uploadFrom(fh *multipart.FileHeader, f multipart.File) *ports.Upload {
	return &ports.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}
}

// formValues valores repetidos de un campo (urlencoded o multipart).
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}
	raw := c.Request().PostArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, string(v))
	}
	return out
}
