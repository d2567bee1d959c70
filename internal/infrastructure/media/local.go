// Package media almacenamiento de imágenes subidas (disco local o S3).
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/pkg/config"
)

var _ ports.MediaStore = (*LocalStore)(nil)

// LocalStore guarda archivos bajo un directorio raíz servido como estático.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore crea el directorio raíz si no existe.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("media: crear %s: %w", root, err)
	}
	return &LocalStore{root: root, baseURL: normalizeBase(baseURL)}, nil
}

// Root directorio de trabajo.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Save(ctx context.Context, folder string, up ports.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := newKey(folder, up.ContentType)
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("media: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("media: %w", err)
	}
	if _, err := io.Copy(f, up.Body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("media: escribir %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("media: %w", err)
	}
	return key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	clean, ok := cleanKey(key)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + key
}

// extensions tipos aceptados y su extensión en disco. Cualquier otro se
// guarda como .bin para que el estático lo sirva como octet-stream.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// newKey genera folder/<uuid><ext>. La extensión sale del tipo de contenido,
// nunca del nombre que envió el cliente.
func newKey(folder, contentType string) string {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))]
	if !ok {
		ext = ".bin"
	}
	folder = strings.Trim(folder, "/")
	name := uuid.NewString() + ext
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// cleanKey rechaza claves vacías o que escapen del directorio raíz.
func cleanKey(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", false
	}
	return clean, true
}

func normalizeBase(u string) string {
	if u == "" {
		return "/"
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// New elige el backend según MEDIA_BACKEND.
func New(ctx context.Context, cfg config.MediaConfig) (ports.MediaStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return NewLocalStore(cfg.Root, cfg.URL)
	}
}
