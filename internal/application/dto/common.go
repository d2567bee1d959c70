package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jhoicas/forecast-cloud/internal/domain"
)

// DefaultPageSize tamaño de página de los listados paginados.
const DefaultPageSize = 10

// PageRequest paginación por número de página (1..n).
type PageRequest struct {
	Page int `query:"page"`
}

// Normalize página mínima 1.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
}

// Offset desplazamiento para el tamaño dado.
func (p PageRequest) Offset(size int) int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * size
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas. Si la página pedida excede el total
// se ajusta a la última (como el paginador de la versión web).
func NewPageResponse(page, size, total int) PageResponse {
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return PageResponse{Page: page, PageSize: size, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// RedirectResponse destino saneado tras una acción.
type RedirectResponse struct {
	Next string `json:"next"`
}

// Quantity entero recibido como número o texto desde JSON o formularios.
// El valor crudo se conserva para que el caso de uso decida cómo interpretarlo
// (filas vacías o no numéricas se descartan, no fallan).
type Quantity string

// UnmarshalJSON acepta 10, "10", "" y null.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

// Int64 valor entero; ok=false si está vacío o no es entero.
func (q Quantity) Int64() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(q)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
