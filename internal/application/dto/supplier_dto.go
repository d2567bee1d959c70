package dto

import "time"

// SupplierRequest alta/edición de proveedor.
type SupplierRequest struct {
	Name         string `json:"nombre" form:"nombre" validate:"required,max=150"`
	NIT          string `json:"nit" form:"nit" validate:"max=30"`
	Contact      string `json:"contacto" form:"contacto" validate:"max=100"`
	Phone        string `json:"telefono" form:"telefono" validate:"max=30"`
	Email        string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Active       *bool  `json:"activo" form:"activo"`
	City         string `json:"ciudad" form:"ciudad" validate:"required,city"`
	Presentation string `json:"presentacion" form:"presentacion" validate:"required,presentation"`
}

// SupplierListQuery filtros del listado.
type SupplierListQuery struct {
	City   string `query:"ciudad"`
	Search string `query:"q"`
	PageRequest
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"nombre"`
	NIT               string    `json:"nit"`
	Contact           string    `json:"contacto"`
	Phone             string    `json:"telefono"`
	Email             string    `json:"email"`
	Active            bool      `json:"activo"`
	City              string    `json:"ciudad"`
	CityLabel         string    `json:"ciudad_label"`
	Presentation      string    `json:"presentacion"`
	PresentationLabel string    `json:"presentacion_label"`
	CreatedAt         time.Time `json:"fecha_creacion"`
}

// SupplierListResponse página de proveedores.
type SupplierListResponse struct {
	Items  []SupplierResponse `json:"proveedores"`
	Page   PageResponse       `json:"page"`
	City   string             `json:"ciudad"`
	Search string             `json:"q"`
}

// SupplierOption proveedor resumido para selectores.
type SupplierOption struct {
	ID           string `json:"id"`
	Name         string `json:"nombre"`
	City         string `json:"ciudad,omitempty"`
	Presentation string `json:"presentacion,omitempty"`
}
