package dto

import "time"

// RawMaterialRequest registro de materia prima.
type RawMaterialRequest struct {
	Date       string   `json:"fecha" form:"fecha" validate:"required,isodate"`
	EggType    string   `json:"tipo_huevo" form:"tipo_huevo" validate:"required,egg_type"`
	QuantityKg Quantity `json:"cantidad_kg" form:"cantidad_kg"`
	Notes      string   `json:"observaciones" form:"observaciones" validate:"max=2000"`
}

// RawMaterialResponse salida de un registro.
type RawMaterialResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"fecha"`
	EggType      string    `json:"tipo_huevo"`
	EggTypeLabel string    `json:"tipo_huevo_label"`
	QuantityKg   int64     `json:"cantidad_kg"`
	Notes        string    `json:"observaciones"`
	CreatedBy    string    `json:"creado_por"`
	CreatedAt    time.Time `json:"fecha_creacion"`
}
