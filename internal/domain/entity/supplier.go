package entity

import "time"

// Supplier proveedor de huevo. Cada proveedor despacha una única presentación en una ciudad.
type Supplier struct {
	ID           string
	Name         string // único
	NIT          string
	Contact      string
	Phone        string
	Email        string
	Active       bool
	City         string
	Presentation string
	CreatedAt    time.Time
}
