package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// Todo registro de inventario, traslado y venta pertenece a una Company.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
