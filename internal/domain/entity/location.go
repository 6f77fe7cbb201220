package entity

import "time"

// Location representa una sucursal o punto de venta donde se almacena y vende
// inventario (multi-sucursal).
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
