package entity

import "time"

// Customer representa un cliente registrado de la empresa (ventas con cliente
// identificado; las ventas de mostrador pueden ir sin cliente).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
