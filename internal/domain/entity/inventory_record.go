package entity

import "time"

// InventoryRecord representa la existencia actual de un producto (y variante opcional)
// en una sucursal. Único por (company, product, variant, location); se crea de forma
// perezosa con el primer ajuste y nunca se elimina.
type InventoryRecord struct {
	ID                string
	CompanyID         string
	ProductID         string
	VariantID         *string // nil = producto sin variantes
	LocationID        string
	QuantityAvailable int64 // nunca negativa
	MinStockLevel     int64
	ReorderPoint      int64
	LastRestocked     *time.Time
	UpdatedAt         time.Time
}
