package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU vendible (multi-sucursal).
// Cost es promedio ponderado calculado desde las entradas; el stock se maneja
// por sucursal en InventoryRecord.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxRate     decimal.Decimal // 0, 0.05, 0.19
	UnitMeasure string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant representa una variante de producto (talla, color, etc.).
type ProductVariant struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	Price     *decimal.Decimal // nil = hereda el precio del producto
	CreatedAt time.Time
	UpdatedAt time.Time
}
