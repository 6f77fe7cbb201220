package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"      // entrada
	MovementTypeExit       = "exit"       // salida
	MovementTypeAdjustment = "adjustment" // ajuste absoluto (conteo físico)
	MovementTypeTransfer   = "transfer"   // traslado entre sucursales
	MovementTypeSale       = "sale"       // venta
)

// Tipos de referencia para movimientos.
const (
	ReferenceTypeSale         = "sale"
	ReferenceTypeTransfer     = "transfer"
	ReferenceTypeCancellation = "cancellation"
)

// InventoryMovement es una entrada inmutable del libro de movimientos: cada cambio
// de cantidad queda registrado con su antes/después. Solo se inserta, nunca se
// actualiza ni elimina. Siempre QuantityAfter = QuantityBefore + Quantity.
type InventoryMovement struct {
	ID             int64
	CompanyID      string
	InventoryID    string
	MovementType   string
	Quantity       int64 // delta con signo (positivo entrada, negativo salida)
	QuantityBefore int64
	QuantityAfter  int64
	ReferenceType  string
	ReferenceID    string
	Notes          string
	PerformedBy    string
	CreatedAt      time.Time
}
