package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Métodos de pago aceptados en caja.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// Sale representa una venta de mostrador ya completada. Para el núcleo de
// inventario es una solicitud de descuento de stock; la cancelación restaura
// las mismas cantidades en la sucursal original.
type Sale struct {
	ID                 string
	CompanyID          string
	SaleNumber         string
	LocationID         string
	CustomerID         *string // nil = venta a consumidor final
	Status             string
	NetTotal           decimal.Decimal
	TaxTotal           decimal.Decimal
	GrandTotal         decimal.Decimal
	CreatedBy          string
	SoldAt             time.Time
	CancelledBy        string
	CancelledAt        *time.Time
	CancellationReason string
	Items              []*SaleItem
	Payments           []*SalePayment
}

// SaleItem es una línea de venta: producto, cantidad y precio al momento de vender.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	VariantID *string
	Quantity  int64
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
}

// SalePayment registra un pago aplicado a la venta (puede haber pagos mixtos).
type SalePayment struct {
	ID     string
	SaleID string
	Method string
	Amount decimal.Decimal
}
