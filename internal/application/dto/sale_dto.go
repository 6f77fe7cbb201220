package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleItemRequest línea de venta.
type CreateSaleItemRequest struct {
	ProductID string           `json:"product_id"`
	VariantID *string          `json:"variant_id,omitempty"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // nil = precio de lista del producto
}

// CreateSalePaymentRequest pago aplicado a la venta.
type CreateSalePaymentRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	LocationID string                     `json:"location_id"`
	CustomerID *string                    `json:"customer_id,omitempty"`
	Items      []CreateSaleItemRequest    `json:"items"`
	Payments   []CreateSalePaymentRequest `json:"payments,omitempty"`
}

// CancelSaleRequest body para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalePaymentResponse pago en respuestas.
type SalePaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta completa con líneas y pagos.
type SaleResponse struct {
	ID                 string                `json:"id"`
	SaleNumber         string                `json:"sale_number"`
	LocationID         string                `json:"location_id"`
	CustomerID         *string               `json:"customer_id,omitempty"`
	Status             string                `json:"status"`
	NetTotal           decimal.Decimal       `json:"net_total"`
	TaxTotal           decimal.Decimal       `json:"tax_total"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	CreatedBy          string                `json:"created_by"`
	SoldAt             time.Time             `json:"sold_at"`
	CancelledBy        string                `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	Items              []SaleItemResponse    `json:"items"`
	Payments           []SalePaymentResponse `json:"payments"`
}

// SaleListResponse respuesta paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
