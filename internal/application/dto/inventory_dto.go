package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustInventoryRequest body para POST /api/inventory/adjust.
// Para type=entry/exit: quantity es la cantidad a sumar/restar (> 0).
// Para type=adjustment: quantity es la cantidad absoluta resultante del conteo (>= 0).
type AdjustInventoryRequest struct {
	ProductID  string           `json:"product_id"`
	VariantID  *string          `json:"variant_id,omitempty"`
	LocationID string           `json:"location_id"`
	Type       string           `json:"type"`
	Quantity   int64            `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"` // solo entradas, actualiza costo promedio
	Notes      string           `json:"notes,omitempty"`
}

// TransferInventoryRequest body para POST /api/inventory/transfer (movimiento simple
// entre dos sucursales, sin flujo de aprobación).
type TransferInventoryRequest struct {
	ProductID      string  `json:"product_id"`
	VariantID      *string `json:"variant_id,omitempty"`
	FromLocationID string  `json:"from_location_id"`
	ToLocationID   string  `json:"to_location_id"`
	Quantity       int64   `json:"quantity"`
	Notes          string  `json:"notes,omitempty"`
}

// InventoryRecordResponse existencia de un producto en una sucursal.
type InventoryRecordResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	VariantID         *string    `json:"variant_id,omitempty"`
	LocationID        string     `json:"location_id"`
	QuantityAvailable int64      `json:"quantity_available"`
	MinStockLevel     int64      `json:"min_stock_level"`
	ReorderPoint      int64      `json:"reorder_point"`
	LastRestocked     *time.Time `json:"last_restocked,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// InventoryMovementResponse entrada del libro de movimientos.
type InventoryMovementResponse struct {
	ID             int64     `json:"id"`
	InventoryID    string    `json:"inventory_id"`
	MovementType   string    `json:"movement_type"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	PerformedBy    string    `json:"performed_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// LowStockAlertResponse producto bajo punto de reorden en una sucursal.
type LowStockAlertResponse struct {
	InventoryID       string `json:"inventory_id"`
	ProductID         string `json:"product_id"`
	VariantID         *string `json:"variant_id,omitempty"`
	LocationID        string `json:"location_id"`
	QuantityAvailable int64  `json:"quantity_available"`
	ReorderPoint      int64  `json:"reorder_point"`
	Deficit           int64  `json:"deficit"` // reorder_point - quantity_available
}
