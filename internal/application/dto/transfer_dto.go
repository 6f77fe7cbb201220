package dto

import "time"

// CreateTransferItemRequest línea de una solicitud de traslado.
type CreateTransferItemRequest struct {
	ProductID         string  `json:"product_id"`
	VariantID         *string `json:"variant_id,omitempty"`
	QuantityRequested int64   `json:"quantity_requested"`
	Notes             string  `json:"notes,omitempty"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                      `json:"from_location_id"`
	ToLocationID   string                      `json:"to_location_id"`
	TransferType   string                      `json:"transfer_type,omitempty"`
	Priority       string                      `json:"priority,omitempty"`
	ExpiresAt      *time.Time                  `json:"expires_at,omitempty"` // default: 24h desde la solicitud
	Items          []CreateTransferItemRequest `json:"items"`
}

// TransferItemQuantity cantidad por línea para aprobar/despachar/recibir.
type TransferItemQuantity struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// ApproveTransferRequest body para POST /api/transfers/:id/approve.
type ApproveTransferRequest struct {
	Items []TransferItemQuantity `json:"items"`
}

// RejectTransferRequest body para POST /api/transfers/:id/reject.
type RejectTransferRequest struct {
	Reason string `json:"reason"`
}

// ShipTransferRequest body para POST /api/transfers/:id/ship.
type ShipTransferRequest struct {
	Items []TransferItemQuantity `json:"items"`
	Notes string                 `json:"notes,omitempty"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
type ReceiveTransferRequest struct {
	Items []TransferItemQuantity `json:"items"`
	Notes string                 `json:"notes,omitempty"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// TransferItemResponse línea de traslado con sus cuatro cantidades.
type TransferItemResponse struct {
	ID                string  `json:"id"`
	ProductID         string  `json:"product_id"`
	VariantID         *string `json:"variant_id,omitempty"`
	QuantityRequested int64   `json:"quantity_requested"`
	QuantityApproved  int64   `json:"quantity_approved"`
	QuantityShipped   int64   `json:"quantity_shipped"`
	QuantityReceived  int64   `json:"quantity_received"`
	Notes             string  `json:"notes,omitempty"`
}

// TransferResponse traslado completo con líneas.
type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromLocationID  string                 `json:"from_location_id"`
	ToLocationID    string                 `json:"to_location_id"`
	TransferType    string                 `json:"transfer_type"`
	Priority        string                 `json:"priority"`
	Status          string                 `json:"status"`
	RequestedBy     string                 `json:"requested_by"`
	RequestedAt     time.Time              `json:"requested_at"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	RejectedBy      string                 `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	ShippedBy       string                 `json:"shipped_by,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	ShippingNotes   string                 `json:"shipping_notes,omitempty"`
	ReceivedBy      string                 `json:"received_by,omitempty"`
	ReceivedAt      *time.Time             `json:"received_at,omitempty"`
	ReceivingNotes  string                 `json:"receiving_notes,omitempty"`
	ExpiresAt       time.Time              `json:"expires_at"`
	Items           []TransferItemResponse `json:"items"`
}

// TransferListResponse respuesta paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
