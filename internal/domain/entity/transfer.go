package entity

import "time"

// Estados del ciclo de vida de un traslado. Las transiciones son unidireccionales:
// ningún estado se vuelve a visitar.
//
//	pending → approved → in_transit → received | partially_received
//	pending → rejected
//	pending|approved → cancelled
const (
	TransferStatusPending           = "pending"
	TransferStatusApproved          = "approved"
	TransferStatusRejected          = "rejected"
	TransferStatusInTransit         = "in_transit"
	TransferStatusReceived          = "received"
	TransferStatusPartiallyReceived = "partially_received"
	TransferStatusCancelled         = "cancelled"
)

// Tipos y prioridades de traslado.
const (
	TransferTypeStandard   = "standard"
	TransferTypeRestock    = "restock"
	TransferTypeReturn     = "return"
	TransferPriorityLow    = "low"
	TransferPriorityNormal = "normal"
	TransferPriorityHigh   = "high"
	TransferPriorityUrgent = "urgent"
)

// Transfer representa una solicitud de traslado de stock entre dos sucursales,
// con flujo solicitud → aprobación/rechazo → despacho → recepción.
type Transfer struct {
	ID              string
	CompanyID       string
	TransferNumber  string // único, legible (TRF-YYYYMMDD-XXXXXXXX)
	FromLocationID  string
	ToLocationID    string
	TransferType    string
	Priority        string
	Status          string
	RequestedBy     string
	RequestedAt     time.Time
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectedBy      string
	RejectedAt      *time.Time
	RejectionReason string
	ShippedBy       string
	ShippedAt       *time.Time
	ShippingNotes   string
	ReceivedBy      string
	ReceivedAt      *time.Time
	ReceivingNotes  string
	ExpiresAt       time.Time
	Items           []*TransferItem
}

// TransferItem es una línea del traslado. Invariantes (una vez fijada cada cantidad):
// QuantityApproved ≤ QuantityRequested, QuantityShipped ≤ QuantityApproved,
// QuantityReceived ≤ QuantityShipped.
type TransferItem struct {
	ID                string
	TransferID        string
	ProductID         string
	VariantID         *string
	QuantityRequested int64
	QuantityApproved  int64
	QuantityShipped   int64
	QuantityReceived  int64
	Notes             string
}

// IsCancellable indica si el traslado admite cancelación (solo antes del despacho,
// que es el primer paso con efecto sobre inventario).
func (t *Transfer) IsCancellable() bool {
	return t.Status == TransferStatusPending || t.Status == TransferStatusApproved
}
