package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// Vigencia por defecto de una solicitud de traslado.
const defaultTransferTTL = 24 * time.Hour

// TransferWorkflowUseCase implementa el flujo de traslados entre sucursales:
// solicitud → aprobación/rechazo → despacho → recepción. Los cambios de cantidad
// los delega al operador de ajustes; cada transición de estado es una escritura
// condicional (status actual = esperado) para que dos callers concurrentes no
// puedan aplicar la misma transición dos veces.
type TransferWorkflowUseCase struct {
	txRunner     TxRunner
	adjuster     *AdjustStockUseCase
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewTransferWorkflowUseCase construye el motor de traslados.
func NewTransferWorkflowUseCase(
	txRunner TxRunner,
	adjuster *AdjustStockUseCase,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *TransferWorkflowUseCase {
	return &TransferWorkflowUseCase{
		txRunner:     txRunner,
		adjuster:     adjuster,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateTransferItemInput línea solicitada.
type CreateTransferItemInput struct {
	ProductID         string
	VariantID         *string
	QuantityRequested int64
	Notes             string
}

// CreateTransferInput entrada para crear la solicitud de traslado.
type CreateTransferInput struct {
	CompanyID      string
	UserID         string
	FromLocationID string
	ToLocationID   string
	TransferType   string
	Priority       string
	ExpiresAt      *time.Time
	Items          []CreateTransferItemInput
}

// CreateTransfer crea la solicitud en estado pending con número único y vigencia
// por defecto de 24h. No tiene efecto sobre inventario.
func (uc *TransferWorkflowUseCase) CreateTransfer(ctx context.Context, in CreateTransferInput) (*entity.Transfer, error) {
	if in.FromLocationID == "" || in.ToLocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	fromLoc, _ := uc.locationRepo.GetByID(in.FromLocationID)
	toLoc, _ := uc.locationRepo.GetByID(in.ToLocationID)
	if fromLoc == nil || toLoc == nil || fromLoc.CompanyID != in.CompanyID || toLoc.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.QuantityRequested <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != in.CompanyID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	expiresAt := now.Add(defaultTransferTTL)
	if in.ExpiresAt != nil {
		expiresAt = *in.ExpiresAt
	}
	transferType := in.TransferType
	if transferType == "" {
		transferType = entity.TransferTypeStandard
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.TransferPriorityNormal
	}

	transfer := &entity.Transfer{
		ID:             uuid.New().String(),
		CompanyID:      in.CompanyID,
		TransferNumber: newTransferNumber(now),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		TransferType:   transferType,
		Priority:       priority,
		Status:         entity.TransferStatusPending,
		RequestedBy:    in.UserID,
		RequestedAt:    now,
		ExpiresAt:      expiresAt,
	}
	for _, it := range in.Items {
		transfer.Items = append(transfer.Items, &entity.TransferItem{
			ID:                uuid.New().String(),
			TransferID:        transfer.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityRequested: it.QuantityRequested,
			Notes:             it.Notes,
		})
	}

	// Cabecera y líneas en una sola transacción
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.InventoryRepository,
		_ repository.InventoryMovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		if err := transferRepo.Create(transfer); err != nil {
			return err
		}
		for _, item := range transfer.Items {
			if err := transferRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// newTransferNumber genera el número legible único: TRF-YYYYMMDD-XXXXXXXX.
func newTransferNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), suffix)
}

// ApproveTransfer fija las cantidades aprobadas por línea (<= solicitadas) y pasa
// el traslado de pending a approved. Sin efecto sobre inventario.
func (uc *TransferWorkflowUseCase) ApproveTransfer(ctx context.Context, companyID, userID, transferID string, quantities map[string]int64) (*entity.Transfer, error) {
	transfer, items, err := uc.loadForUpdate(companyID, transferID, entity.TransferStatusPending)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		qty := item.QuantityRequested // sin cantidades explícitas: se aprueba todo
		if quantities != nil {
			q, ok := quantities[item.ID]
			if !ok {
				q = 0 // línea no aprobada
			}
			qty = q
		}
		if qty < 0 || qty > item.QuantityRequested {
			return nil, domain.ErrInvalidInput
		}
		item.QuantityApproved = qty
	}

	now := time.Now()
	transfer.Status = entity.TransferStatusApproved
	transfer.ApprovedBy = userID
	transfer.ApprovedAt = &now

	err = uc.txRunner.RunTransfer(ctx, func(
		_ repository.InventoryRepository,
		_ repository.InventoryMovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		for _, item := range items {
			if err := transferRepo.UpdateItemQuantities(item); err != nil {
				return err
			}
		}
		return transferRepo.UpdateStatus(transfer, entity.TransferStatusPending)
	})
	if err != nil {
		return nil, err
	}
	transfer.Items = items
	return transfer, nil
}

// RejectTransfer pasa el traslado de pending a rejected (terminal). Requiere motivo.
func (uc *TransferWorkflowUseCase) RejectTransfer(ctx context.Context, companyID, userID, transferID, reason string) (*entity.Transfer, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	transfer, items, err := uc.loadForUpdate(companyID, transferID, entity.TransferStatusPending)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	transfer.Status = entity.TransferStatusRejected
	transfer.RejectedBy = userID
	transfer.RejectedAt = &now
	transfer.RejectionReason = reason
	if err := uc.transferRepo.UpdateStatus(transfer, entity.TransferStatusPending); err != nil {
		return nil, err
	}
	transfer.Items = items
	return transfer, nil
}

// ShipTransfer fija las cantidades despachadas (<= aprobadas) y, por cada línea con
// cantidad > 0, registra la salida en la sucursal origen referenciando el traslado.
// Salidas, líneas y transición approved→in_transit comparten una transacción: un
// stock insuficiente a mitad del recorrido revierte todo el despacho.
func (uc *TransferWorkflowUseCase) ShipTransfer(ctx context.Context, companyID, userID, transferID string, quantities map[string]int64, notes string) (*entity.Transfer, error) {
	transfer, items, err := uc.loadForUpdate(companyID, transferID, entity.TransferStatusApproved)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		qty := item.QuantityApproved // sin cantidades explícitas: se despacha lo aprobado
		if quantities != nil {
			q, ok := quantities[item.ID]
			if !ok {
				q = 0 // línea no despachada
			}
			qty = q
		}
		if qty < 0 || qty > item.QuantityApproved {
			return nil, domain.ErrInvalidInput
		}
		item.QuantityShipped = qty
	}

	now := time.Now()
	transfer.Status = entity.TransferStatusInTransit
	transfer.ShippedBy = userID
	transfer.ShippedAt = &now
	transfer.ShippingNotes = notes

	err = uc.txRunner.RunTransfer(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		for _, item := range items {
			if item.QuantityShipped > 0 {
				params := MovementParams{
					CompanyID:     companyID,
					ProductID:     item.ProductID,
					VariantID:     item.VariantID,
					LocationID:    transfer.FromLocationID,
					Quantity:      item.QuantityShipped,
					MovementType:  entity.MovementTypeTransfer,
					ReferenceType: entity.ReferenceTypeTransfer,
					ReferenceID:   transfer.ID,
					Notes:         notes,
					PerformedBy:   userID,
					Now:           now,
				}
				if _, err := uc.adjuster.ApplyExitInTx(invRepo, movRepo, params); err != nil {
					return err
				}
			}
			if err := transferRepo.UpdateItemQuantities(item); err != nil {
				return err
			}
		}
		return transferRepo.UpdateStatus(transfer, entity.TransferStatusApproved)
	})
	if err != nil {
		return nil, err
	}
	transfer.Items = items
	return transfer, nil
}

// ReceiveTransfer fija las cantidades recibidas (<= despachadas) y registra la
// entrada en la sucursal destino por cada línea con cantidad > 0, en una sola
// transacción con la transición de estado. El estado final es received si toda
// línea recibió lo despachado, o partially_received si quedó faltante.
func (uc *TransferWorkflowUseCase) ReceiveTransfer(ctx context.Context, companyID, userID, transferID string, quantities map[string]int64, notes string) (*entity.Transfer, error) {
	transfer, items, err := uc.loadForUpdate(companyID, transferID, entity.TransferStatusInTransit)
	if err != nil {
		return nil, err
	}
	fullyReceived := true
	for _, item := range items {
		qty := item.QuantityShipped // sin cantidades explícitas: se recibe todo lo despachado
		if quantities != nil {
			qty = quantities[item.ID]
		}
		if qty < 0 || qty > item.QuantityShipped {
			return nil, domain.ErrInvalidInput
		}
		item.QuantityReceived = qty
		if qty < item.QuantityShipped {
			fullyReceived = false
		}
	}

	now := time.Now()
	if fullyReceived {
		transfer.Status = entity.TransferStatusReceived
	} else {
		transfer.Status = entity.TransferStatusPartiallyReceived
	}
	transfer.ReceivedBy = userID
	transfer.ReceivedAt = &now
	transfer.ReceivingNotes = notes

	err = uc.txRunner.RunTransfer(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		for _, item := range items {
			if item.QuantityReceived > 0 {
				params := MovementParams{
					CompanyID:     companyID,
					ProductID:     item.ProductID,
					VariantID:     item.VariantID,
					LocationID:    transfer.ToLocationID,
					Quantity:      item.QuantityReceived,
					MovementType:  entity.MovementTypeTransfer,
					ReferenceType: entity.ReferenceTypeTransfer,
					ReferenceID:   transfer.ID,
					Notes:         notes,
					PerformedBy:   userID,
					Now:           now,
				}
				if _, err := uc.adjuster.ApplyEntryInTx(invRepo, movRepo, params); err != nil {
					return err
				}
			}
			if err := transferRepo.UpdateItemQuantities(item); err != nil {
				return err
			}
		}
		return transferRepo.UpdateStatus(transfer, entity.TransferStatusInTransit)
	})
	if err != nil {
		return nil, err
	}
	transfer.Items = items
	return transfer, nil
}

// CancelTransfer cancela un traslado que aún no se despachó (pending o approved).
// En cualquier otro estado retorna ErrConflict sin efecto. Sin impacto en
// inventario: el despacho, único paso que mueve stock, no ha ocurrido.
func (uc *TransferWorkflowUseCase) CancelTransfer(ctx context.Context, companyID, userID, transferID, reason string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !transfer.IsCancellable() {
		return nil, domain.ErrConflict
	}
	previous := transfer.Status
	now := time.Now()
	transfer.Status = entity.TransferStatusCancelled
	transfer.RejectedBy = userID
	transfer.RejectedAt = &now
	transfer.RejectionReason = reason
	if err := uc.transferRepo.UpdateStatus(transfer, previous); err != nil {
		return nil, err
	}
	transfer.Items, _ = uc.transferRepo.GetItems(transfer.ID)
	return transfer, nil
}

// GetTransfer devuelve el traslado con sus líneas.
func (uc *TransferWorkflowUseCase) GetTransfer(ctx context.Context, companyID, transferID string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.transferRepo.GetItems(transferID)
	if err != nil {
		return nil, err
	}
	transfer.Items = items
	return transfer, nil
}

// ListTransfers lista traslados de la empresa con filtros de estado y sucursal.
func (uc *TransferWorkflowUseCase) ListTransfers(ctx context.Context, companyID string, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(companyID, filter)
}

// GetPendingForLocation lista los traslados salientes aún sin despachar de una sucursal.
func (uc *TransferWorkflowUseCase) GetPendingForLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(companyID, repository.TransferFilter{
		FromLocationID: locationID,
		Statuses:       []string{entity.TransferStatusPending, entity.TransferStatusApproved},
		Limit:          limit,
		Offset:         offset,
	})
}

// GetIncoming lista los traslados en tránsito hacia una sucursal.
func (uc *TransferWorkflowUseCase) GetIncoming(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(companyID, repository.TransferFilter{
		ToLocationID: locationID,
		Statuses:     []string{entity.TransferStatusInTransit},
		Limit:        limit,
		Offset:       offset,
	})
}

// loadForUpdate carga traslado y líneas verificando tenant y estado actual.
// El estado se revalida con la escritura condicional al persistir la transición.
func (uc *TransferWorkflowUseCase) loadForUpdate(companyID, transferID, expectedStatus string) (*entity.Transfer, []*entity.TransferItem, error) {
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, nil, err
	}
	if transfer == nil {
		return nil, nil, domain.ErrNotFound
	}
	if transfer.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	if transfer.Status != expectedStatus {
		return nil, nil, domain.ErrConflict
	}
	items, err := uc.transferRepo.GetItems(transferID)
	if err != nil {
		return nil, nil, err
	}
	return transfer, items, nil
}
