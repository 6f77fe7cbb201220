package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, company_id, transfer_number, from_location_id, to_location_id,
		transfer_type, priority, status, requested_by, requested_at,
		COALESCE(approved_by, ''), approved_at,
		COALESCE(rejected_by, ''), rejected_at, COALESCE(rejection_reason, ''),
		COALESCE(shipped_by, ''), shipped_at, COALESCE(shipping_notes, ''),
		COALESCE(received_by, ''), received_at, COALESCE(receiving_notes, ''),
		expires_at`

// Create inserta la cabecera del traslado (estado inicial pending).
func (r *TransferRepo) Create(t *entity.Transfer) error {
	query := `
		INSERT INTO inventory_transfers (id, company_id, transfer_number,
			from_location_id, to_location_id, transfer_type, priority, status,
			requested_by, requested_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.CompanyID, t.TransferNumber,
		t.FromLocationID, t.ToLocationID, t.TransferType, t.Priority, t.Status,
		t.RequestedBy, t.RequestedAt, t.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// CreateItem inserta una línea del traslado.
func (r *TransferRepo) CreateItem(item *entity.TransferItem) error {
	query := `
		INSERT INTO inventory_transfer_items (id, transfer_id, product_id, variant_id,
			quantity_requested, quantity_approved, quantity_shipped, quantity_received, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransferID, item.ProductID, item.VariantID,
		item.QuantityRequested, item.QuantityApproved, item.QuantityShipped, item.QuantityReceived,
		item.Notes,
	)
	if err != nil {
		return fmt.Errorf("create transfer item: %w", err)
	}
	return nil
}

// GetByID devuelve el traslado sin líneas; nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers WHERE id = $1`
	t, err := scanTransferRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetItems devuelve las líneas del traslado en orden de inserción.
func (r *TransferRepo) GetItems(transferID string) ([]*entity.TransferItem, error) {
	query := `
		SELECT id, transfer_id, product_id, variant_id, quantity_requested,
			quantity_approved, quantity_shipped, quantity_received, notes
		FROM inventory_transfer_items
		WHERE transfer_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("get transfer items: %w", err)
	}
	defer rows.Close()

	var items []*entity.TransferItem
	for rows.Next() {
		var it entity.TransferItem
		err := rows.Scan(
			&it.ID, &it.TransferID, &it.ProductID, &it.VariantID, &it.QuantityRequested,
			&it.QuantityApproved, &it.QuantityShipped, &it.QuantityReceived, &it.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus persiste la transición de estado de forma condicional: la fila
// solo se actualiza si el estado actual sigue siendo expectedStatus. Si otro
// caller ganó la carrera (0 filas afectadas) retorna domain.ErrConflict.
func (r *TransferRepo) UpdateStatus(t *entity.Transfer, expectedStatus string) error {
	query := `
		UPDATE inventory_transfers
		SET status = $1,
			approved_by = $2, approved_at = $3,
			rejected_by = $4, rejected_at = $5, rejection_reason = $6,
			shipped_by = $7, shipped_at = $8, shipping_notes = $9,
			received_by = $10, received_at = $11, receiving_notes = $12
		WHERE id = $13 AND status = $14`
	tag, err := r.q.Exec(context.Background(), query,
		t.Status,
		t.ApprovedBy, t.ApprovedAt,
		t.RejectedBy, t.RejectedAt, t.RejectionReason,
		t.ShippedBy, t.ShippedAt, t.ShippingNotes,
		t.ReceivedBy, t.ReceivedAt, t.ReceivingNotes,
		t.ID, expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// UpdateItemQuantities actualiza las cantidades aprobadas/despachadas/recibidas de una línea.
func (r *TransferRepo) UpdateItemQuantities(item *entity.TransferItem) error {
	query := `
		UPDATE inventory_transfer_items
		SET quantity_approved = $1, quantity_shipped = $2, quantity_received = $3
		WHERE id = $4`
	tag, err := r.q.Exec(context.Background(), query,
		item.QuantityApproved, item.QuantityShipped, item.QuantityReceived, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update transfer item quantities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve traslados de la empresa aplicando los filtros, más recientes primero.
func (r *TransferRepo) List(companyID string, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers WHERE company_id = $1`
	args := []any{companyID}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if filter.FromLocationID != "" {
		args = append(args, filter.FromLocationID)
		query += fmt.Sprintf(" AND from_location_id = $%d", len(args))
	}
	if filter.ToLocationID != "" {
		args = append(args, filter.ToLocationID)
		query += fmt.Sprintf(" AND to_location_id = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransferRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransferRow(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.TransferNumber, &t.FromLocationID, &t.ToLocationID,
		&t.TransferType, &t.Priority, &t.Status, &t.RequestedBy, &t.RequestedAt,
		&t.ApprovedBy, &t.ApprovedAt, &t.RejectedBy, &t.RejectedAt, &t.RejectionReason,
		&t.ShippedBy, &t.ShippedAt, &t.ShippingNotes, &t.ReceivedBy, &t.ReceivedAt,
		&t.ReceivingNotes, &t.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
