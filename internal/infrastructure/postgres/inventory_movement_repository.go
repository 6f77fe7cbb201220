package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo persiste el libro de movimientos (append-only).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador.
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create inserta un movimiento. El id es secuencial (bigserial) y lo asigna la base.
func (r *InventoryMovementRepo) Create(m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (company_id, inventory_id, movement_type,
			quantity, quantity_before, quantity_after, reference_type, reference_id,
			notes, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		m.CompanyID, m.InventoryID, m.MovementType,
		m.Quantity, m.QuantityBefore, m.QuantityAfter, m.ReferenceType, m.ReferenceID,
		m.Notes, m.PerformedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByInventory lista los movimientos de un registro, del más reciente al más antiguo.
func (r *InventoryMovementRepo) ListByInventory(companyID, inventoryID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, company_id, inventory_id, movement_type, quantity, quantity_before,
			quantity_after, reference_type, reference_id, notes, performed_by, created_at
		FROM inventory_movements
		WHERE company_id = $1 AND inventory_id = $2
		ORDER BY id DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, inventoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by inventory: %w", err)
	}
	defer rows.Close()
	return scanMovementRows(rows)
}

// ListByProduct lista movimientos de un producto en todas las sucursales,
// con rango de fechas opcional.
func (r *InventoryMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT m.id, m.company_id, m.inventory_id, m.movement_type, m.quantity,
			m.quantity_before, m.quantity_after, m.reference_type, m.reference_id,
			m.notes, m.performed_by, m.created_at
		FROM inventory_movements m
		JOIN inventory i ON i.id = m.inventory_id
		WHERE m.company_id = $1 AND i.product_id = $2`
	args := []any{companyID, productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND m.created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND m.created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY m.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovementRows(rows)
}

func scanMovementRows(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		err := rows.Scan(
			&m.ID, &m.CompanyID, &m.InventoryID, &m.MovementType, &m.Quantity,
			&m.QuantityBefore, &m.QuantityAfter, &m.ReferenceType, &m.ReferenceID,
			&m.Notes, &m.PerformedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
