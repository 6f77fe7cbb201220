package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, company_id, product_id, variant_id, location_id,
		quantity_available, min_stock_level, reorder_point, last_restocked, updated_at`

// Get obtiene el registro de la combinación exacta; nil si nunca se ajustó.
func (r *InventoryRepo) Get(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE company_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3 AND location_id = $4`
	rec, err := scanInventoryRow(r.q.QueryRow(context.Background(), query, companyID, productID, variantID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) para
// evitar lost updates entre ajustes concurrentes. Si no existe, inserta primero
// la fila con cantidad 0 (creación perezosa) y la vuelve a leer con el lock:
// dos primeros ajustes concurrentes sobre la misma combinación terminan
// serializados sobre la misma fila en vez de pisarse mutuamente.
func (r *InventoryRepo) GetForUpdate(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE company_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3 AND location_id = $4
		FOR UPDATE`
	rec, err := scanInventoryRow(r.q.QueryRow(context.Background(), query, companyID, productID, variantID, locationID))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}

	// DO NOTHING: si otra tx insertó la fila primero, la relectura la bloquea
	insert := `
		INSERT INTO inventory (id, company_id, product_id, variant_id, location_id,
			quantity_available, min_stock_level, reorder_point, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, now())
		ON CONFLICT (company_id, product_id, variant_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert,
		uuid.New().String(), companyID, productID, variantID, locationID,
	); err != nil {
		return nil, fmt.Errorf("create inventory for update: %w", err)
	}
	rec, err = scanInventoryRow(r.q.QueryRow(context.Background(), query, companyID, productID, variantID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return rec, nil
}

// Upsert inserta o actualiza el registro (por empresa, producto, variante y sucursal).
func (r *InventoryRepo) Upsert(record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory (id, company_id, product_id, variant_id, location_id,
			quantity_available, min_stock_level, reorder_point, last_restocked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (company_id, product_id, variant_id, location_id)
		DO UPDATE SET quantity_available = EXCLUDED.quantity_available,
			min_stock_level = EXCLUDED.min_stock_level,
			reorder_point = EXCLUDED.reorder_point,
			last_restocked = EXCLUDED.last_restocked,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.CompanyID, record.ProductID, record.VariantID, record.LocationID,
		record.QuantityAvailable, record.MinStockLevel, record.ReorderPoint, record.LastRestocked,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// ListByLocation lista existencias de una sucursal.
func (r *InventoryRepo) ListByLocation(companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE company_id = $1 AND location_id = $2
		ORDER BY product_id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by location: %w", err)
	}
	defer rows.Close()
	return scanInventoryRows(rows)
}

// ListByProduct lista las existencias de un producto en todas las sucursales.
func (r *InventoryRepo) ListByProduct(companyID, productID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE company_id = $1 AND product_id = $2
		ORDER BY location_id`
	rows, err := r.q.Query(context.Background(), query, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	defer rows.Close()
	return scanInventoryRows(rows)
}

// ListBelowReorderPoint lista los registros con cantidad <= punto de reorden,
// ordenados por mayor déficit primero. locationID vacío = todas las sucursales.
func (r *InventoryRepo) ListBelowReorderPoint(companyID, locationID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE company_id = $1 AND quantity_available <= reorder_point`
	args := []any{companyID}
	if locationID != "" {
		query += ` AND location_id = $2`
		args = append(args, locationID)
	}
	query += ` ORDER BY (reorder_point - quantity_available) DESC`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below reorder point: %w", err)
	}
	defer rows.Close()
	return scanInventoryRows(rows)
}

func scanInventoryRow(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.ProductID, &rec.VariantID, &rec.LocationID,
		&rec.QuantityAvailable, &rec.MinStockLevel, &rec.ReorderPoint, &rec.LastRestocked, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanInventoryRows(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanInventoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
