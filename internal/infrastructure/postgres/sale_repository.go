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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, sale_number, location_id, customer_id, status,
		net_total, tax_total, grand_total, created_by, sold_at,
		COALESCE(cancelled_by, ''), cancelled_at, COALESCE(cancellation_reason, '')`

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, sale_number, location_id, customer_id,
			status, net_total, tax_total, grand_total, created_by, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CompanyID, s.SaleNumber, s.LocationID, s.CustomerID,
		s.Status, s.NetTotal, s.TaxTotal, s.GrandTotal, s.CreatedBy, s.SoldAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de la venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, variant_id, quantity,
			unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.VariantID, item.Quantity,
		item.UnitPrice, item.TaxRate, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

// CreatePayment inserta un pago de la venta.
func (r *SaleRepo) CreatePayment(p *entity.SalePayment) error {
	query := `INSERT INTO sale_payments (id, sale_id, method, amount) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, p.ID, p.SaleID, p.Method, p.Amount)
	if err != nil {
		return fmt.Errorf("create sale payment: %w", err)
	}
	return nil
}

// GetByID devuelve la venta sin líneas ni pagos; nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSaleRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de la venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, variant_id, quantity, unit_price, tax_rate, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.VariantID,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// GetPayments devuelve los pagos de la venta.
func (r *SaleRepo) GetPayments(saleID string) ([]*entity.SalePayment, error) {
	query := `SELECT id, sale_id, method, amount FROM sale_payments WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// MarkCancelled persiste la cancelación de forma condicional: solo si la venta
// sigue en completed. domain.ErrConflict si otro caller la canceló primero.
func (r *SaleRepo) MarkCancelled(s *entity.Sale) error {
	query := `
		UPDATE sales
		SET status = $1, cancelled_by = $2, cancelled_at = $3, cancellation_reason = $4
		WHERE id = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		entity.SaleStatusCancelled, s.CancelledBy, s.CancelledAt, s.CancellationReason,
		s.ID, entity.SaleStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("mark sale cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListByCompany lista ventas de la empresa, más recientes primero.
// locationID vacío = todas las sucursales.
func (r *SaleRepo) ListByCompany(companyID, locationID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1`
	args := []any{companyID}
	if locationID != "" {
		args = append(args, locationID)
		query += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY sold_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSaleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSaleRow(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.SaleNumber, &s.LocationID, &s.CustomerID, &s.Status,
		&s.NetTotal, &s.TaxTotal, &s.GrandTotal, &s.CreatedBy, &s.SoldAt,
		&s.CancelledBy, &s.CancelledAt, &s.CancellationReason,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
