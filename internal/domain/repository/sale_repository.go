package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas, líneas y pagos.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	CreatePayment(payment *entity.SalePayment) error
	// GetByID devuelve la venta sin líneas ni pagos; nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	GetPayments(saleID string) ([]*entity.SalePayment, error)
	// MarkCancelled persiste la cancelación de forma condicional
	// (solo si el estado actual es completed); domain.ErrConflict si no.
	MarkCancelled(sale *entity.Sale) error
	ListByCompany(companyID, locationID string, limit, offset int) ([]*entity.Sale, error)
}
