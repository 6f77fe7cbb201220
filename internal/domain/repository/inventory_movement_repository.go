package repository

import (
	"time"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el libro de
// movimientos. Solo inserta y consulta: no existe actualización ni borrado.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	// ListByInventory lista los movimientos de un registro de inventario,
	// del más reciente al más antiguo.
	ListByInventory(companyID, inventoryID string, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
