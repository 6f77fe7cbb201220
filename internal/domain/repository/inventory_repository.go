package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// InventoryRepository define el puerto para consultar/actualizar existencias por
// (producto, variante, sucursal). Usado dentro de transacciones para garantizar
// consistencia; el operador de ajustes es el único escritor.
type InventoryRepository interface {
	// Get devuelve nil si nunca se registró un ajuste para esa combinación
	// (nunca fabrica un registro en lectura).
	Get(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si no existe,
	// crea y persiste la fila con cantidad 0 y la devuelve bloqueada (creación
	// perezosa): dos primeros ajustes concurrentes serializan sobre la misma fila.
	GetForUpdate(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error)
	Upsert(record *entity.InventoryRecord) error
	ListByLocation(companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)
	ListByProduct(companyID, productID string) ([]*entity.InventoryRecord, error)
	// ListBelowReorderPoint devuelve los registros con cantidad <= punto de reorden,
	// ordenados por mayor déficit primero. locationID vacío = todas las sucursales.
	ListBelowReorderPoint(companyID, locationID string) ([]*entity.InventoryRecord, error)
}
