package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// TransferFilter filtros para listar traslados.
type TransferFilter struct {
	Statuses       []string
	FromLocationID string
	ToLocationID   string
	Limit          int
	Offset         int
}

// TransferRepository define el puerto de persistencia para traslados y sus líneas.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	CreateItem(item *entity.TransferItem) error
	// GetByID devuelve el traslado sin líneas; nil si no existe.
	GetByID(id string) (*entity.Transfer, error)
	GetItems(transferID string) ([]*entity.TransferItem, error)
	// UpdateStatus persiste la transición de estado de forma condicional:
	// UPDATE ... SET status = transfer.Status WHERE id = ... AND status = expectedStatus.
	// Si ninguna fila coincide (otro caller ganó la carrera) retorna domain.ErrConflict.
	UpdateStatus(transfer *entity.Transfer, expectedStatus string) error
	// UpdateItemQuantities actualiza las cantidades aprobadas/despachadas/recibidas de una línea.
	UpdateItemQuantities(item *entity.TransferItem) error
	List(companyID string, filter TransferFilter) ([]*entity.Transfer, error)
}
