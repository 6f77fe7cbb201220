package inventory

import (
	"context"

	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el cambio de cantidad y su entrada en el libro de
// movimientos se confirmen (o se reviertan) juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error

	// RunTransfer abre una transacción con los repositorios del flujo de traslados:
	// los ajustes de stock por línea y la transición de estado comparten la misma tx.
	RunTransfer(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
