package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// SaleTxRunner abre una transacción con los repositorios que participan en una
// venta: descuento de stock, libro de movimientos y filas de la venta se
// confirman o revierten juntos.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// InventoryAdjuster es el operador de ajustes visto desde ventas: salidas al
// vender y entradas compensatorias al cancelar, dentro de la tx del caller.
type InventoryAdjuster interface {
	ApplyExitInTx(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		p inventory.MovementParams,
	) (*entity.InventoryRecord, error)
	ApplyEntryInTx(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		p inventory.MovementParams,
	) (*entity.InventoryRecord, error)
}

// ReceiptLine línea del recibo de venta para el generador PDF.
type ReceiptLine struct {
	ProductName string
	SKU         string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptPDFGenerator genera la representación PDF del recibo de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		company *entity.Company,
		location *entity.Location,
		lines []ReceiptLine,
	) ([]byte, error)
}
