package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	domaininv "github.com/tu-usuario/pos-pro/internal/domain/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// AdjustStockUseCase es el operador de ajustes: el único camino legítimo para
// cambiar cantidades de inventario. Cada cambio bloquea la fila
// (SELECT FOR UPDATE), aplica la operación (entry/exit/adjustment) y agrega la
// entrada del libro de movimientos dentro de la misma transacción.
type AdjustStockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	invRepo      repository.InventoryRepository
	movRepo      repository.InventoryMovementRepository
}

// NewAdjustStockUseCase construye el operador de ajustes.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		invRepo:      invRepo,
		movRepo:      movRepo,
	}
}

// AdjustInput entrada para un ajuste de inventario.
// Para entry/exit: Quantity es la cantidad a sumar/restar (> 0).
// Para adjustment: Quantity es la cantidad absoluta del conteo físico (>= 0).
type AdjustInput struct {
	CompanyID  string
	UserID     string
	ProductID  string
	VariantID  *string
	LocationID string
	Type       string // entry | exit | adjustment
	Quantity   int64
	UnitCost   *decimal.Decimal // solo entradas: recalcula costo promedio del producto
	Notes      string
}

// MovementParams agrupa los datos de un cambio de cantidad ya validado, para
// aplicarlo dentro de una transacción abierta por el caller.
type MovementParams struct {
	CompanyID     string
	ProductID     string
	VariantID     *string
	LocationID    string
	Quantity      int64  // positiva; en ApplySetInTx es la cantidad absoluta
	MovementType  string // etiqueta registrada en el libro (entry, exit, sale, transfer, adjustment)
	ReferenceType string
	ReferenceID   string
	Notes         string
	PerformedBy   string
	Now           time.Time
}

// Adjust valida y aplica un ajuste entry/exit/adjustment en una transacción.
// Devuelve el registro de inventario resultante.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.InventoryRecord, error) {
	switch in.Type {
	case entity.MovementTypeEntry, entity.MovementTypeExit:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjustment:
		if in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar que producto y sucursal existan y sean de la empresa
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}
	loc, _ := uc.locationRepo.GetByID(in.LocationID)
	if loc == nil || loc.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	params := MovementParams{
		CompanyID:    in.CompanyID,
		ProductID:    in.ProductID,
		VariantID:    in.VariantID,
		LocationID:   in.LocationID,
		Quantity:     in.Quantity,
		MovementType: in.Type,
		Notes:        in.Notes,
		PerformedBy:  in.UserID,
		Now:          now,
	}

	var record *entity.InventoryRecord
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var txErr error
		switch in.Type {
		case entity.MovementTypeEntry:
			record, txErr = uc.ApplyEntryInTx(invRepo, movRepo, params)
			if txErr != nil {
				return txErr
			}
			// Entrada con costo: recalcular costo promedio ponderado del producto.
			// El costo vigente se relee dentro de la tx: dos entradas con costo
			// concurrentes no deben promediar sobre el mismo costo viejo.
			if in.UnitCost != nil {
				current, err := productRepo.GetByID(in.ProductID)
				if err != nil {
					return err
				}
				if current == nil {
					return domain.ErrNotFound
				}
				prev := decimal.NewFromInt(record.QuantityAvailable - in.Quantity)
				newCost := domaininv.WeightedAverageCost(prev, current.Cost, decimal.NewFromInt(in.Quantity), *in.UnitCost)
				return productRepo.UpdateCost(in.ProductID, newCost)
			}
			return nil
		case entity.MovementTypeExit:
			record, txErr = uc.ApplyExitInTx(invRepo, movRepo, params)
			return txErr
		case entity.MovementTypeAdjustment:
			record, txErr = uc.ApplySetInTx(invRepo, movRepo, params)
			return txErr
		}
		return domain.ErrInvalidInput
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ApplyEntryInTx suma cantidad al registro (bloqueando la fila) y agrega la entrada
// del libro, usando los repositorios de la transacción del caller.
// Actualiza LastRestocked.
func (uc *AdjustStockUseCase) ApplyEntryInTx(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	p MovementParams,
) (*entity.InventoryRecord, error) {
	if p.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	record, err := invRepo.GetForUpdate(p.CompanyID, p.ProductID, p.VariantID, p.LocationID)
	if err != nil {
		return nil, err
	}
	before := record.QuantityAvailable
	record.QuantityAvailable = before + p.Quantity
	record.LastRestocked = &p.Now
	record.UpdatedAt = p.Now
	if err := invRepo.Upsert(record); err != nil {
		return nil, err
	}
	if err := uc.appendMovement(movRepo, record, p, p.Quantity, before); err != nil {
		return nil, err
	}
	return record, nil
}

// ApplyExitInTx resta cantidad al registro. Falla con ErrInsufficientStock si el
// resultado sería negativo: la salida se rechaza completa, sin descuento parcial.
func (uc *AdjustStockUseCase) ApplyExitInTx(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	p MovementParams,
) (*entity.InventoryRecord, error) {
	if p.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	record, err := invRepo.GetForUpdate(p.CompanyID, p.ProductID, p.VariantID, p.LocationID)
	if err != nil {
		return nil, err
	}
	before := record.QuantityAvailable
	if before-p.Quantity < 0 {
		return nil, domain.ErrInsufficientStock
	}
	record.QuantityAvailable = before - p.Quantity
	record.UpdatedAt = p.Now
	if err := invRepo.Upsert(record); err != nil {
		return nil, err
	}
	if err := uc.appendMovement(movRepo, record, p, -p.Quantity, before); err != nil {
		return nil, err
	}
	return record, nil
}

// ApplySetInTx fija la cantidad absoluta del registro (conteo físico autoritativo):
// puede subir o bajar sin chequeo de stock insuficiente.
func (uc *AdjustStockUseCase) ApplySetInTx(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	p MovementParams,
) (*entity.InventoryRecord, error) {
	if p.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	record, err := invRepo.GetForUpdate(p.CompanyID, p.ProductID, p.VariantID, p.LocationID)
	if err != nil {
		return nil, err
	}
	before := record.QuantityAvailable
	record.QuantityAvailable = p.Quantity
	record.UpdatedAt = p.Now
	if err := invRepo.Upsert(record); err != nil {
		return nil, err
	}
	if err := uc.appendMovement(movRepo, record, p, p.Quantity-before, before); err != nil {
		return nil, err
	}
	return record, nil
}

// appendMovement agrega la entrada inmutable del libro con su antes/después.
// Se ejecuta en la misma tx que el cambio de cantidad: si falla, todo se revierte
// (cada cambio de cantidad queda siempre trazado).
func (uc *AdjustStockUseCase) appendMovement(
	movRepo repository.InventoryMovementRepository,
	record *entity.InventoryRecord,
	p MovementParams,
	delta, before int64,
) error {
	return movRepo.Create(&entity.InventoryMovement{
		CompanyID:      p.CompanyID,
		InventoryID:    record.ID,
		MovementType:   p.MovementType,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  before + delta,
		ReferenceType:  p.ReferenceType,
		ReferenceID:    p.ReferenceID,
		Notes:          p.Notes,
		PerformedBy:    p.PerformedBy,
		CreatedAt:      p.Now,
	})
}

// TransferStockInput entrada para un traslado simple entre dos sucursales
// (sin flujo de aprobación).
type TransferStockInput struct {
	CompanyID      string
	UserID         string
	ProductID      string
	VariantID      *string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	Notes          string
}

// TransferStock realiza un movimiento simple: salida en origen y entrada en destino
// dentro de una sola transacción. La suma de cantidades entre ambas sucursales se
// conserva: si la entrada en destino falla, la salida en origen se revierte.
func (uc *AdjustStockUseCase) TransferStock(ctx context.Context, in TransferStockInput) error {
	if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return domain.ErrForbidden
	}
	fromLoc, _ := uc.locationRepo.GetByID(in.FromLocationID)
	toLoc, _ := uc.locationRepo.GetByID(in.ToLocationID)
	if fromLoc == nil || toLoc == nil || fromLoc.CompanyID != in.CompanyID || toLoc.CompanyID != in.CompanyID {
		return domain.ErrNotFound
	}

	now := time.Now()
	moveID := uuid.New().String() // agrupa los dos movimientos del traslado

	return uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		outParams := MovementParams{
			CompanyID:     in.CompanyID,
			ProductID:     in.ProductID,
			VariantID:     in.VariantID,
			LocationID:    in.FromLocationID,
			Quantity:      in.Quantity,
			MovementType:  entity.MovementTypeTransfer,
			ReferenceType: entity.ReferenceTypeTransfer,
			ReferenceID:   moveID,
			Notes:         in.Notes,
			PerformedBy:   in.UserID,
			Now:           now,
		}
		if _, err := uc.ApplyExitInTx(invRepo, movRepo, outParams); err != nil {
			return err
		}
		inParams := outParams
		inParams.LocationID = in.ToLocationID
		if _, err := uc.ApplyEntryInTx(invRepo, movRepo, inParams); err != nil {
			return err
		}
		return nil
	})
}

// GetQuantity devuelve el registro de inventario de la combinación exacta, o nil
// si nunca se ajustó (la lectura nunca fabrica registros).
func (uc *AdjustStockUseCase) GetQuantity(ctx context.Context, companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error) {
	return uc.invRepo.Get(companyID, productID, variantID, locationID)
}

// GetInventory lista existencias por sucursal o por producto.
func (uc *AdjustStockUseCase) GetInventory(ctx context.Context, companyID, locationID, productID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	if productID != "" {
		return uc.invRepo.ListByProduct(companyID, productID)
	}
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.invRepo.ListByLocation(companyID, locationID, limit, offset)
}

// GetLowStockAlerts lista los registros con cantidad <= punto de reorden.
// locationID vacío = todas las sucursales de la empresa.
func (uc *AdjustStockUseCase) GetLowStockAlerts(ctx context.Context, companyID, locationID string) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListBelowReorderPoint(companyID, locationID)
}

// ListMovements lista el historial de movimientos de un registro de inventario,
// del más reciente al más antiguo.
func (uc *AdjustStockUseCase) ListMovements(ctx context.Context, companyID, inventoryID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if inventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByInventory(companyID, inventoryID, limit, offset)
}

// ListProductMovements lista los movimientos de un producto en todas las
// sucursales, con rango de fechas opcional (kardex por producto).
func (uc *AdjustStockUseCase) ListProductMovements(ctx context.Context, companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.movRepo.ListByProduct(companyID, productID, from, to, limit, offset)
}
