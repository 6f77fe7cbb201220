package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// SaleUseCase crea y cancela ventas descontando/restaurando stock a través del
// operador de ajustes. Venta, líneas, pagos y movimientos de inventario se
// persisten en una sola transacción: si cualquier línea queda sin stock la venta
// completa se rechaza.
type SaleUseCase struct {
	txRunner     SaleTxRunner
	adjuster     InventoryAdjuster
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	receiptPDF   ReceiptPDFGenerator
}

// NewSaleUseCase construye el caso de uso de ventas.
func NewSaleUseCase(
	txRunner SaleTxRunner,
	adjuster InventoryAdjuster,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	receiptPDF ReceiptPDFGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		adjuster:     adjuster,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		receiptPDF:   receiptPDF,
	}
}

// CreateSale valida la venta, descuenta stock por cada línea (movement_type=sale,
// referencia a la venta) y persiste cabecera, líneas y pagos en una transacción.
// Vender un producto nunca abastecido en esa sucursal falla con ErrInsufficientStock.
func (uc *SaleUseCase) CreateSale(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.LocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	loc, _ := uc.locationRepo.GetByID(in.LocationID)
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != nil {
		customer, _ := uc.customerRepo.GetByID(*in.CustomerID)
		if customer == nil || customer.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	// Validar productos y precios (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice == nil {
			price := product.Price
			in.Items[i].UnitPrice = &price
		}
	}

	now := time.Now()
	saleID := uuid.New().String() // referencia de los movimientos (reference_id)

	// Totales con IVA por producto
	var netTotal, taxTotal decimal.Decimal
	items := make([]*entity.SaleItem, 0, len(in.Items))
	for _, item := range in.Items {
		product := productsByID[item.ProductID]
		qty := decimal.NewFromInt(item.Quantity)
		subtotal := qty.Mul(*item.UnitPrice)
		rate := normalizeTaxRate(product.TaxRate)
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(subtotal.Mul(rate))
		items = append(items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
			TaxRate:   rate,
			Subtotal:  subtotal,
		})
	}
	grandTotal := netTotal.Add(taxTotal)

	// Pagos: montos no negativos; si vienen, deben cubrir exactamente el total
	payments := make([]*entity.SalePayment, 0, len(in.Payments))
	if len(in.Payments) > 0 {
		var paid decimal.Decimal
		for _, p := range in.Payments {
			if p.Amount.LessThanOrEqual(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			paid = paid.Add(p.Amount)
			payments = append(payments, &entity.SalePayment{
				ID:     uuid.New().String(),
				SaleID: saleID,
				Method: p.Method,
				Amount: p.Amount,
			})
		}
		if !paid.Equal(grandTotal) {
			return nil, domain.ErrInvalidInput
		}
	}

	sale := &entity.Sale{
		ID:         saleID,
		CompanyID:  companyID,
		SaleNumber: newSaleNumber(now),
		LocationID: in.LocationID,
		CustomerID: in.CustomerID,
		Status:     entity.SaleStatusCompleted,
		NetTotal:   netTotal,
		TaxTotal:   taxTotal,
		GrandTotal: grandTotal,
		CreatedBy:  userID,
		SoldAt:     now,
	}

	err := uc.txRunner.RunSale(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		// 1) Descuento de stock por línea; sin stock => rollback de toda la venta
		for _, item := range items {
			params := inventory.MovementParams{
				CompanyID:     companyID,
				ProductID:     item.ProductID,
				VariantID:     item.VariantID,
				LocationID:    in.LocationID,
				Quantity:      item.Quantity,
				MovementType:  entity.MovementTypeSale,
				ReferenceType: entity.ReferenceTypeSale,
				ReferenceID:   saleID,
				PerformedBy:   userID,
				Now:           now,
			}
			if _, err := uc.adjuster.ApplyExitInTx(invRepo, movRepo, params); err != nil {
				return err
			}
		}
		// 2) Cabecera, líneas y pagos
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}
		for _, payment := range payments {
			if err := saleRepo.CreatePayment(payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sale.Items = items
	sale.Payments = payments
	return toSaleResponse(sale), nil
}

// CancelSale restaura el stock de cada línea en la sucursal original
// (movement_type=adjustment, reference_type=cancellation) y marca la venta como
// cancelada en la misma transacción. Es una acción compensatoria, no un undo
// histórico: solo reconstruye quantityAvailable. Solo procede desde completed.
func (uc *SaleUseCase) CancelSale(ctx context.Context, companyID, userID, saleID, reason string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrConflict
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale.Status = entity.SaleStatusCancelled
	sale.CancelledBy = userID
	sale.CancelledAt = &now
	sale.CancellationReason = reason

	err = uc.txRunner.RunSale(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.InventoryMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range items {
			params := inventory.MovementParams{
				CompanyID:     companyID,
				ProductID:     item.ProductID,
				VariantID:     item.VariantID,
				LocationID:    sale.LocationID,
				Quantity:      item.Quantity,
				MovementType:  entity.MovementTypeAdjustment,
				ReferenceType: entity.ReferenceTypeCancellation,
				ReferenceID:   saleID,
				Notes:         reason,
				PerformedBy:   userID,
				Now:           now,
			}
			if _, err := uc.adjuster.ApplyEntryInTx(invRepo, movRepo, params); err != nil {
				return err
			}
		}
		// Escritura condicional: solo si sigue completed (carrera entre cajeros)
		return saleRepo.MarkCancelled(sale)
	})
	if err != nil {
		return nil, err
	}
	sale.Items = items
	sale.Payments, _ = uc.saleRepo.GetPayments(saleID)
	return toSaleResponse(sale), nil
}

// GetSale devuelve la venta completa con líneas y pagos.
func (uc *SaleUseCase) GetSale(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.loadSale(companyID, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales lista ventas de la empresa, opcionalmente por sucursal.
func (uc *SaleUseCase) ListSales(ctx context.Context, companyID, locationID string, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.ListByCompany(companyID, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetSaleReceiptPDF genera el recibo PDF de la venta.
func (uc *SaleUseCase) GetSaleReceiptPDF(ctx context.Context, companyID, saleID string) ([]byte, error) {
	sale, err := uc.loadSale(companyID, saleID)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	location, _ := uc.locationRepo.GetByID(sale.LocationID)

	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		name, sku := item.ProductID, ""
		if product, _ := uc.productRepo.GetByID(item.ProductID); product != nil {
			name, sku = product.Name, product.SKU
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			SKU:         sku,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return uc.receiptPDF.GenerateReceiptPDF(ctx, sale, company, location, lines)
}

// loadSale carga la venta con líneas y pagos verificando el tenant.
func (uc *SaleUseCase) loadSale(companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if sale.Items, err = uc.saleRepo.GetItems(saleID); err != nil {
		return nil, err
	}
	if sale.Payments, err = uc.saleRepo.GetPayments(saleID); err != nil {
		return nil, err
	}
	return sale, nil
}

// normalizeTaxRate acepta tasas como fracción (0.19) o porcentaje (19).
func normalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// newSaleNumber genera el número legible de la venta: POS-YYYYMMDD-XXXXXXXX.
func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("POS-%s-%s", now.Format("20060102"), suffix)
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                 s.ID,
		SaleNumber:         s.SaleNumber,
		LocationID:         s.LocationID,
		CustomerID:         s.CustomerID,
		Status:             s.Status,
		NetTotal:           s.NetTotal,
		TaxTotal:           s.TaxTotal,
		GrandTotal:         s.GrandTotal,
		CreatedBy:          s.CreatedBy,
		SoldAt:             s.SoldAt,
		CancelledBy:        s.CancelledBy,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		Items:              make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:           make([]dto.SalePaymentResponse, 0, len(s.Payments)),
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TaxRate:   item.TaxRate,
			Subtotal:  item.Subtotal,
		})
	}
	for _, payment := range s.Payments {
		resp.Payments = append(resp.Payments, dto.SalePaymentResponse{
			ID:     payment.ID,
			Method: payment.Method,
			Amount: payment.Amount,
		})
	}
	return resp
}
