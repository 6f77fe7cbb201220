package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	appinv "github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mapas + snapshot/restore para emular el rollback de la tx)
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-00000000c0ff"
	testUserID    = "00000000-0000-0000-0000-0000000000aa"
	otherCompany  = "00000000-0000-0000-0000-00000000dead"
)

func invKey(companyID, productID string, variantID *string, locationID string) string {
	v := ""
	if variantID != nil {
		v = *variantID
	}
	return companyID + "|" + productID + "|" + v + "|" + locationID
}

type saleStore struct {
	records   map[string]*entity.InventoryRecord
	movements []*entity.InventoryMovement
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	customers map[string]*entity.Customer
	companies map[string]*entity.Company
	sales     map[string]*entity.Sale
	saleItems map[string][]*entity.SaleItem
	payments  map[string][]*entity.SalePayment
}

func newSaleStore() *saleStore {
	return &saleStore{
		records:   make(map[string]*entity.InventoryRecord),
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		customers: make(map[string]*entity.Customer),
		companies: make(map[string]*entity.Company),
		sales:     make(map[string]*entity.Sale),
		saleItems: make(map[string][]*entity.SaleItem),
		payments:  make(map[string][]*entity.SalePayment),
	}
}

type saleSnapshot struct {
	records   map[string]*entity.InventoryRecord
	movements []*entity.InventoryMovement
	sales     map[string]*entity.Sale
	saleItems map[string][]*entity.SaleItem
	payments  map[string][]*entity.SalePayment
}

func (s *saleStore) snapshot() saleSnapshot {
	snap := saleSnapshot{
		records:   make(map[string]*entity.InventoryRecord, len(s.records)),
		movements: append([]*entity.InventoryMovement(nil), s.movements...),
		sales:     make(map[string]*entity.Sale, len(s.sales)),
		saleItems: make(map[string][]*entity.SaleItem, len(s.saleItems)),
		payments:  make(map[string][]*entity.SalePayment, len(s.payments)),
	}
	for k, r := range s.records {
		cp := *r
		snap.records[k] = &cp
	}
	for k, v := range s.sales {
		cp := *v
		snap.sales[k] = &cp
	}
	for k, list := range s.saleItems {
		snap.saleItems[k] = append([]*entity.SaleItem(nil), list...)
	}
	for k, list := range s.payments {
		snap.payments[k] = append([]*entity.SalePayment(nil), list...)
	}
	return snap
}

func (s *saleStore) restore(snap saleSnapshot) {
	s.records = snap.records
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.payments = snap.payments
}

// ── Repos de inventario ───────────────────────────────────────────────────────

type fakeInventoryRepo struct{ s *saleStore }

func (r *fakeInventoryRepo) Get(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[invKey(companyID, productID, variantID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeInventoryRepo) GetForUpdate(companyID, productID string, variantID *string, locationID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.s.records[invKey(companyID, productID, variantID, locationID)]; ok {
		cp := *rec
		return &cp, nil
	}
	// Creación perezosa persistida, igual que el adaptador real
	rec := &entity.InventoryRecord{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProductID:  productID,
		VariantID:  variantID,
		LocationID: locationID,
	}
	cp := *rec
	r.s.records[invKey(companyID, productID, variantID, locationID)] = &cp
	return rec, nil
}

func (r *fakeInventoryRepo) Upsert(record *entity.InventoryRecord) error {
	cp := *record
	r.s.records[invKey(record.CompanyID, record.ProductID, record.VariantID, record.LocationID)] = &cp
	return nil
}

func (r *fakeInventoryRepo) ListByLocation(companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ListByProduct(companyID, productID string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ListBelowReorderPoint(companyID, locationID string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type fakeMovementRepo struct{ s *saleStore }

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	cp.ID = int64(len(r.s.movements) + 1)
	r.s.movements = append(r.s.movements, &cp)
	m.ID = cp.ID
	return nil
}

func (r *fakeMovementRepo) ListByInventory(companyID, inventoryID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

// ── Repos de catálogo ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *saleStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }

func (r *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

type fakeLocationRepo struct{ s *saleStore }

func (r *fakeLocationRepo) Create(l *entity.Location) error { return nil }

func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLocationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	return nil, nil
}

func (r *fakeLocationRepo) Update(l *entity.Location) error { return nil }
func (r *fakeLocationRepo) Delete(id string) error          { return nil }

type fakeCustomerRepo struct{ s *saleStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { return nil }

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }

type fakeCompanyRepo struct{ s *saleStore }

func (r *fakeCompanyRepo) Create(c *entity.Company) error { return nil }

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }

// ── SaleRepository ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *saleStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	cp.Payments = nil
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	cp := *item
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], &cp)
	return nil
}

func (r *fakeSaleRepo) CreatePayment(p *entity.SalePayment) error {
	cp := *p
	r.s.payments[p.SaleID] = append(r.s.payments[p.SaleID], &cp)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	list := r.s.saleItems[saleID]
	out := make([]*entity.SaleItem, 0, len(list))
	for _, it := range list {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) GetPayments(saleID string) ([]*entity.SalePayment, error) {
	list := r.s.payments[saleID]
	out := make([]*entity.SalePayment, 0, len(list))
	for _, p := range list {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) MarkCancelled(sale *entity.Sale) error {
	cur, ok := r.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Escritura condicional: solo desde completed
	if cur.Status != entity.SaleStatusCompleted {
		return domain.ErrConflict
	}
	cp := *sale
	cp.Items = nil
	cp.Payments = nil
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) ListByCompany(companyID, locationID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.CompanyID != companyID {
			continue
		}
		if locationID != "" && sale.LocationID != locationID {
			continue
		}
		cp := *sale
		out = append(out, &cp)
	}
	return out, nil
}

// ── TxRunner y PDF ────────────────────────────────────────────────────────────

type fakeSaleTxRunner struct{ s *saleStore }

func (r *fakeSaleTxRunner) RunSale(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(&fakeInventoryRepo{r.s}, &fakeMovementRepo{r.s}, &fakeSaleRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeSaleTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(&fakeInventoryRepo{r.s}, &fakeMovementRepo{r.s}, &fakeProductRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeSaleTxRunner) RunTransfer(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.InventoryMovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return fn(&fakeInventoryRepo{r.s}, &fakeMovementRepo{r.s}, nil)
}

type fakePDFGenerator struct{}

func (g *fakePDFGenerator) GenerateReceiptPDF(
	ctx context.Context,
	sale *entity.Sale,
	company *entity.Company,
	location *entity.Location,
	lines []sales.ReceiptLine,
) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type saleFixture struct {
	store    *saleStore
	adjuster *appinv.AdjustStockUseCase
	uc       *sales.SaleUseCase
}

// newSaleFixture arma el caso de uso de ventas con el operador de ajustes real
// sobre repositorios en memoria. Producto: precio 10, IVA 19%.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	store := newSaleStore()
	store.companies[testCompanyID] = &entity.Company{ID: testCompanyID, Name: "Tiendas Acme", Status: "active"}
	store.products["prod-1"] = &entity.Product{
		ID:        "prod-1",
		CompanyID: testCompanyID,
		SKU:       "SKU-001",
		Name:      "Camiseta básica",
		Price:     decimal.NewFromInt(10),
		TaxRate:   decimal.NewFromFloat(0.19),
		Status:    "active",
	}
	store.products["prod-2"] = &entity.Product{
		ID:        "prod-2",
		CompanyID: testCompanyID,
		SKU:       "SKU-002",
		Name:      "Pantalón",
		Price:     decimal.NewFromInt(25),
		TaxRate:   decimal.NewFromFloat(0.19),
		Status:    "active",
	}
	store.locations["loc-a"] = &entity.Location{ID: "loc-a", CompanyID: testCompanyID, Name: "Tienda Centro", Status: "active"}
	store.customers["cli-1"] = &entity.Customer{ID: "cli-1", CompanyID: testCompanyID, Name: "Cliente Frecuente"}

	txRunner := &fakeSaleTxRunner{store}
	adjuster := appinv.NewAdjustStockUseCase(
		txRunner,
		&fakeProductRepo{store},
		&fakeLocationRepo{store},
		&fakeInventoryRepo{store},
		&fakeMovementRepo{store},
	)
	uc := sales.NewSaleUseCase(
		txRunner,
		adjuster,
		&fakeSaleRepo{store},
		&fakeProductRepo{store},
		&fakeLocationRepo{store},
		&fakeCustomerRepo{store},
		&fakeCompanyRepo{store},
		&fakePDFGenerator{},
	)
	return &saleFixture{store: store, adjuster: adjuster, uc: uc}
}

func (f *saleFixture) seedStock(t *testing.T, productID string, qty int64) {
	t.Helper()
	_, err := f.adjuster.Adjust(context.Background(), appinv.AdjustInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ProductID:  productID,
		LocationID: "loc-a",
		Type:       entity.MovementTypeEntry,
		Quantity:   qty,
	})
	require.NoError(t, err)
}

func (f *saleFixture) quantityAt(productID string) int64 {
	rec, ok := f.store.records[invKey(testCompanyID, productID, nil, "loc-a")]
	if !ok {
		return 0
	}
	return rec.QuantityAvailable
}

func oneItemSale(productID string, qty int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		LocationID: "loc-a",
		Items:      []dto.CreateSaleItemRequest{{ProductID: productID, Quantity: qty}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYRegistraMovimiento(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 7)

	resp, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 2))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.Regexp(t, `^POS-\d{8}-[0-9A-F]{8}$`, resp.SaleNumber)
	assert.Equal(t, int64(5), f.quantityAt("prod-1"), "vender 2 de 7 deja 5")

	// Totales: 2 × 10 = 20 neto, 19% IVA = 3.8, total 23.8
	assert.True(t, resp.NetTotal.Equal(decimal.NewFromInt(20)), "neto %s", resp.NetTotal)
	assert.True(t, resp.TaxTotal.Equal(decimal.NewFromFloat(3.8)), "impuesto %s", resp.TaxTotal)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromFloat(23.8)), "total %s", resp.GrandTotal)

	// El descuento queda trazado como venta referenciando la venta
	last := f.store.movements[len(f.store.movements)-1]
	assert.Equal(t, entity.MovementTypeSale, last.MovementType)
	assert.Equal(t, entity.ReferenceTypeSale, last.ReferenceType)
	assert.Equal(t, resp.ID, last.ReferenceID)
	assert.Equal(t, int64(-2), last.Quantity)
}

func TestCreateSale_SinStock_RechazaLaVentaCompleta(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 7)
	// prod-2 sin stock

	in := dto.CreateSaleRequest{
		LocationID: "loc-a",
		Items: []dto.CreateSaleItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	}
	_, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La línea que sí tenía stock también se revierte; nada de la venta persiste
	assert.Equal(t, int64(7), f.quantityAt("prod-1"))
	assert.Empty(t, f.store.sales)
	assert.Len(t, f.store.movements, 1, "solo queda la entrada inicial en el libro")
}

func TestCreateSale_ProductoNuncaAbastecido_StockInsuficiente(t *testing.T) {
	f := newSaleFixture(t)

	// Sin ninguna entrada previa en esa sucursal la venta se trata como stock 0
	_, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateSale_PrecioDeLista(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 5)

	// Sin precio explícito se usa el precio de lista del producto
	resp, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 1))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))

	// Precio negociado en caja: se respeta el enviado
	precio := decimal.NewFromInt(8)
	in := oneItemSale("prod-1", 1)
	in.Items[0].UnitPrice = &precio
	resp, err = f.uc.CreateSale(context.Background(), testCompanyID, testUserID, in)
	require.NoError(t, err)
	assert.True(t, resp.Items[0].UnitPrice.Equal(precio))
}

func TestCreateSale_PagosDebenCubrirElTotal(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 5)

	// 2 × 10 × 1.19 = 23.8
	in := oneItemSale("prod-1", 2)
	in.Payments = []dto.CreateSalePaymentRequest{
		{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(20)},
	}
	_, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pagos que no cubren el total se rechazan")
	assert.Equal(t, int64(5), f.quantityAt("prod-1"), "la venta rechazada no descuenta stock")

	// Pago mixto exacto: efectivo + tarjeta
	in.Payments = []dto.CreateSalePaymentRequest{
		{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(10)},
		{Method: entity.PaymentMethodCard, Amount: decimal.NewFromFloat(13.8)},
	}
	resp, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, in)
	require.NoError(t, err)
	assert.Len(t, resp.Payments, 2)
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 5)
	ctx := context.Background()

	sinItems := dto.CreateSaleRequest{LocationID: "loc-a"}
	_, err := f.uc.CreateSale(ctx, testCompanyID, testUserID, sinItems)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cantidadCero := oneItemSale("prod-1", 0)
	_, err = f.uc.CreateSale(ctx, testCompanyID, testUserID, cantidadCero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sucursalAjena := oneItemSale("prod-1", 1)
	sucursalAjena.LocationID = "loc-999"
	_, err = f.uc.CreateSale(ctx, testCompanyID, testUserID, sucursalAjena)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	clienteAjeno := oneItemSale("prod-1", 1)
	desconocido := "cli-999"
	clienteAjeno.CustomerID = &desconocido
	_, err = f.uc.CreateSale(ctx, testCompanyID, testUserID, clienteAjeno)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CancelSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_RestauraElStock(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 7)

	sold, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 2))
	require.NoError(t, err)
	require.Equal(t, int64(5), f.quantityAt("prod-1"))

	cancelled, err := f.uc.CancelSale(context.Background(), testCompanyID, testUserID, sold.ID, "cliente se arrepintió")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, "cliente se arrepintió", cancelled.CancellationReason)
	assert.Equal(t, int64(7), f.quantityAt("prod-1"), "cancelar restaura las cantidades en la sucursal original")

	// La restauración es un movimiento compensatorio, no un borrado del histórico
	last := f.store.movements[len(f.store.movements)-1]
	assert.Equal(t, entity.MovementTypeAdjustment, last.MovementType)
	assert.Equal(t, entity.ReferenceTypeCancellation, last.ReferenceType)
	assert.Equal(t, sold.ID, last.ReferenceID)
	assert.Equal(t, int64(2), last.Quantity)
	assert.Len(t, f.store.movements, 3, "entrada, venta y restauración quedan todas en el libro")
}

func TestCancelSale_SoloDesdeCompleted(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 7)
	ctx := context.Background()

	sold, err := f.uc.CreateSale(ctx, testCompanyID, testUserID, oneItemSale("prod-1", 2))
	require.NoError(t, err)

	_, err = f.uc.CancelSale(ctx, testCompanyID, testUserID, sold.ID, "primera vez")
	require.NoError(t, err)

	// Cancelar dos veces: la segunda encuentra el estado cancelled y es conflicto
	_, err = f.uc.CancelSale(ctx, testCompanyID, testUserID, sold.ID, "segunda vez")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(7), f.quantityAt("prod-1"), "la doble cancelación no duplica la restauración")
}

func TestCancelSale_OtraEmpresa_Forbidden(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 7)

	sold, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 1))
	require.NoError(t, err)

	_, err = f.uc.CancelSale(context.Background(), otherCompany, testUserID, sold.ID, "intruso")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de lectura y recibo
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSale_IncluyeLineasYPagos(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 5)

	in := oneItemSale("prod-1", 2)
	in.Payments = []dto.CreateSalePaymentRequest{
		{Method: entity.PaymentMethodCash, Amount: decimal.NewFromFloat(23.8)},
	}
	cliente := "cli-1"
	in.CustomerID = &cliente

	sold, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, in)
	require.NoError(t, err)

	got, err := f.uc.GetSale(context.Background(), testCompanyID, sold.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, &cliente, got.CustomerID)
}

func TestGetSaleReceiptPDF(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, "prod-1", 5)

	sold, err := f.uc.CreateSale(context.Background(), testCompanyID, testUserID, oneItemSale("prod-1", 1))
	require.NoError(t, err)

	pdf, err := f.uc.GetSaleReceiptPDF(context.Background(), testCompanyID, sold.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	_, err = f.uc.GetSaleReceiptPDF(context.Background(), testCompanyID, "venta-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
