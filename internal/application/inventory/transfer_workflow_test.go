package inventory_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture del flujo de traslados (reutiliza los fakes de usecase_test.go)
// ──────────────────────────────────────────────────────────────────────────────

type workflowFixture struct {
	*fixture
	wf *appinv.TransferWorkflowUseCase
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	f := newFixture(t)
	wf := appinv.NewTransferWorkflowUseCase(
		&fakeTxRunner{f.store},
		f.uc,
		&fakeTransferRepo{f.store},
		&fakeProductRepo{f.store},
		&fakeLocationRepo{f.store},
	)
	return &workflowFixture{fixture: f, wf: wf}
}

// createTransfer crea una solicitud estándar de una línea prod-1 loc-a → loc-b.
func (f *workflowFixture) createTransfer(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	transfer, err := f.wf.CreateTransfer(context.Background(), appinv.CreateTransferInput{
		CompanyID:      testCompanyID,
		UserID:         testUserID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Items: []appinv.CreateTransferItemInput{
			{ProductID: "prod-1", QuantityRequested: qty},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, transfer)
	return transfer
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateTransfer
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_CreaSolicitudPending(t *testing.T) {
	f := newWorkflowFixture(t)
	before := time.Now()

	transfer := f.createTransfer(t, 5)

	assert.Equal(t, entity.TransferStatusPending, transfer.Status)
	assert.Equal(t, entity.TransferTypeStandard, transfer.TransferType, "sin tipo explícito se usa standard")
	assert.Equal(t, entity.TransferPriorityNormal, transfer.Priority)
	assert.Regexp(t, regexp.MustCompile(`^TRF-\d{8}-[0-9A-F]{8}$`), transfer.TransferNumber)

	// Vigencia por defecto: 24 horas desde la solicitud
	assert.WithinDuration(t, before.Add(24*time.Hour), transfer.ExpiresAt, 5*time.Second)

	require.Len(t, transfer.Items, 1)
	item := transfer.Items[0]
	assert.Equal(t, int64(5), item.QuantityRequested)
	assert.Zero(t, item.QuantityApproved)
	assert.Zero(t, item.QuantityShipped)
	assert.Zero(t, item.QuantityReceived)

	// Crear la solicitud no toca inventario
	assert.Empty(t, f.store.movements)
	assert.Empty(t, f.store.records)
}

func TestCreateTransfer_Validaciones(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	base := appinv.CreateTransferInput{
		CompanyID:      testCompanyID,
		UserID:         testUserID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Items:          []appinv.CreateTransferItemInput{{ProductID: "prod-1", QuantityRequested: 5}},
	}

	same := base
	same.ToLocationID = "loc-a"
	_, err := f.wf.CreateTransfer(ctx, same)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino deben ser distintos")

	empty := base
	empty.Items = nil
	_, err = f.wf.CreateTransfer(ctx, empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := base
	zero.Items = []appinv.CreateTransferItemInput{{ProductID: "prod-1", QuantityRequested: 0}}
	_, err = f.wf.CreateTransfer(ctx, zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ajeno := base
	ajeno.Items = []appinv.CreateTransferItemInput{{ProductID: "prod-ajeno", QuantityRequested: 1}}
	_, err = f.wf.CreateTransfer(ctx, ajeno)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_AprobarDespacharRecibir(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 7)
	transfer := f.createTransfer(t, 5)

	// Aprobación sin cantidades explícitas: se aprueba todo lo solicitado
	approved, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, approved.Status)
	assert.Equal(t, int64(5), approved.Items[0].QuantityApproved)
	assert.Equal(t, int64(7), f.quantityAt("prod-1", "loc-a"), "aprobar no mueve stock")

	// Despacho: descuenta en origen
	shipped, err := f.wf.ShipTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "camión de la tarde")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, shipped.Status)
	assert.Equal(t, int64(5), shipped.Items[0].QuantityShipped)
	assert.Equal(t, int64(2), f.quantityAt("prod-1", "loc-a"))
	assert.Equal(t, int64(0), f.quantityAt("prod-1", "loc-b"), "en tránsito el stock no está en ninguna sucursal de venta")

	// Recepción: entra en destino
	received, err := f.wf.ReceiveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, received.Status)
	assert.Equal(t, int64(5), received.Items[0].QuantityReceived)
	assert.Equal(t, int64(2), f.quantityAt("prod-1", "loc-a"))
	assert.Equal(t, int64(5), f.quantityAt("prod-1", "loc-b"))

	// Ambos movimientos del traslado referencian el traslado
	var refs int
	for _, m := range f.store.movements {
		if m.ReferenceType == entity.ReferenceTypeTransfer && m.ReferenceID == transfer.ID {
			refs++
		}
	}
	assert.Equal(t, 2, refs, "salida en origen y entrada en destino referencian el traslado")
}

func TestReceiveTransfer_Parcial(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 10)
	transfer := f.createTransfer(t, 5)

	_, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil)
	require.NoError(t, err)
	shipped, err := f.wf.ShipTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "")
	require.NoError(t, err)
	itemID := shipped.Items[0].ID

	// Llegaron 3 de las 5 despachadas
	received, err := f.wf.ReceiveTransfer(ctx, testCompanyID, testUserID, transfer.ID,
		map[string]int64{itemID: 3}, "faltante en ruta")
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusPartiallyReceived, received.Status)
	assert.Equal(t, int64(3), received.Items[0].QuantityReceived)
	assert.Equal(t, int64(5), f.quantityAt("prod-1", "loc-a"))
	assert.Equal(t, int64(3), f.quantityAt("prod-1", "loc-b"))
}

func TestApproveTransfer_CantidadesParciales(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	transfer := f.createTransfer(t, 5)
	itemID := transfer.Items[0].ID

	approved, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID,
		map[string]int64{itemID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), approved.Items[0].QuantityApproved)
}

func TestApproveTransfer_MapaExplicitoLineaAusenteQuedaEnCero(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	transfer, err := f.wf.CreateTransfer(ctx, appinv.CreateTransferInput{
		CompanyID:      testCompanyID,
		UserID:         testUserID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Items: []appinv.CreateTransferItemInput{
			{ProductID: "prod-1", QuantityRequested: 5},
			{ProductID: "prod-1", VariantID: strPtr("var-m"), QuantityRequested: 2},
		},
	})
	require.NoError(t, err)

	first := transfer.Items[0].ID
	approved, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID,
		map[string]int64{first: 4})
	require.NoError(t, err)

	byID := make(map[string]*entity.TransferItem)
	for _, it := range approved.Items {
		byID[it.ID] = it
	}
	assert.Equal(t, int64(4), byID[first].QuantityApproved)
	assert.Equal(t, int64(0), byID[transfer.Items[1].ID].QuantityApproved,
		"con mapa explícito, la línea ausente queda en 0 (no aprobada)")
}

func strPtr(s string) *string { return &s }

func TestApproveTransfer_MasDeLoSolicitado_Invalida(t *testing.T) {
	f := newWorkflowFixture(t)
	transfer := f.createTransfer(t, 5)

	_, err := f.wf.ApproveTransfer(context.Background(), testCompanyID, testUserID, transfer.ID,
		map[string]int64{transfer.Items[0].ID: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede aprobar más de lo solicitado")
}

func TestShipTransfer_SinStock_RevierteElDespacho(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 2)
	transfer := f.createTransfer(t, 5)

	_, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil)
	require.NoError(t, err)

	_, err = f.wf.ShipTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El despacho fallido no deja rastro: stock intacto y estado sin cambiar
	assert.Equal(t, int64(2), f.quantityAt("prod-1", "loc-a"))
	stored, err := f.wf.GetTransfer(ctx, testCompanyID, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, stored.Status)
	assert.Zero(t, stored.Items[0].QuantityShipped)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests rechazo / cancelación / transiciones inválidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRejectTransfer_RequiereMotivo(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	transfer := f.createTransfer(t, 5)

	_, err := f.wf.RejectTransfer(ctx, testCompanyID, testUserID, transfer.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el rechazo siempre lleva motivo")

	rejected, err := f.wf.RejectTransfer(ctx, testCompanyID, testUserID, transfer.ID, "sin capacidad en destino")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, rejected.Status)
	assert.Equal(t, "sin capacidad en destino", rejected.RejectionReason)
	assert.Equal(t, testUserID, rejected.RejectedBy)
}

func TestCancelTransfer_SoloAntesDelDespacho(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 10)

	// pending → cancelled: permitido
	pending := f.createTransfer(t, 5)
	cancelled, err := f.wf.CancelTransfer(ctx, testCompanyID, testUserID, pending.ID, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)

	// approved → cancelled: permitido
	approved := f.createTransfer(t, 5)
	_, err = f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, approved.ID, nil)
	require.NoError(t, err)
	_, err = f.wf.CancelTransfer(ctx, testCompanyID, testUserID, approved.ID, "cambio de plan")
	require.NoError(t, err)

	// in_transit → cancelled: rechazado (el stock ya salió de origen)
	inTransit := f.createTransfer(t, 5)
	_, err = f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, inTransit.ID, nil)
	require.NoError(t, err)
	_, err = f.wf.ShipTransfer(ctx, testCompanyID, testUserID, inTransit.ID, nil, "")
	require.NoError(t, err)
	_, err = f.wf.CancelTransfer(ctx, testCompanyID, testUserID, inTransit.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransiciones_DesdeEstadoIncorrecto_Conflict(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 10)
	transfer := f.createTransfer(t, 5)

	// Despachar o recibir sin aprobar: conflicto
	_, err := f.wf.ShipTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.wf.ReceiveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil, "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Aprobar dos veces: la segunda encuentra approved y es conflicto
	_, err = f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil)
	require.NoError(t, err)
	_, err = f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, transfer.ID, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Rechazar un traslado ya aprobado: conflicto
	_, err = f.wf.RejectTransfer(ctx, testCompanyID, testUserID, transfer.ID, "motivo")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransfer_DeOtraEmpresa_Forbidden(t *testing.T) {
	f := newWorkflowFixture(t)
	transfer := f.createTransfer(t, 5)

	_, err := f.wf.GetTransfer(context.Background(), otherCompany, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.wf.ApproveTransfer(context.Background(), otherCompany, testUserID, transfer.ID, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests listados por sucursal
// ──────────────────────────────────────────────────────────────────────────────

func TestListadosPorSucursal(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	f.seedStock(t, "prod-1", "loc-a", 10)

	pendiente := f.createTransfer(t, 2)
	enTransito := f.createTransfer(t, 3)
	_, err := f.wf.ApproveTransfer(ctx, testCompanyID, testUserID, enTransito.ID, nil)
	require.NoError(t, err)
	_, err = f.wf.ShipTransfer(ctx, testCompanyID, testUserID, enTransito.ID, nil, "")
	require.NoError(t, err)

	// Salientes sin despachar de loc-a: solo el pendiente
	outgoing, err := f.wf.GetPendingForLocation(ctx, testCompanyID, "loc-a", 20, 0)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, pendiente.ID, outgoing[0].ID)

	// Entrantes hacia loc-b: solo el que va en tránsito
	incoming, err := f.wf.GetIncoming(ctx, testCompanyID, "loc-b", 20, 0)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, enTransito.ID, incoming[0].ID)

	// Filtro por estado vía List
	all, err := f.wf.ListTransfers(ctx, testCompanyID, repository.TransferFilter{
		Statuses: []string{entity.TransferStatusInTransit},
	})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, enTransito.ID, all[0].ID)
}
