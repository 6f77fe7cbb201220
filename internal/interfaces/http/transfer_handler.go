package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// TransferHandler maneja el flujo de traslados entre sucursales (protegido):
// solicitud, aprobación/rechazo, despacho, recepción y cancelación.
type TransferHandler struct {
	uc *inventory.TransferWorkflowUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferWorkflowUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_location_id, to_location_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]inventory.CreateTransferItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.CreateTransferItemInput{
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityRequested: it.QuantityRequested,
			Notes:             it.Notes,
		})
	}
	transfer, err := h.uc.CreateTransfer(c.Context(), inventory.CreateTransferInput{
		CompanyID:      companyID,
		UserID:         userID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		TransferType:   in.TransferType,
		Priority:       in.Priority,
		ExpiresAt:      in.ExpiresAt,
		Items:          items,
	})
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// Approve godoc
// @Summary      Aprobar traslado (total o parcial)
// @Description  Fija quantity_approved por línea (tope: quantity_requested).
//
//	Sin items en el body se aprueba todo lo solicitado.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ApproveTransferRequest  false  "cantidades por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApproveTransferRequest
	_ = c.BodyParser(&in) // body opcional
	transfer, err := h.uc.ApproveTransfer(c.Context(), companyID, userID, c.Params("id"), itemQuantities(in.Items))
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Reject godoc
// @Summary      Rechazar traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.RejectTransferRequest  true  "reason (obligatorio)"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.RejectTransfer(c.Context(), companyID, userID, c.Params("id"), in.Reason)
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Ship godoc
// @Summary      Despachar traslado
// @Description  Descuenta stock en la sucursal origen y pasa el traslado a
//
//	in_transit. Tope por línea: quantity_approved.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ShipTransferRequest  false  "cantidades por línea, notes"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ShipTransferRequest
	_ = c.BodyParser(&in) // body opcional
	transfer, err := h.uc.ShipTransfer(c.Context(), companyID, userID, c.Params("id"), itemQuantities(in.Items), in.Notes)
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Suma stock en la sucursal destino. Si todas las líneas llegan
//
//	completas queda received; si no, partially_received.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ReceiveTransferRequest  false  "cantidades por línea, notes"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveTransferRequest
	_ = c.BodyParser(&in) // body opcional
	transfer, err := h.uc.ReceiveTransfer(c.Context(), companyID, userID, c.Params("id"), itemQuantities(in.Items), in.Notes)
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  Solo antes del despacho (pending o approved).
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "reason"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CancelTransferRequest
	_ = c.BodyParser(&in) // body opcional
	transfer, err := h.uc.CancelTransfer(c.Context(), companyID, userID, c.Params("id"), in.Reason)
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// GetByID godoc
// @Summary      Obtener traslado con sus líneas
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	transfer, err := h.uc.GetTransfer(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "Filtrar por estado"
// @Param        from_location  query  string  false  "Filtrar por sucursal origen"
// @Param        to_location    query  string  false  "Filtrar por sucursal destino"
// @Param        limit          query  int     false  "Límite"   default(20)
// @Param        offset         query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := repository.TransferFilter{
		FromLocationID: c.Query("from_location"),
		ToLocationID:   c.Query("to_location"),
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []string{status}
	}
	transfers, err := h.uc.ListTransfers(c.Context(), companyID, filter)
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferList(transfers))
}

// ListOutgoingPending godoc
// @Summary      Traslados salientes sin despachar de una sucursal
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  path  string  true  "ID de la sucursal origen"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers/outgoing/{location_id} [get]
func (h *TransferHandler) ListOutgoingPending(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	transfers, err := h.uc.GetPendingForLocation(c.Context(), companyID, c.Params("location_id"),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferList(transfers))
}

// ListIncoming godoc
// @Summary      Traslados en tránsito hacia una sucursal
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  path  string  true  "ID de la sucursal destino"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers/incoming/{location_id} [get]
func (h *TransferHandler) ListIncoming(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	transfers, err := h.uc.GetIncoming(c.Context(), companyID, c.Params("location_id"),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toTransferList(transfers))
}

// itemQuantities convierte la lista de cantidades por línea a mapa item_id -> cantidad.
func itemQuantities(items []dto.TransferItemQuantity) map[string]int64 {
	if len(items) == 0 {
		return nil
	}
	m := make(map[string]int64, len(items))
	for _, it := range items {
		m[it.ItemID] = it.Quantity
	}
	return m
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityRequested: it.QuantityRequested,
			QuantityApproved:  it.QuantityApproved,
			QuantityShipped:   it.QuantityShipped,
			QuantityReceived:  it.QuantityReceived,
			Notes:             it.Notes,
		})
	}
	return dto.TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
		TransferType:    t.TransferType,
		Priority:        t.Priority,
		Status:          t.Status,
		RequestedBy:     t.RequestedBy,
		RequestedAt:     t.RequestedAt,
		ApprovedBy:      t.ApprovedBy,
		ApprovedAt:      t.ApprovedAt,
		RejectedBy:      t.RejectedBy,
		RejectedAt:      t.RejectedAt,
		RejectionReason: t.RejectionReason,
		ShippedBy:       t.ShippedBy,
		ShippedAt:       t.ShippedAt,
		ShippingNotes:   t.ShippingNotes,
		ReceivedBy:      t.ReceivedBy,
		ReceivedAt:      t.ReceivedAt,
		ReceivingNotes:  t.ReceivingNotes,
		ExpiresAt:       t.ExpiresAt,
		Items:           items,
	}
}

func toTransferList(transfers []*entity.Transfer) []dto.TransferResponse {
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toTransferResponse(t))
	}
	return out
}
