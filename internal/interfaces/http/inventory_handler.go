package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// InventoryHandler maneja ajustes, consultas de existencias, alertas y
// movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.AdjustStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.AdjustStockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajustar inventario (entrada, salida o conteo)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInventoryRequest  true  "product_id, location_id, type (entry|exit|adjustment), quantity, unit_cost (entradas)"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.uc.Adjust(c.Context(), inventory.AdjustInput{
		CompanyID:  companyID,
		UserID:     userID,
		ProductID:  in.ProductID,
		VariantID:  in.VariantID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Notes:      in.Notes,
	})
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(toInventoryRecordResponse(record))
}

// Transfer godoc
// @Summary      Trasladar stock entre sucursales (movimiento directo)
// @Description  Salida en origen y entrada en destino en una sola transacción,
//
//	sin flujo de aprobación. Para el flujo completo usar /api/transfers.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferInventoryRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.TransferStock(c.Context(), inventory.TransferStockInput{
		CompanyID:      companyID,
		UserID:         userID,
		ProductID:      in.ProductID,
		VariantID:      in.VariantID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado aplicado"})
}

// GetLevels godoc
// @Summary      Consultar existencias
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por sucursal"
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.InventoryRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/levels [get]
func (h *InventoryHandler) GetLevels(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	locationID := c.Query("location_id")
	productID := c.Query("product_id")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	records, err := h.uc.GetInventory(c.Context(), companyID, locationID, productID, limit, offset)
	if err != nil {
		return mapInventoryError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toInventoryRecordResponse(r))
	}
	return c.JSON(out)
}

// GetLowStockAlerts godoc
// @Summary      Alertas de stock bajo
// @Description  Productos con cantidad disponible <= punto de reorden, ordenados
//
//	por mayor déficit primero.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por sucursal. Vacío = todas."
// @Success      200  {array}   dto.LowStockAlertResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	records, err := h.uc.GetLowStockAlerts(c.Context(), companyID, c.Query("location_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LowStockAlertResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.LowStockAlertResponse{
			InventoryID:       r.ID,
			ProductID:         r.ProductID,
			VariantID:         r.VariantID,
			LocationID:        r.LocationID,
			QuantityAvailable: r.QuantityAvailable,
			ReorderPoint:      r.ReorderPoint,
			Deficit:           r.ReorderPoint - r.QuantityAvailable,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// ListMovements godoc
// @Summary      Historial de movimientos de un registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del registro de inventario"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.InventoryMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	inventoryID := c.Params("id")
	if inventoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	movements, err := h.uc.ListMovements(c.Context(), companyID, inventoryID, limit, offset)
	if err != nil {
		return mapInventoryError(c, err)
	}
	out := make([]dto.InventoryMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.InventoryMovementResponse{
			ID:             m.ID,
			InventoryID:    m.InventoryID,
			MovementType:   m.MovementType,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			Notes:          m.Notes,
			PerformedBy:    m.PerformedBy,
			CreatedAt:      m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// ListProductMovements godoc
// @Summary      Kardex de un producto (movimientos en todas las sucursales)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.InventoryMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{product_id}/movements [get]
func (h *InventoryHandler) ListProductMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "product_id es requerido"})
	}
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &t
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	movements, err := h.uc.ListProductMovements(c.Context(), companyID, productID, from, to, limit, offset)
	if err != nil {
		return mapInventoryError(c, err)
	}
	out := make([]dto.InventoryMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.InventoryMovementResponse{
			ID:             m.ID,
			InventoryID:    m.InventoryID,
			MovementType:   m.MovementType,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			Notes:          m.Notes,
			PerformedBy:    m.PerformedBy,
			CreatedAt:      m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// mapInventoryError traduce errores de dominio a respuestas HTTP.
func mapInventoryError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la operación entra en conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toInventoryRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:                r.ID,
		ProductID:         r.ProductID,
		VariantID:         r.VariantID,
		LocationID:        r.LocationID,
		QuantityAvailable: r.QuantityAvailable,
		MinStockLevel:     r.MinStockLevel,
		ReorderPoint:      r.ReorderPoint,
		LastRestocked:     r.LastRestocked,
		UpdatedAt:         r.UpdatedAt,
	}
}
