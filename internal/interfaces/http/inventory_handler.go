package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
)

// InventoryHandler maneja movimientos, lecturas del ledger y conciliación (protegido).
type InventoryHandler struct {
	engine    *inventory.MovementEngine
	ledger    *inventory.LedgerUseCase
	reconcile *inventory.ReconcileUseCase
	log       zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.MovementEngine, ledger *inventory.LedgerUseCase, reconcile *inventory.ReconcileUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, ledger: ledger, reconcile: reconcile, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  IN requiere warehouse_dest_id; OUT warehouse_src_id; TRANSFER ambos (distintos);
// @Description  ADJ warehouse_dest_id y qty con signo. El actor se toma del token.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, warehouse_src_id/warehouse_dest_id, qty, movement_type, reference"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.engine.ApplyFromRequest(c.UserContext(), actorID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  int     false  "Filtrar por ítem"
// @Param        warehouse_id  query  int     false  "Filtrar por bodega (origen o destino)"
// @Param        type          query  string  false  "IN | OUT | TRANSFER | ADJ"
// @Param        from          query  string  false  "Desde (RFC 3339, inclusivo)"
// @Param        to            query  string  false  "Hasta (RFC 3339, exclusivo)"
// @Param        limit         query  int     false  "Límite (default 100, máx. 1000)"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := dto.MovementListQuery{Type: c.Query("type"), Limit: c.QueryInt("limit", 0)}
	var err error
	if q.ItemID, err = queryID(c, "item_id"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	if q.WarehouseID, err = queryID(c, "warehouse_id"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	if q.From, err = queryTime(c, "from"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	if q.To, err = queryTime(c, "to"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	out, err := h.ledger.ListMovements(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.ledger.GetMovement(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar saldos contra el ledger
// @Description  Lee saldos y ledger en la misma vista y devuelve los pares que no coinciden.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.reconcile.Run(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
