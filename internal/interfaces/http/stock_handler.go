package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// StockHandler consultas de saldos y reporte PDF (protegido).
type StockHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar saldos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  int  false  "Filtrar por ítem"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var (
		filter repository.BalanceFilter
		err    error
	)
	if filter.ItemID, err = queryID(c, "item_id"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	if filter.WarehouseID, err = queryID(c, "warehouse_id"); err != nil {
		return badRequest(c, "INVALID_QUERY", err.Error())
	}
	out, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ForItem godoc
// @Summary      Saldos de un ítem en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del ítem"
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Router       /api/inventory/stock/item/{id} [get]
func (h *StockHandler) ForItem(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.uc.ForItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de existencias
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/inventory/stock/report.pdf [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.Report(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="existencias-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}
