package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *usecase.ItemUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Engine      *inventory.MovementEngine
	LedgerUC    *inventory.LedgerUseCase
	StockUC     *inventory.StockUseCase
	ReconcileUC *inventory.ReconcileUseCase
	JWTSecret   string
	JWTIssuer   string
	Logger      zerolog.Logger
}

// Router registra las rutas de la API. Todo /api/inventory requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	admin := RequireRole(entity.RoleAdmin)
	operator := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	inv := app.Group("/api/inventory", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	items := NewItemHandler(deps.ItemUC, deps.Logger)
	inv.Post("/items", admin, items.Create)
	inv.Get("/items", items.List)
	inv.Get("/items/:id", items.GetByID)
	inv.Put("/items/:id", admin, items.Update)

	warehouses := NewWarehouseHandler(deps.WarehouseUC, deps.Logger)
	inv.Post("/warehouses", admin, warehouses.Create)
	inv.Get("/warehouses", warehouses.List)
	inv.Get("/warehouses/:id", warehouses.GetByID)
	inv.Put("/warehouses/:id", admin, warehouses.Update)

	movements := NewInventoryHandler(deps.Engine, deps.LedgerUC, deps.ReconcileUC, deps.Logger)
	inv.Post("/movements", operator, movements.RegisterMovement)
	inv.Get("/movements", movements.ListMovements)
	inv.Get("/movements/:id", movements.GetMovement)
	inv.Get("/reconciliation", admin, movements.Reconcile)

	stock := NewStockHandler(deps.StockUC, deps.Logger)
	inv.Get("/stock", stock.List)
	inv.Get("/stock/report.pdf", stock.Report)
	inv.Get("/stock/item/:id", stock.ForItem)
}
