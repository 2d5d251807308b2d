package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/inventory-ledger/docs"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventory-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// storage adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	txRunner   inventory.TxRunner
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	balances   repository.BalanceRepository
	ledger     repository.LedgerRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:   store,
			items:      memory.NewItemRepository(store),
			warehouses: memory.NewWarehouseRepository(store),
			balances:   memory.NewBalanceRepository(store),
			ledger:     memory.NewLedgerRepository(store),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		txRunner:   postgres.NewTxRunner(pool),
		items:      postgres.NewItemRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		balances:   postgres.NewBalanceRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		close:      pool.Close,
	}, nil
}

// @title                       Inventory Ledger API
// @version                     1.0
// @description                 Ledger de movimientos de inventario multi-bodega: registro atómico de IN, OUT, TRANSFER y ADJ, saldos por ítem y bodega, y conciliación contra el ledger.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con prefijo "Bearer ".
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	engine := inventory.NewMovementEngine(store.txRunner,
		inventory.WithNegativeAdjustments(cfg.Inventory.AllowNegativeAdjustment),
		inventory.WithLogger(log.Component("engine")),
	)
	reportGen := infrapdf.NewStockReportGenerator(cfg.App.Name + " · Existencias por bodega")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      usecase.NewItemUseCase(store.items),
		WarehouseUC: usecase.NewWarehouseUseCase(store.warehouses),
		Engine:      engine,
		LedgerUC:    inventory.NewLedgerUseCase(store.ledger),
		StockUC:     inventory.NewStockUseCase(store.balances, reportGen),
		ReconcileUC: inventory.NewReconcileUseCase(store.txRunner, log.Component("reconcile")),
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Logger:      log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
