//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/pkg/config"
)

// setupPool levanta un PostgreSQL desechable, aplica el esquema y devuelve el pool.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	require.NoError(t, postgres.EnsureSchema(ctx, pool), "el esquema debe ser idempotente")
	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool) (itemID, whA, whB int64) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	item := &entity.Item{SKU: "SKU-1", Name: "Tornillo", UnitOfMeasure: "pcs", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewItemRepository(pool).Create(ctx, item))

	whRepo := postgres.NewWarehouseRepository(pool)
	a := &entity.Warehouse{Code: "A", Name: "Central", CreatedAt: now, UpdatedAt: now}
	b := &entity.Warehouse{Code: "B", Name: "Norte", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, whRepo.Create(ctx, a))
	require.NoError(t, whRepo.Create(ctx, b))
	return item.ID, a.ID, b.ID
}

func ptr(v int64) *int64 { return &v }

func TestIntegration_Catalogo_Duplicados(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	seed(t, pool)

	now := time.Now().UTC()
	err := postgres.NewItemRepository(pool).Create(ctx, &entity.Item{SKU: "SKU-1", Name: "otro", UnitOfMeasure: "pcs", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := postgres.NewWarehouseRepository(pool).GetByCode(ctx, "ZZ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegration_Motor_EscenarioCompleto(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	itemID, whA, whB := seed(t, pool)

	engine := inventory.NewMovementEngine(postgres.NewTxRunner(pool))
	actor := int64(7)

	_, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.NewFromInt(100), Type: "IN"}, &actor)
	require.NoError(t, err)
	tr, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseSrcID: ptr(whA), WarehouseDestID: ptr(whB), Qty: decimal.NewFromInt(40), Type: "TRANSFER"}, &actor)
	require.NoError(t, err)
	require.NotNil(t, tr.WarehouseSrc)
	require.NotNil(t, tr.WarehouseDest)
	assert.Equal(t, "A", tr.WarehouseSrc.Code)
	assert.Equal(t, "B", tr.WarehouseDest.Code)
	assert.Equal(t, "SKU-1", tr.Item.SKU)
	assert.Equal(t, actor, *tr.CreatedBy)

	_, err = engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseSrcID: ptr(whB), Qty: decimal.NewFromInt(50), Type: "OUT"}, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.NewFromInt(-10), Type: "ADJ"}, nil)
	require.NoError(t, err)

	balances := postgres.NewBalanceRepository(pool)
	a, err := balances.Get(ctx, itemID, whA)
	require.NoError(t, err)
	b, err := balances.Get(ctx, itemID, whB)
	require.NoError(t, err)
	assert.True(t, a.Quantity.Equal(decimal.NewFromInt(50)), "A = %s", a.Quantity)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(40)), "B = %s", b.Quantity)

	list, err := postgres.NewLedgerRepository(pool).List(ctx, repository.MovementFilter{ItemID: &itemID})
	require.NoError(t, err)
	assert.Len(t, list, 3, "el OUT rechazado no deja registro")
	assert.Equal(t, entity.MovementTypeADJ, list[0].Type, "más reciente primero")

	report, err := inventory.NewReconcileUseCase(postgres.NewTxRunner(pool), zerolog.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestIntegration_Motor_BodegaInexistenteNoDejaFilas(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	itemID, whA, _ := seed(t, pool)

	engine := inventory.NewMovementEngine(postgres.NewTxRunner(pool))
	_, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseSrcID: ptr(whA), WarehouseDestID: ptr(999), Qty: decimal.NewFromInt(1), Type: "TRANSFER"}, nil)
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)

	list, err := postgres.NewBalanceRepository(pool).List(ctx, repository.BalanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIntegration_Motor_CantidadesEnElLimiteDeLaColumna(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	itemID, whA, _ := seed(t, pool)
	engine := inventory.NewMovementEngine(postgres.NewTxRunner(pool))

	for _, raw := range []string{"0.0000001", "100000000000000", "1000000000000000"} {
		_, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.RequireFromString(raw), Type: "IN"}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, raw)
		assert.NotErrorIs(t, err, domain.ErrStorageFailure, raw)
	}
	list, err := postgres.NewLedgerRepository(pool).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ninguna cantidad rechazada deja registro")

	smallest, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.RequireFromString("0.000001"), Type: "IN"}, nil)
	require.NoError(t, err)
	assert.True(t, smallest.Qty.Equal(decimal.RequireFromString("0.000001")), "qty = %s", smallest.Qty)

	largest, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.RequireFromString("99999999999998.999999"), Type: "IN"}, nil)
	require.NoError(t, err)
	assert.True(t, largest.Qty.Equal(decimal.RequireFromString("99999999999998.999999")), "qty = %s", largest.Qty)

	bal, err := postgres.NewBalanceRepository(pool).Get(ctx, itemID, whA)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(decimal.RequireFromString("99999999999999")), "saldo = %s", bal.Quantity)
}

func TestIntegration_Motor_SalidasConcurrentesNoQuedanNegativas(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	itemID, whA, _ := seed(t, pool)

	engine := inventory.NewMovementEngine(postgres.NewTxRunner(pool))
	_, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseDestID: ptr(whA), Qty: decimal.NewFromInt(10), Type: "IN"}, nil)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Apply(ctx, invrules.MovementRequest{ItemID: itemID, WarehouseSrcID: ptr(whA), Qty: decimal.NewFromInt(1), Type: "OUT"}, nil)
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	bal, err := postgres.NewBalanceRepository(pool).Get(ctx, itemID, whA)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())
}
