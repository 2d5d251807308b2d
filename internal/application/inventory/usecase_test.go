package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	invrules "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

// ── fixtures ──

type fixture struct {
	store  *memory.Store
	engine *inventory.MovementEngine
	item   int64
	whA    int64
	whB    int64
}

func newFixture(t *testing.T, opts ...inventory.Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	item := &entity.Item{SKU: "SKU-1", Name: "Tornillo", UnitOfMeasure: "pcs", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewItemRepository(store).Create(ctx, item))

	whRepo := memory.NewWarehouseRepository(store)
	a := &entity.Warehouse{Code: "A", Name: "Central", CreatedAt: now, UpdatedAt: now}
	b := &entity.Warehouse{Code: "B", Name: "Norte", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, whRepo.Create(ctx, a))
	require.NoError(t, whRepo.Create(ctx, b))

	return &fixture{
		store:  store,
		engine: inventory.NewMovementEngine(store, opts...),
		item:   item.ID,
		whA:    a.ID,
		whB:    b.ID,
	}
}

func (f *fixture) in(wh int64, q string) invrules.MovementRequest {
	return invrules.MovementRequest{ItemID: f.item, WarehouseDestID: id(wh), Qty: qty(q), Type: "IN"}
}

func (f *fixture) out(wh int64, q string) invrules.MovementRequest {
	return invrules.MovementRequest{ItemID: f.item, WarehouseSrcID: id(wh), Qty: qty(q), Type: "OUT"}
}

func (f *fixture) transfer(src, dest int64, q string) invrules.MovementRequest {
	return invrules.MovementRequest{ItemID: f.item, WarehouseSrcID: id(src), WarehouseDestID: id(dest), Qty: qty(q), Type: "TRANSFER"}
}

func (f *fixture) adj(wh int64, q string) invrules.MovementRequest {
	return invrules.MovementRequest{ItemID: f.item, WarehouseDestID: id(wh), Qty: qty(q), Type: "ADJ"}
}

// balance devuelve la cantidad del par; cero si no hay fila.
func (f *fixture) balance(t *testing.T, wh int64) decimal.Decimal {
	t.Helper()
	b, err := memory.NewBalanceRepository(f.store).Get(context.Background(), f.item, wh)
	require.NoError(t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.Quantity
}

func (f *fixture) ledgerLen(t *testing.T) int {
	t.Helper()
	list, err := memory.NewLedgerRepository(f.store).List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return len(list)
}

func (f *fixture) assertReconciled(t *testing.T) {
	t.Helper()
	report, err := inventory.NewReconcileUseCase(f.store, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent, "saldos deben conciliar con el ledger: %+v", report.Discrepancies)
}

func id(v int64) *int64 { return &v }

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// failingLedger simula un fallo de almacenamiento al insertar en el ledger.
type failingLedger struct {
	repository.LedgerRepository
}

func (failingLedger) Append(context.Context, *entity.MovementRecord) error {
	return errors.New("disk full")
}

type failingRunner struct {
	*memory.Store
}

func (r failingRunner) Run(ctx context.Context, fn inventory.TxFunc) error {
	return r.Store.Run(ctx, func(l repository.LedgerRepository, b repository.BalanceRepository, c repository.Catalog) error {
		return fn(failingLedger{l}, b, c)
	})
}

// ── escenario ──

func TestApply_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.engine.Apply(ctx, f.in(f.whA, "100"), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIN, rec.Type)
	f.assertReconciled(t)

	rec, err = f.engine.Apply(ctx, f.transfer(f.whA, f.whB, "40"), nil)
	require.NoError(t, err)
	require.NotNil(t, rec.WarehouseSrc)
	require.NotNil(t, rec.WarehouseDest)
	assert.Equal(t, "A", rec.WarehouseSrc.Code)
	assert.Equal(t, "B", rec.WarehouseDest.Code)
	require.NotNil(t, rec.Item)
	assert.Equal(t, "SKU-1", rec.Item.SKU)
	f.assertReconciled(t)

	_, err = f.engine.Apply(ctx, f.out(f.whB, "50"), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertReconciled(t)

	_, err = f.engine.Apply(ctx, f.adj(f.whA, "-10"), nil)
	require.NoError(t, err)
	f.assertReconciled(t)

	assert.True(t, f.balance(t, f.whA).Equal(qty("50")), "A = %s", f.balance(t, f.whA))
	assert.True(t, f.balance(t, f.whB).Equal(qty("40")), "B = %s", f.balance(t, f.whB))
	assert.Equal(t, 3, f.ledgerLen(t), "el OUT rechazado no deja registro")
}

func TestApply_SalidaExactaDejaCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Apply(ctx, f.in(f.whA, "5.5"), nil)
	require.NoError(t, err)
	_, err = f.engine.Apply(ctx, f.out(f.whA, "5.5"), nil)
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.whA).IsZero())
}

func TestApply_SalidaSinSaldoPrevio(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Apply(context.Background(), f.out(f.whA, "1"), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, f.ledgerLen(t))
}

// ── validación ──

func TestApply_RechazosNoMutanEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "10"), nil)
	require.NoError(t, err)

	cases := []struct {
		name string
		req  invrules.MovementRequest
		want error
	}{
		{"tipo desconocido", invrules.MovementRequest{ItemID: f.item, WarehouseDestID: id(f.whA), Qty: qty("1"), Type: "LOAN"}, domain.ErrInvalidMovementType},
		{"tipo en minúsculas", invrules.MovementRequest{ItemID: f.item, WarehouseDestID: id(f.whA), Qty: qty("1"), Type: "in"}, domain.ErrInvalidMovementType},
		{"tipo con espacios", invrules.MovementRequest{ItemID: f.item, WarehouseDestID: id(f.whA), Qty: qty("1"), Type: " IN "}, domain.ErrInvalidMovementType},
		{"cantidad cero", f.in(f.whA, "0"), domain.ErrInvalidQuantity},
		{"cantidad con más de 6 decimales", f.in(f.whA, "0.0000001"), domain.ErrInvalidQuantity},
		{"cantidad fuera de rango", f.in(f.whA, "1000000000000000"), domain.ErrInvalidQuantity},
		{"IN sin destino", invrules.MovementRequest{ItemID: f.item, Qty: qty("1"), Type: "IN"}, domain.ErrMissingWarehouseReference},
		{"traslado a la misma bodega", f.transfer(f.whA, f.whA, "1"), domain.ErrInvalidTransfer},
		{"ítem inexistente", invrules.MovementRequest{ItemID: 999, WarehouseDestID: id(f.whA), Qty: qty("1"), Type: "IN"}, domain.ErrItemNotFound},
		{"bodega inexistente", f.in(999, "1"), domain.ErrWarehouseNotFound},
		{"origen inexistente", f.transfer(999, f.whA, "1"), domain.ErrWarehouseNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Apply(ctx, tc.req, nil)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, errors.Is(err, domain.ErrStorageFailure), "error de validación no es de almacenamiento")
		})
	}

	assert.True(t, f.balance(t, f.whA).Equal(qty("10")))
	assert.Equal(t, 1, f.ledgerLen(t))
	list, err := memory.NewBalanceRepository(f.store).List(ctx, repository.BalanceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "ningún rechazo crea filas de saldo")
}

func TestApply_ItemInexistenteTienePrecedencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  invrules.MovementRequest
	}{
		{"IN sin destino", invrules.MovementRequest{ItemID: 999, Qty: qty("1"), Type: "IN"}},
		{"OUT sin origen", invrules.MovementRequest{ItemID: 999, Qty: qty("1"), Type: "OUT"}},
		{"traslado a la misma bodega", invrules.MovementRequest{ItemID: 999, WarehouseSrcID: id(f.whA), WarehouseDestID: id(f.whA), Qty: qty("1"), Type: "TRANSFER"}},
		{"cantidad cero", invrules.MovementRequest{ItemID: 999, WarehouseDestID: id(f.whA), Qty: qty("0"), Type: "IN"}},
		{"bodega inexistente", invrules.MovementRequest{ItemID: 999, WarehouseDestID: id(999), Qty: qty("1"), Type: "IN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Apply(ctx, tc.req, nil)
			assert.ErrorIs(t, err, domain.ErrItemNotFound)
		})
	}

	_, err := f.engine.Apply(ctx, invrules.MovementRequest{ItemID: 999, Qty: qty("1"), Type: "LOAN"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType, "el tipo se valida antes que el ítem")
	assert.Equal(t, 0, f.ledgerLen(t))
}

// ── atomicidad ──

func TestApply_FalloDeAlmacenamientoHaceRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "10"), nil)
	require.NoError(t, err)

	broken := inventory.NewMovementEngine(failingRunner{f.store})
	_, err = broken.Apply(ctx, f.transfer(f.whA, f.whB, "4"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.Contains(t, err.Error(), "disk full", "la causa se conserva")

	assert.True(t, f.balance(t, f.whA).Equal(qty("10")), "origen intacto")
	b, err := memory.NewBalanceRepository(f.store).Get(ctx, f.item, f.whB)
	require.NoError(t, err)
	assert.Nil(t, b, "la fila creada para el destino se descarta")
	assert.Equal(t, 1, f.ledgerLen(t))
	f.assertReconciled(t)
}

func TestApply_ContextoCanceladoEsFalloDeAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Apply(ctx, f.in(f.whA, "1"), nil)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.ledgerLen(t))
}

// ── ADJ ──

func TestApply_AjusteNegativoPorDefectoNoBajaDeCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "3"), nil)
	require.NoError(t, err)

	_, err = f.engine.Apply(ctx, f.adj(f.whA, "-5"), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.balance(t, f.whA).Equal(qty("3")))

	_, err = f.engine.Apply(ctx, f.adj(f.whA, "-3"), nil)
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.whA).IsZero())
}

func TestApply_AjustePositivoCreaSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := memory.NewBalanceRepository(f.store).Get(ctx, f.item, f.whB)
	require.NoError(t, err)
	require.Nil(t, b)

	rec, err := f.engine.Apply(ctx, f.adj(f.whB, "7.25"), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeADJ, rec.Type)
	assert.Nil(t, rec.WarehouseSrcID)
	require.NotNil(t, rec.WarehouseDest)
	assert.Equal(t, "B", rec.WarehouseDest.Code)

	assert.True(t, f.balance(t, f.whB).Equal(qty("7.25")))
	assert.Equal(t, 1, f.ledgerLen(t))
	f.assertReconciled(t)
}

func TestApply_AjusteNegativoHabilitado(t *testing.T) {
	f := newFixture(t, inventory.WithNegativeAdjustments(true))
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "3"), nil)
	require.NoError(t, err)

	_, err = f.engine.Apply(ctx, f.adj(f.whA, "-5"), nil)
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.whA).Equal(qty("-2")))
	f.assertReconciled(t)
}

// ── actor ──

func TestApply_ActorSeCopiaAlRegistro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := int64(42)
	rec, err := f.engine.Apply(ctx, f.in(f.whA, "1"), &actor)
	require.NoError(t, err)
	require.NotNil(t, rec.CreatedBy)
	assert.Equal(t, int64(42), *rec.CreatedBy)

	actor = 7
	stored, err := memory.NewLedgerRepository(f.store).GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), *stored.CreatedBy, "el registro no comparte el puntero del llamador")

	rec, err = f.engine.Apply(ctx, f.in(f.whA, "1"), nil)
	require.NoError(t, err)
	assert.Nil(t, rec.CreatedBy)
}

// ── concurrencia ──

func TestApply_SalidasConcurrentesNuncaDejanNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "10"), nil)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Apply(ctx, f.out(f.whA, "1"), nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, 40, rejected)
	assert.True(t, f.balance(t, f.whA).IsZero())
	f.assertReconciled(t)
}

func TestApply_TrasladosCruzadosConcurrentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Apply(ctx, f.in(f.whA, "100"), nil)
	require.NoError(t, err)
	_, err = f.engine.Apply(ctx, f.in(f.whB, "100"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := f.transfer(f.whA, f.whB, "1")
			if i%2 == 1 {
				req = f.transfer(f.whB, f.whA, "1")
			}
			_, err := f.engine.Apply(ctx, req, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total := f.balance(t, f.whA).Add(f.balance(t, f.whB))
	assert.True(t, total.Equal(qty("200")), "los traslados conservan el total")
	f.assertReconciled(t)
}

// ── DTO ──

func TestApplyFromRequest_MapeaRespuesta(t *testing.T) {
	f := newFixture(t)
	ref := "OC-1"
	actor := int64(3)

	resp, err := f.engine.ApplyFromRequest(context.Background(), &actor, dto.RegisterMovementRequest{
		ItemID:          f.item,
		WarehouseDestID: id(f.whA),
		Qty:             qty("12.5"),
		MovementType:    "IN",
		Reference:       &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "IN", resp.MovementType)
	assert.Equal(t, "OC-1", *resp.Reference)
	assert.Equal(t, int64(3), *resp.CreatedBy)
	require.NotNil(t, resp.WarehouseDest)
	assert.Equal(t, "A", resp.WarehouseDest.Code)
	assert.Nil(t, resp.WarehouseSrc)
}
