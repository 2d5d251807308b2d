// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory).
// Una transacción a la vez: Run toma el mutex y escribe directamente sobre el estado, anotando
// en un diario el valor previo de cada fila que toca; si fn falla el diario se deshace, por lo
// que un fallo a mitad de camino no deja rastro. El costo de una tx es proporcional a lo que toca.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado compartido del driver en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados al estado bajo diario. Commit descarta el diario;
// Rollback (error de fn, contexto vencido o panic) lo deshace.
func (s *Store) Run(ctx context.Context, fn inventory.TxFunc) error {
	return s.run(ctx, fn, false)
}

// RunSnapshot ejecuta fn y siempre deshace lo que haya escrito.
func (s *Store) RunSnapshot(ctx context.Context, fn inventory.TxFunc) error {
	return s.run(ctx, fn, true)
}

func (s *Store) run(ctx context.Context, fn inventory.TxFunc, readOnly bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.st
	st.begin()
	committed := false
	defer func() {
		if !committed {
			st.rollback()
		}
	}()

	if err := fn(&LedgerRepo{st: st}, &BalanceRepo{st: st}, &CatalogRepo{st: st}); err != nil {
		return err
	}
	if readOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	st.commit()
	committed = true
	return nil
}

// autocommit ejecuta una operación suelta sobre el estado confirmado.
func (s *Store) autocommit(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

type state struct {
	seqItem, seqWarehouse, seqBalance, seqMovement int64

	items      map[int64]*entity.Item
	skus       map[string]int64
	warehouses map[int64]*entity.Warehouse
	codes      map[string]int64
	balances   map[int64]*entity.StockBalance
	byPair     map[entity.BalanceKey]int64
	// movements solo crece; los registros nunca se modifican tras insertarse.
	movements []*entity.MovementRecord

	// j es el diario de la tx en curso; nil fuera de Run.
	j *journal
}

// journal guarda lo necesario para deshacer una tx: secuencias y largo del ledger al inicio,
// y el valor previo de cada saldo tocado (nil si la tx creó la fila).
type journal struct {
	seqBalance, seqMovement int64
	movements               int
	balances                map[int64]*entity.StockBalance
}

func newState() *state {
	return &state{
		items:      make(map[int64]*entity.Item),
		skus:       make(map[string]int64),
		warehouses: make(map[int64]*entity.Warehouse),
		codes:      make(map[string]int64),
		balances:   make(map[int64]*entity.StockBalance),
		byPair:     make(map[entity.BalanceKey]int64),
	}
}

func (s *state) begin() {
	s.j = &journal{
		seqBalance:  s.seqBalance,
		seqMovement: s.seqMovement,
		movements:   len(s.movements),
		balances:    make(map[int64]*entity.StockBalance),
	}
}

func (s *state) commit() {
	s.j = nil
}

// touch anota el valor previo del saldo id antes de su primera escritura en la tx.
// prev nil marca una fila creada dentro de la tx.
func (s *state) touch(id int64, prev *entity.StockBalance) {
	if s.j == nil {
		return
	}
	if _, seen := s.j.balances[id]; seen {
		return
	}
	if prev != nil {
		c := *prev
		prev = &c
	}
	s.j.balances[id] = prev
}

func (s *state) rollback() {
	j := s.j
	if j == nil {
		return
	}
	for id, prev := range j.balances {
		if prev == nil {
			if b, ok := s.balances[id]; ok {
				delete(s.byPair, b.Key())
				delete(s.balances, id)
			}
			continue
		}
		s.balances[id] = prev
	}
	for i := j.movements; i < len(s.movements); i++ {
		s.movements[i] = nil
	}
	s.movements = s.movements[:j.movements]
	s.seqBalance, s.seqMovement = j.seqBalance, j.seqMovement
	s.j = nil
}

func copyItem(i *entity.Item) *entity.Item {
	if i == nil {
		return nil
	}
	c := *i
	c.Description = copyStr(i.Description)
	return &c
}

func copyWarehouse(w *entity.Warehouse) *entity.Warehouse {
	if w == nil {
		return nil
	}
	c := *w
	c.Location = copyStr(w.Location)
	c.Description = copyStr(w.Description)
	return &c
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
