package database

import (
	"context"
	"sync"
)

// memoryTxKey marks a context as running inside a MemoryTxManager transaction.
type memoryTxKey struct{}

// memoryTx collects the tables written by one transaction.
type memoryTx struct {
	touched []Table
}

func (tx *memoryTx) touch(table Table) {
	for _, t := range tx.touched {
		if t == table {
			return
		}
	}
	tx.touched = append(tx.touched, table)
}

func memoryTxFromContext(ctx context.Context) *memoryTx {
	tx, _ := ctx.Value(memoryTxKey{}).(*memoryTx)
	return tx
}

// Table is an in-memory table whose transactional writes are staged per
// transaction and published on commit.
type Table interface {
	bind(lock *sync.RWMutex)
	commit(tx *memoryTx, shared *sync.RWMutex)
	discard(tx *memoryTx)
}

// MemoryTxManager serializes transactions over a set of in-memory tables.
// Only one transaction runs at a time. Writes made inside a transaction stay
// private to it until commit, when all of them become visible at once.
type MemoryTxManager struct {
	mu    sync.Mutex
	state sync.RWMutex
}

// NewMemoryTxManager creates a MemoryTxManager over the given tables.
func NewMemoryTxManager(tables ...Table) *MemoryTxManager {
	m := &MemoryTxManager{}
	m.Register(tables...)
	return m
}

// Register adds tables to the set published atomically by this manager.
func (m *MemoryTxManager) Register(tables ...Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, table := range tables {
		table.bind(&m.state)
	}
}

// WithTx executes fn as a single all-or-nothing unit.
func (m *MemoryTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{}
	committed := false
	defer func() {
		if !committed {
			for _, table := range tx.touched {
				table.discard(tx)
			}
		}
	}()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		return err
	}

	m.state.Lock()
	for _, table := range tx.touched {
		table.commit(tx, &m.state)
	}
	m.state.Unlock()

	committed = true
	return nil
}

// PingContext reports whether the store can serve requests. It only fails
// when ctx is done.
func (m *MemoryTxManager) PingContext(ctx context.Context) error {
	return ctx.Err()
}

// MemoryTable is a keyed row store usable as a Table. Rows are stored by value,
// so callers must copy structs in and out rather than share pointers.
//
// Outside a transaction reads see committed rows only. Inside one they also
// see the rows that transaction has written.
type MemoryTable[K comparable, V any] struct {
	lock   *sync.RWMutex
	rows   map[K]V
	staged map[*memoryTx]map[K]V
	own    sync.RWMutex
	stage  sync.Mutex
}

// NewMemoryTable creates an empty MemoryTable.
func NewMemoryTable[K comparable, V any]() *MemoryTable[K, V] {
	t := &MemoryTable[K, V]{
		rows:   make(map[K]V),
		staged: make(map[*memoryTx]map[K]V),
	}
	t.lock = &t.own
	return t
}

// Get returns the row stored under key.
func (t *MemoryTable[K, V]) Get(ctx context.Context, key K) (V, bool) {
	if tx := memoryTxFromContext(ctx); tx != nil {
		if row, ok := t.stagedRow(tx, key); ok {
			return row, true
		}
	}

	t.lock.RLock()
	defer t.lock.RUnlock()
	row, ok := t.rows[key]
	return row, ok
}

// Put inserts or replaces the row stored under key.
func (t *MemoryTable[K, V]) Put(ctx context.Context, key K, row V) {
	if tx := memoryTxFromContext(ctx); tx != nil {
		t.stageRow(tx, key, row)
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	t.rows[key] = row
}

// Insert stores row only if key is absent and reports whether it did.
func (t *MemoryTable[K, V]) Insert(ctx context.Context, key K, row V) bool {
	if tx := memoryTxFromContext(ctx); tx != nil {
		if _, exists := t.Get(ctx, key); exists {
			return false
		}
		t.stageRow(tx, key, row)
		return true
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if _, exists := t.rows[key]; exists {
		return false
	}
	t.rows[key] = row
	return true
}

// Values returns every row in unspecified order.
func (t *MemoryTable[K, V]) Values(ctx context.Context) []V {
	var overlay map[K]V
	if tx := memoryTxFromContext(ctx); tx != nil {
		t.stage.Lock()
		overlay = t.staged[tx]
		t.stage.Unlock()
	}

	t.lock.RLock()
	defer t.lock.RUnlock()
	values := make([]V, 0, len(t.rows)+len(overlay))
	for key, row := range t.rows {
		if _, shadowed := overlay[key]; shadowed {
			continue
		}
		values = append(values, row)
	}
	for _, row := range overlay {
		values = append(values, row)
	}
	return values
}

// Len returns the number of committed rows.
func (t *MemoryTable[K, V]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.rows)
}

func (t *MemoryTable[K, V]) stagedRow(tx *memoryTx, key K) (V, bool) {
	t.stage.Lock()
	defer t.stage.Unlock()
	row, ok := t.staged[tx][key]
	return row, ok
}

func (t *MemoryTable[K, V]) stageRow(tx *memoryTx, key K, row V) {
	t.stage.Lock()
	defer t.stage.Unlock()
	overlay, ok := t.staged[tx]
	if !ok {
		overlay = make(map[K]V)
		t.staged[tx] = overlay
		tx.touch(t)
	}
	overlay[key] = row
}

func (t *MemoryTable[K, V]) bind(lock *sync.RWMutex) {
	t.lock = lock
}

// commit publishes the rows staged by tx. shared is held by the caller; a table
// bound to a different lock takes its own.
func (t *MemoryTable[K, V]) commit(tx *memoryTx, shared *sync.RWMutex) {
	t.stage.Lock()
	overlay := t.staged[tx]
	delete(t.staged, tx)
	t.stage.Unlock()

	if t.lock != shared {
		t.lock.Lock()
		defer t.lock.Unlock()
	}
	for key, row := range overlay {
		t.rows[key] = row
	}
}

func (t *MemoryTable[K, V]) discard(tx *memoryTx) {
	t.stage.Lock()
	defer t.stage.Unlock()
	delete(t.staged, tx)
}
