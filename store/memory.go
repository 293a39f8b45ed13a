package store

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store implementation. It mirrors the relevant
// relational behavior of the SQL store — generated ids, the uniqueness of
// usuarios.usuario and of every primary key — so domain logic and the repair
// tooling can be exercised without a database.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]map[int]Record
	nextID map[string]int
}

// NewMemStore creates an empty in-memory store with the allowlisted tables.
func NewMemStore() *MemStore {
	tables := make(map[string]map[int]Record)
	nextID := make(map[string]int)
	for _, t := range []string{TablaUsuarios, TablaAuth, TablaClientes} {
		tables[t] = make(map[int]Record)
		nextID[t] = 1
	}
	return &MemStore{tables: tables, nextID: nextID}
}

// All returns every row of the table.
func (m *MemStore) All(_ context.Context, table string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, ErrUnknownTable
	}
	return sortedByID(rows), nil
}

// One returns the row with the given id.
func (m *MemStore) One(_ context.Context, table string, id int) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, ErrUnknownTable
	}
	rec, ok := rows[id]
	if !ok {
		return nil, ErrNoRows
	}
	return clone(rec), nil
}

// Where returns the rows matching every equality predicate.
func (m *MemStore) Where(_ context.Context, table string, predicates Record) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, ErrUnknownTable
	}
	for col := range predicates {
		if err := checkIdent(col); err != nil {
			return nil, err
		}
	}
	var out []Record
	for _, rec := range sortedByID(rows) {
		if matches(rec, predicates) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Insert adds a new row and returns its id.
func (m *MemStore) Insert(_ context.Context, table string, record Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(table, record)
}

// Upsert inserts or updates by id.
func (m *MemStore) Upsert(_ context.Context, table string, record Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return 0, ErrUnknownTable
	}
	idVal, hasID := record["id"]
	if !hasID {
		return m.insertLocked(table, record)
	}
	id, err := AsInt(idVal)
	if err != nil {
		return 0, err
	}
	existing, ok := rows[id]
	if !ok {
		return m.insertLocked(table, record)
	}
	if table == TablaUsuarios {
		if err := m.checkUniqueHandleLocked(String(record, "usuario"), id); err != nil {
			return 0, err
		}
	}
	for col, val := range record {
		if col == "id" {
			continue
		}
		existing[col] = val
	}
	return id, nil
}

// Delete removes the row with the given id.
func (m *MemStore) Delete(_ context.Context, table string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return ErrUnknownTable
	}
	if _, ok := rows[id]; !ok {
		return ErrNoRows
	}
	delete(rows, id)
	return nil
}

// WithTx runs fn against the store itself. The in-memory store has no
// rollback; tests that need partial-failure behavior drive it explicitly.
func (m *MemStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *MemStore) insertLocked(table string, record Record) (int, error) {
	rows, ok := m.tables[table]
	if !ok {
		return 0, ErrUnknownTable
	}
	for col := range record {
		if err := checkIdent(col); err != nil {
			return 0, err
		}
	}
	var id int
	if idVal, hasID := record["id"]; hasID && idVal != nil {
		var err error
		id, err = AsInt(idVal)
		if err != nil {
			return 0, err
		}
		if _, exists := rows[id]; exists {
			return 0, ErrDuplicateKey
		}
		if id >= m.nextID[table] {
			m.nextID[table] = id + 1
		}
	} else {
		id = m.nextID[table]
		m.nextID[table]++
	}
	if table == TablaUsuarios {
		if err := m.checkUniqueHandleLocked(String(record, "usuario"), id); err != nil {
			return 0, err
		}
	}
	rec := clone(record)
	rec["id"] = id
	rows[id] = rec
	return id, nil
}

// checkUniqueHandleLocked enforces the unique constraint on usuarios.usuario.
func (m *MemStore) checkUniqueHandleLocked(handle string, selfID int) error {
	if handle == "" {
		return nil // NULL handles are legal on legacy rows
	}
	for id, rec := range m.tables[TablaUsuarios] {
		if id != selfID && String(rec, "usuario") == handle {
			return ErrDuplicateKey
		}
	}
	return nil
}

func matches(rec Record, predicates Record) bool {
	for col, want := range predicates {
		got, ok := rec[col]
		if !ok {
			return false
		}
		if gi, err := AsInt(got); err == nil {
			wi, err := AsInt(want)
			if err != nil || gi != wi {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func sortedByID(rows map[int]Record) []Record {
	ids := make([]int, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(rows[id]))
	}
	return out
}

func clone(rec Record) Record {
	cp := make(Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}
