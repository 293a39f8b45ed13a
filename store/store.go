// Package store provides generic, parametrized CRUD access to the named
// relational tables. Every other layer (auth domain, CRUD modules, repair
// tooling) talks to the database exclusively through the Store interface, so
// business logic stays independent of the concrete backend and tests can run
// against the in-memory implementation.
//
// Table names are allowlisted and column identifiers validated before they are
// interpolated into SQL; values are always bound as query parameters. Building
// statements any other way is an injection hazard.
package store

import (
	"context"
	"errors"
	"regexp"
)

// Allowlisted table names. The adapter refuses to touch any table not named
// here.
const (
	TablaUsuarios = "usuarios"
	TablaAuth     = "auth"
	TablaClientes = "clientes"
)

// Sentinel errors returned by all Store implementations. Callers match them
// with errors.Is and never need to know backend-specific error codes.
var (
	// ErrNoRows indicates the requested row does not exist.
	ErrNoRows = errors.New("store: no rows in result")
	// ErrDuplicateKey indicates a unique-constraint violation.
	ErrDuplicateKey = errors.New("store: duplicate key")
	// ErrUnknownTable indicates a table name outside the allowlist.
	ErrUnknownTable = errors.New("store: unknown table")
	// ErrBadIdentifier indicates a column name that failed validation.
	ErrBadIdentifier = errors.New("store: invalid identifier")
)

// Record is one table row as a column→value map.
type Record = map[string]any

// Store is the generic data-access contract.
type Store interface {
	// All returns every row of the table.
	All(ctx context.Context, table string) ([]Record, error)
	// One returns the row with the given id, or ErrNoRows.
	One(ctx context.Context, table string, id int) (Record, error)
	// Where returns the rows matching every equality predicate (AND-ed
	// column by column).
	Where(ctx context.Context, table string, predicates Record) ([]Record, error)
	// Insert adds a new row and returns its id. When the record carries an
	// "id" column it is inserted verbatim; otherwise the store generates one.
	Insert(ctx context.Context, table string, record Record) (int, error)
	// Upsert inserts the record when it has no "id" column, and otherwise
	// updates the existing row with that id (inserting when none exists).
	Upsert(ctx context.Context, table string, record Record) (int, error)
	// Delete removes the row with the given id.
	Delete(ctx context.Context, table string, id int) error
	// WithTx runs fn against a transactional view of the store. fn returning
	// an error rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// checkTable validates a table name against the allowlist.
func checkTable(table string) error {
	switch table {
	case TablaUsuarios, TablaAuth, TablaClientes:
		return nil
	}
	return ErrUnknownTable
}

// checkIdent validates a column identifier.
func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return ErrBadIdentifier
	}
	return nil
}
