package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, which lets
// SQLStore run the same statements inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SQLStore implements Store over a pgx connection pool.
type SQLStore struct {
	pool *pgxpool.Pool
	q    querier // pool normally, the open pgx.Tx inside WithTx
}

// NewSQLStore creates a Store backed by the given pool.
func NewSQLStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{pool: pool, q: pool}
}

// Pool exposes the underlying connection pool for callers that need raw SQL
// beyond the generic contract (the repair tooling's schema checks).
func (s *SQLStore) Pool() *pgxpool.Pool {
	return s.pool
}

// All returns every row of the table.
func (s *SQLStore) All(ctx context.Context, table string) ([]Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, mapPgError(err)
	}
	return collectRecords(rows)
}

// One returns the row with the given id.
func (s *SQLStore) One(ctx context.Context, table string, id int) (Record, error) {
	recs, err := s.Where(ctx, table, Record{"id": id})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoRows
	}
	return recs[0], nil
}

// Where returns the rows matching every equality predicate.
func (s *SQLStore) Where(ctx context.Context, table string, predicates Record) ([]Record, error) {
	query, args, err := buildSelectWhere(table, predicates)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	return collectRecords(rows)
}

// Insert adds a new row and returns its id.
func (s *SQLStore) Insert(ctx context.Context, table string, record Record) (int, error) {
	query, args, err := buildInsert(table, record)
	if err != nil {
		return 0, err
	}
	var id int
	if err := s.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Upsert inserts the record when it has no "id" column and otherwise updates
// the row with that id, falling back to an insert when no such row exists.
// The update-then-insert order deliberately avoids ON CONFLICT: legacy auth
// tables may lack the unique constraint it requires.
func (s *SQLStore) Upsert(ctx context.Context, table string, record Record) (int, error) {
	idVal, hasID := record["id"]
	if !hasID {
		return s.Insert(ctx, table, record)
	}
	id, err := AsInt(idVal)
	if err != nil {
		return 0, fmt.Errorf("%w: id column: %v", ErrBadIdentifier, err)
	}

	query, args, err := buildUpdate(table, record, id)
	if err != nil {
		return 0, err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return s.Insert(ctx, table, record)
	}
	return id, nil
}

// Delete removes the row with the given id.
func (s *SQLStore) Delete(ctx context.Context, table string, id int) error {
	if err := checkTable(table); err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %q WHERE id = $1`, table), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// WithTx runs fn inside a database transaction. Calls made on the Store passed
// to fn all share the transaction; fn returning an error rolls it back.
func (s *SQLStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if _, ok := s.q.(pgx.Tx); ok {
		// Already inside a transaction; reuse it.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPgError(err)
	}
	txStore := &SQLStore{pool: s.pool, q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err)
	}
	return nil
}

// --- statement builders ---
// Pure functions so query construction is testable without a database.
// Columns are emitted in sorted order to keep statements deterministic.

func buildSelectWhere(table string, predicates Record) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(predicates)
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT * FROM %q`, table)
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, `%q = $%d`, col, i+1)
		args = append(args, predicates[col])
	}
	return sb.String(), args, nil
}

func buildInsert(table string, record Record) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(record)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("%w: empty record", ErrBadIdentifier)
	}
	quoted := make([]string, len(cols))
	holders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = fmt.Sprintf("%q", col)
		holders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[col]
	}
	query := fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s) RETURNING id`,
		table, strings.Join(quoted, ", "), strings.Join(holders, ", "))
	return query, args, nil
}

func buildUpdate(table string, record Record, id int) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(record)
	if err != nil {
		return "", nil, err
	}
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	n := 0
	for _, col := range cols {
		if col == "id" {
			continue
		}
		n++
		sets = append(sets, fmt.Sprintf(`%q = $%d`, col, n))
		args = append(args, record[col])
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("%w: record has no columns besides id", ErrBadIdentifier)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %q SET %s WHERE id = $%d`,
		table, strings.Join(sets, ", "), n+1)
	return query, args, nil
}

func sortedColumns(record Record) ([]string, error) {
	cols := make([]string, 0, len(record))
	for col := range record {
		if err := checkIdent(col); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols, nil
}

// collectRecords drains rows into column→value maps.
func collectRecords(rows pgx.Rows) ([]Record, error) {
	recs, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapPgError(err)
	}
	return recs, nil
}

// mapPgError translates backend errors into the package sentinels so callers
// never depend on pgx error codes.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}
