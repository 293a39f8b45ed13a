package repair

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// minPasswordWidth is the minimum usable width of auth.password. bcrypt
// output is 60 characters; anything narrower silently truncates hashes and
// breaks every login for the affected rows.
const minPasswordWidth = 60

// widenPasswordTo is the width applied when the column needs widening.
const widenPasswordTo = 100

// CheckSchema inspects the auth table for the known schema anomalies:
// an undersized password column, a missing primary key, and a missing
// foreign key to usuarios. It returns a human-readable issue list.
func CheckSchema(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	var issues []string

	width, err := passwordWidth(ctx, pool)
	if err != nil {
		return nil, err
	}
	if width.Valid && width.Int64 < minPasswordWidth {
		issues = append(issues, fmt.Sprintf("la columna auth.password mide %d caracteres; se requieren al menos %d", width.Int64, minPasswordWidth))
	}

	hasPK, err := hasConstraint(ctx, pool, "PRIMARY KEY")
	if err != nil {
		return nil, err
	}
	if !hasPK {
		issues = append(issues, "la tabla auth no tiene clave primaria en id")
	}

	hasFK, err := hasConstraint(ctx, pool, "FOREIGN KEY")
	if err != nil {
		return nil, err
	}
	if !hasFK {
		issues = append(issues, "la tabla auth no tiene clave foránea hacia usuarios(id)")
	}

	return issues, nil
}

// FixSchema applies the idempotent migrations for every anomaly CheckSchema
// knows about. Each change is checked before it is applied, so running it
// against a healthy schema does nothing. It returns the statements applied.
func FixSchema(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	var applied []string

	width, err := passwordWidth(ctx, pool)
	if err != nil {
		return nil, err
	}
	if width.Valid && width.Int64 < minPasswordWidth {
		stmt := fmt.Sprintf("ALTER TABLE auth ALTER COLUMN password TYPE varchar(%d)", widenPasswordTo)
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return applied, fmt.Errorf("widening auth.password: %w", err)
		}
		applied = append(applied, stmt)
	}

	hasPK, err := hasConstraint(ctx, pool, "PRIMARY KEY")
	if err != nil {
		return applied, err
	}
	if !hasPK {
		stmt := "ALTER TABLE auth ADD PRIMARY KEY (id)"
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return applied, fmt.Errorf("adding primary key on auth: %w", err)
		}
		applied = append(applied, stmt)
	}

	hasFK, err := hasConstraint(ctx, pool, "FOREIGN KEY")
	if err != nil {
		return applied, err
	}
	if !hasFK {
		stmt := "ALTER TABLE auth ADD CONSTRAINT auth_id_fkey FOREIGN KEY (id) REFERENCES usuarios (id) ON DELETE CASCADE"
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return applied, fmt.Errorf("adding foreign key on auth: %w", err)
		}
		applied = append(applied, stmt)
	}

	return applied, nil
}

// passwordWidth returns character_maximum_length of auth.password. NULL means
// an unbounded type (text), which is always wide enough.
func passwordWidth(ctx context.Context, pool *pgxpool.Pool) (sql.NullInt64, error) {
	var width sql.NullInt64
	err := pool.QueryRow(ctx, `
		SELECT character_maximum_length
		FROM information_schema.columns
		WHERE table_name = 'auth' AND column_name = 'password'
	`).Scan(&width)
	if err != nil {
		return width, fmt.Errorf("inspecting auth.password: %w", err)
	}
	return width, nil
}

func hasConstraint(ctx context.Context, pool *pgxpool.Pool, kind string) (bool, error) {
	var count int
	err := pool.QueryRow(ctx, `
		SELECT count(*)
		FROM information_schema.table_constraints
		WHERE table_name = 'auth' AND constraint_type = $1
	`, kind).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspecting auth constraints: %w", err)
	}
	return count > 0, nil
}
