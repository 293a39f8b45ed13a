package repair

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/user/primer-backend-go/auth"
	"github.com/user/primer-backend-go/store"
)

// Report is the result of a diagnosis pass over the two tables.
type Report struct {
	TotalUsuarios     int
	TotalCredenciales int
	// Huerfanos are users with no matching credential row.
	Huerfanos []auth.User
	// SinUsuario are users whose login handle is NULL; they cannot log in.
	SinUsuario []auth.User
	// Esquema lists schema anomalies (only filled when the store exposes a
	// raw connection; the in-memory store has no schema to drift).
	Esquema []string
}

// Fixed describes one repaired orphan. TempPassword is plaintext for
// out-of-band delivery to the affected user; it is never persisted.
type Fixed struct {
	ID           int
	Usuario      string
	TempPassword string
}

// Fixer runs the repair routines against a store.
type Fixer struct {
	store      store.Store
	bcryptCost int
	logf       func(format string, args ...any)
}

// NewFixer creates a Fixer. A nil logf defaults to the standard logger.
func NewFixer(st store.Store, bcryptCost int, logf func(format string, args ...any)) *Fixer {
	if logf == nil {
		logf = log.Printf
	}
	return &Fixer{store: st, bcryptCost: bcryptCost, logf: logf}
}

// Diagnose enumerates both tables and reports every violation of the
// user↔credential invariant. It writes nothing.
func (f *Fixer) Diagnose(ctx context.Context) (*Report, error) {
	usuarios, creds, err := f.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	credByID := make(map[int]bool, len(creds))
	for _, c := range creds {
		credByID[store.Int(c, "id")] = true
	}

	report := &Report{
		TotalUsuarios:     len(usuarios),
		TotalCredenciales: len(creds),
	}
	for _, rec := range usuarios {
		u := auth.UserFromRecord(rec)
		if !credByID[u.ID] {
			report.Huerfanos = append(report.Huerfanos, u)
		}
		if store.IsNull(rec, "usuario") || u.Usuario == "" {
			report.SinUsuario = append(report.SinUsuario, u)
		}
	}

	if sqlStore, ok := f.store.(*store.SQLStore); ok {
		issues, err := CheckSchema(ctx, sqlStore.Pool())
		if err != nil {
			return nil, err
		}
		report.Esquema = issues
	}

	return report, nil
}

// FixOrphans heals every user lacking a credential row: derives a handle when
// the user has none, assigns a hashed deterministic temporary password, and
// inserts the credential. A duplicate-key failure on one row is logged and
// skipped; any other failure aborts the run.
func (f *Fixer) FixOrphans(ctx context.Context) ([]Fixed, error) {
	report, err := f.Diagnose(ctx)
	if err != nil {
		return nil, err
	}
	if len(report.Huerfanos) == 0 {
		f.logf("todos los usuarios tienen datos de autenticación, nada que corregir")
		return nil, nil
	}

	var fixed []Fixed
	for _, u := range report.Huerfanos {
		handle := u.Usuario
		if handle == "" {
			handle, err = f.assignHandle(ctx, u)
			if err != nil {
				return fixed, err
			}
		}

		temp := TempPassword(u.ID)
		hash, err := auth.HashPassword(temp, f.bcryptCost)
		if err != nil {
			return fixed, fmt.Errorf("hashing temporary password for user %d: %w", u.ID, err)
		}

		_, err = f.store.Insert(ctx, store.TablaAuth, store.Record{
			"id":       u.ID,
			"usuario":  handle,
			"password": hash,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				f.logf("ya existe un registro en auth para el usuario %d, saltando", u.ID)
				continue
			}
			return fixed, err
		}

		// The plaintext goes to the operator's console only, never to the store.
		f.logf("usuario %d reparado: usuario=%s, password temporal=%s (cambiarla tras el primer login)", u.ID, handle, temp)
		fixed = append(fixed, Fixed{ID: u.ID, Usuario: handle, TempPassword: temp})
	}
	return fixed, nil
}

// assignHandle derives a handle for a user with a NULL one and persists it on
// the usuarios row. When the derived handle collides with an existing row it
// falls back to the literal user<id> pattern.
func (f *Fixer) assignHandle(ctx context.Context, u auth.User) (string, error) {
	handle := DeriveHandle(u.Nombre, u.ID)
	existing, err := f.store.Where(ctx, store.TablaUsuarios, store.Record{"usuario": handle})
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		handle = FallbackHandle(u.ID)
	}

	f.logf("usuario %d sin campo usuario, generando: %s", u.ID, handle)
	if _, err := f.store.Upsert(ctx, store.TablaUsuarios, store.Record{"id": u.ID, "usuario": handle}); err != nil {
		return "", err
	}
	return handle, nil
}

func (f *Fixer) snapshot(ctx context.Context) ([]store.Record, []store.Record, error) {
	usuarios, err := f.store.All(ctx, store.TablaUsuarios)
	if err != nil {
		return nil, nil, fmt.Errorf("reading usuarios: %w", err)
	}
	creds, err := f.store.All(ctx, store.TablaAuth)
	if err != nil {
		return nil, nil, fmt.Errorf("reading auth: %w", err)
	}
	return usuarios, creds, nil
}
