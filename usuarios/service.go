// Package usuarios implements generic CRUD over the usuarios table, backed by
// the store adapter. Besides the plain row operations it honors the
// credential lifecycle: saving a user together with a handle and password
// provisions the matching auth row, and deleting a user removes it.
package usuarios

import (
	"context"
	"errors"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/auth"
	"github.com/user/primer-backend-go/store"
)

// GuardarRequest is the insert-or-update payload. A zero ID means insert.
// Usuario and Password are optional; when both are present the credential row
// is created or refreshed alongside.
type GuardarRequest struct {
	ID       int    `json:"id,omitempty"`
	Nombre   string `json:"nombre" example:"Juan Pérez"`
	Usuario  string `json:"usuario,omitempty" example:"juanperez"`
	Activo   *int   `json:"activo,omitempty" example:"1"`
	Password string `json:"password,omitempty"`
}

// Service provides user CRUD over the store adapter.
type Service struct {
	store      store.Store
	bcryptCost int
}

// NewService creates the usuarios service.
func NewService(st store.Store, bcryptCost int) *Service {
	return &Service{store: st, bcryptCost: bcryptCost}
}

// Todos returns every user.
func (s *Service) Todos(ctx context.Context) ([]auth.User, error) {
	recs, err := s.store.All(ctx, store.TablaUsuarios)
	if err != nil {
		return nil, apperror.NewDatabaseError("Error consultando usuarios", err)
	}
	users := make([]auth.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, auth.UserFromRecord(rec))
	}
	return users, nil
}

// Uno returns the user with the given id.
func (s *Service) Uno(ctx context.Context, id int) (*auth.User, error) {
	rec, err := s.store.One(ctx, store.TablaUsuarios, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Usuario no encontrado", nil)
		}
		return nil, apperror.NewDatabaseError("Error consultando usuario", err)
	}
	user := auth.UserFromRecord(rec)
	return &user, nil
}

// Guardar inserts or updates a user. When the request carries a handle and a
// password it also writes the credential row with the same id, inside the
// same transaction.
func (s *Service) Guardar(ctx context.Context, req GuardarRequest) (*auth.User, error) {
	if req.Nombre == "" {
		return nil, apperror.NewValidationError("El campo nombre es requerido", nil)
	}
	if req.Password != "" {
		if req.Usuario == "" {
			return nil, apperror.NewValidationError("El campo usuario es requerido para asignar contraseña", nil)
		}
		if len(req.Password) < auth.MinPasswordLen {
			return nil, apperror.NewValidationError("La contraseña debe tener al menos 6 caracteres", nil)
		}
	}

	rec := store.Record{"nombre": req.Nombre}
	if req.ID != 0 {
		rec["id"] = req.ID
	}
	if req.Usuario != "" {
		rec["usuario"] = req.Usuario
	}
	if req.Activo != nil {
		rec["activo"] = *req.Activo
	} else if req.ID == 0 {
		rec["activo"] = 1
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("Error procesando contraseña", err)
		}
	}

	var id int
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		id, err = tx.Upsert(ctx, store.TablaUsuarios, rec)
		if err != nil {
			return err
		}
		if hash != "" {
			_, err = tx.Upsert(ctx, store.TablaAuth, store.Record{
				"id":       id,
				"usuario":  req.Usuario,
				"password": hash,
			})
		}
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("El usuario ya existe", nil)
		}
		return nil, apperror.NewDatabaseError("Error guardando usuario", err)
	}

	return s.Uno(ctx, id)
}

// Eliminar removes a user and its credential row. The auth row is deleted
// explicitly rather than trusting the FK cascade: legacy schemas may not have
// the constraint yet.
func (s *Service) Eliminar(ctx context.Context, id int) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Delete(ctx, store.TablaAuth, id); err != nil && !errors.Is(err, store.ErrNoRows) {
			return apperror.NewDatabaseError("Error eliminando autenticación", err)
		}
		if err := tx.Delete(ctx, store.TablaUsuarios, id); err != nil {
			if errors.Is(err, store.ErrNoRows) {
				return apperror.NewNotFoundError("Usuario no encontrado", nil)
			}
			return apperror.NewDatabaseError("Error eliminando usuario", err)
		}
		return nil
	})
}
