package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/store"
)

// Internal login failures. They are distinguishable here (and in logs) but
// the HTTP layer collapses all three into one generic 401 so a caller cannot
// probe which half of a credential pair was wrong.
var (
	// ErrUsuarioNoEncontrado indicates no usuarios row matches the handle.
	ErrUsuarioNoEncontrado = apperror.NewAuthError("Usuario no encontrado", nil)
	// ErrAuthNoEncontrado indicates the user exists but has no credential row.
	ErrAuthNoEncontrado = apperror.NewAuthError("Datos de autenticación no encontrados", nil)
	// ErrPasswordIncorrecto indicates the password did not match the stored hash.
	ErrPasswordIncorrecto = apperror.NewAuthError("Contraseña incorrecta", nil)
)

// MinPasswordLen is the minimum accepted password length at registration.
const MinPasswordLen = 6

// Service implements the auth domain logic over the generic store adapter.
type Service struct {
	store      store.Store
	tokens     *TokenService
	bcryptCost int
}

// NewService creates the auth service with its dependencies injected.
func NewService(st store.Store, tokens *TokenService, bcryptCost int) *Service {
	return &Service{store: st, tokens: tokens, bcryptCost: bcryptCost}
}

// Login verifies the handle/password pair and issues a bearer token carrying
// the user's identity claims.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	users, err := s.store.Where(ctx, store.TablaUsuarios, store.Record{"usuario": req.Usuario})
	if err != nil {
		return nil, apperror.NewDatabaseError("Error consultando usuarios", err)
	}
	if len(users) == 0 {
		return nil, ErrUsuarioNoEncontrado
	}
	user := UserFromRecord(users[0])

	creds, err := s.store.Where(ctx, store.TablaAuth, store.Record{"usuario": req.Usuario})
	if err != nil {
		return nil, apperror.NewDatabaseError("Error consultando autenticación", err)
	}
	if len(creds) == 0 {
		return nil, ErrAuthNoEncontrado
	}
	cred := CredentialFromRecord(creds[0])

	if !CheckPassword(req.Password, cred.PasswordHash) {
		return nil, ErrPasswordIncorrecto
	}

	token, err := s.tokens.Issue(user.ID, user.Usuario)
	if err != nil {
		return nil, apperror.NewInternalError("Error generando token", err)
	}

	return &LoginResult{Token: token, Usuario: user.Public()}, nil
}

// Registrar creates a user and its credential row. The two writes run inside
// one store transaction: a failure inserting the credential rolls back the
// user row, so registration can never leave an orphan behind.
func (s *Service) Registrar(ctx context.Context, req RegisterRequest) (*PublicUser, error) {
	if req.Nombre == "" || req.Usuario == "" || req.Password == "" {
		return nil, apperror.NewValidationError("Datos incompletos: nombre, usuario y password son requeridos", nil)
	}
	if len(req.Password) < MinPasswordLen {
		return nil, apperror.NewValidationError("La contraseña debe tener al menos 6 caracteres", nil)
	}

	existing, err := s.store.Where(ctx, store.TablaUsuarios, store.Record{"usuario": req.Usuario})
	if err != nil {
		return nil, apperror.NewDatabaseError("Error consultando usuarios", err)
	}
	if len(existing) > 0 {
		return nil, apperror.NewConflictError("El usuario ya existe", nil)
	}

	// Hash before opening the transaction; bcrypt is the slow part and the
	// transaction should stay short.
	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("Error procesando contraseña", err)
	}

	var id int
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		id, err = tx.Insert(ctx, store.TablaUsuarios, store.Record{
			"nombre":  req.Nombre,
			"usuario": req.Usuario,
			"activo":  1,
		})
		if err != nil {
			return err
		}
		_, err = tx.Insert(ctx, store.TablaAuth, store.Record{
			"id":       id,
			"usuario":  req.Usuario,
			"password": hash,
		})
		return err
	})
	if err != nil {
		// Two concurrent registrations for the same handle race to the
		// usuario unique constraint; the loser surfaces here.
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("El usuario ya existe", nil)
		}
		return nil, apperror.NewDatabaseError("Error registrando usuario", err)
	}

	return &PublicUser{ID: id, Nombre: req.Nombre, Usuario: req.Usuario}, nil
}

// ObtenerUsuario fetches a user by id. Only usuarios-table columns are ever
// returned; the password hash lives in the auth table and is never selected.
func (s *Service) ObtenerUsuario(ctx context.Context, id int) (*User, error) {
	rec, err := s.store.One(ctx, store.TablaUsuarios, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Usuario no encontrado", nil)
		}
		return nil, apperror.NewDatabaseError("Error consultando usuario", err)
	}
	user := UserFromRecord(rec)
	return &user, nil
}

// ValidateLoginRequest rejects requests with missing fields before they reach
// the domain flow.
func ValidateLoginRequest(req LoginRequest) error {
	if strings.TrimSpace(req.Usuario) == "" || req.Password == "" {
		return apperror.NewBadRequestError("Usuario y contraseña son requeridos", nil)
	}
	return nil
}
