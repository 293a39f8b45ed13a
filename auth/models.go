// Package auth implements the credential-management subsystem: registration
// with password hashing, login with token issuance, the bearer-token route
// gate, and the "who am I" lookup. It talks to the database only through the
// generic store adapter.
package auth

import "github.com/user/primer-backend-go/store"

// User is a row of the usuarios table. The password hash is never part of it:
// it lives exclusively in the auth table.
type User struct {
	ID      int    `json:"id"`
	Nombre  string `json:"nombre"`
	Usuario string `json:"usuario"`
	Activo  int    `json:"activo"`
}

// Credential is a row of the auth table. Its id always equals the owning
// user's id, and usuario is a denormalized copy of the user's handle used for
// lookup.
type Credential struct {
	ID           int
	Usuario      string
	PasswordHash string
}

// PublicUser is the sanitized projection returned by the API.
type PublicUser struct {
	ID      int    `json:"id"`
	Nombre  string `json:"nombre"`
	Usuario string `json:"usuario"`
}

// UserFromRecord maps a usuarios-table record onto the User model.
func UserFromRecord(rec store.Record) User {
	return User{
		ID:      store.Int(rec, "id"),
		Nombre:  store.String(rec, "nombre"),
		Usuario: store.String(rec, "usuario"),
		Activo:  store.Int(rec, "activo"),
	}
}

// CredentialFromRecord maps an auth-table record onto the Credential model.
func CredentialFromRecord(rec store.Record) Credential {
	return Credential{
		ID:           store.Int(rec, "id"),
		Usuario:      store.String(rec, "usuario"),
		PasswordHash: store.String(rec, "password"),
	}
}

// Public returns the sanitized projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Nombre: u.Nombre, Usuario: u.Usuario}
}
