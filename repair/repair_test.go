package repair

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/primer-backend-go/auth"
	"github.com/user/primer-backend-go/config"
	"github.com/user/primer-backend-go/store"
)

// newTestFixer crea un Fixer sobre un MemStore con el costo bcrypt mínimo
// para que los tests no pierdan tiempo hasheando.
func newTestFixer(t *testing.T) (*Fixer, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	fixer := NewFixer(st, bcrypt.MinCost, t.Logf)
	return fixer, st
}

func seedUsuario(t *testing.T, st *store.MemStore, rec store.Record) int {
	t.Helper()
	id, err := st.Insert(context.Background(), store.TablaUsuarios, rec)
	require.NoError(t, err)
	return id
}

func seedCredencial(t *testing.T, st *store.MemStore, id int, usuario, hash string) {
	t.Helper()
	_, err := st.Insert(context.Background(), store.TablaAuth, store.Record{
		"id": id, "usuario": usuario, "password": hash,
	})
	require.NoError(t, err)
}

func TestDiagnose(t *testing.T) {
	fixer, st := newTestFixer(t)
	ctx := context.Background()

	// Usuario completo, usuario huérfano con handle, y usuario huérfano
	// sin handle (el caso heredado de filas creadas a mano).
	completo := seedUsuario(t, st, store.Record{"nombre": "Juan Pérez", "usuario": "juanperez", "activo": 1})
	seedCredencial(t, st, completo, "juanperez", "$2a$04$irrelevante")
	conHandle := seedUsuario(t, st, store.Record{"nombre": "María Gómez", "usuario": "mariagomez", "activo": 1})
	sinHandle := seedUsuario(t, st, store.Record{"nombre": "José Ñoño", "usuario": nil, "activo": 1})

	report, err := fixer.Diagnose(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalUsuarios)
	assert.Equal(t, 1, report.TotalCredenciales)
	require.Len(t, report.Huerfanos, 2)
	assert.Equal(t, conHandle, report.Huerfanos[0].ID)
	assert.Equal(t, sinHandle, report.Huerfanos[1].ID)
	require.Len(t, report.SinUsuario, 1)
	assert.Equal(t, sinHandle, report.SinUsuario[0].ID)
	// El store en memoria no tiene esquema que verificar.
	assert.Empty(t, report.Esquema)
}

func TestDiagnose_SinAnomalias(t *testing.T) {
	fixer, st := newTestFixer(t)

	id := seedUsuario(t, st, store.Record{"nombre": "Juan", "usuario": "juan", "activo": 1})
	seedCredencial(t, st, id, "juan", "$2a$04$irrelevante")

	report, err := fixer.Diagnose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Huerfanos)
	assert.Empty(t, report.SinUsuario)
}

func TestFixOrphans(t *testing.T) {
	fixer, st := newTestFixer(t)
	ctx := context.Background()

	conHandle := seedUsuario(t, st, store.Record{"nombre": "María Gómez", "usuario": "mariagomez", "activo": 1})
	sinHandle := seedUsuario(t, st, store.Record{"nombre": "José Ñoño", "usuario": nil, "activo": 1})

	fixed, err := fixer.FixOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, fixed, 2)

	// El huérfano con handle conserva el suyo.
	assert.Equal(t, conHandle, fixed[0].ID)
	assert.Equal(t, "mariagomez", fixed[0].Usuario)
	assert.Equal(t, TempPassword(conHandle), fixed[0].TempPassword)

	// El huérfano sin handle recibe uno derivado del nombre.
	assert.Equal(t, sinHandle, fixed[1].ID)
	assert.Equal(t, DeriveHandle("José Ñoño", sinHandle), fixed[1].Usuario)

	// El handle derivado quedó persistido en la fila de usuarios.
	rec, err := st.One(ctx, store.TablaUsuarios, sinHandle)
	require.NoError(t, err)
	assert.Equal(t, fixed[1].Usuario, store.String(rec, "usuario"))

	// Cada huérfano tiene ahora exactamente una credencial, con la
	// contraseña temporal hasheada y nunca en claro.
	creds, err := st.All(ctx, store.TablaAuth)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	for _, c := range creds {
		hash := store.String(c, "password")
		assert.NotEqual(t, TempPassword(store.Int(c, "id")), hash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(TempPassword(store.Int(c, "id")))))
	}

	// Una segunda pasada no encuentra nada que corregir.
	fixed, err = fixer.FixOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, fixed)
}

func TestFixOrphans_ColisionDeHandle(t *testing.T) {
	fixer, st := newTestFixer(t)
	ctx := context.Background()

	// Otro usuario ya ocupa el handle que se derivaría para el huérfano.
	huerfano := seedUsuario(t, st, store.Record{"nombre": "Ana", "usuario": nil, "activo": 1})
	derivado := DeriveHandle("Ana", huerfano)
	ocupante := seedUsuario(t, st, store.Record{"nombre": "Impostora", "usuario": derivado, "activo": 1})
	seedCredencial(t, st, ocupante, derivado, "$2a$04$irrelevante")

	fixed, err := fixer.FixOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, FallbackHandle(huerfano), fixed[0].Usuario)
}

// duplicateOnInsert simula una carrera: el insert en auth para un id concreto
// devuelve clave duplicada, como si otro proceso hubiera creado la credencial
// entre el diagnóstico y la corrección.
type duplicateOnInsert struct {
	store.Store
	authID int
}

func (d *duplicateOnInsert) Insert(ctx context.Context, table string, record store.Record) (int, error) {
	if table == store.TablaAuth && store.Int(record, "id") == d.authID {
		return 0, store.ErrDuplicateKey
	}
	return d.Store.Insert(ctx, table, record)
}

func TestFixOrphans_SaltaCredencialDuplicada(t *testing.T) {
	_, st := newTestFixer(t)
	ctx := context.Background()

	ganador := seedUsuario(t, st, store.Record{"nombre": "Juan", "usuario": "juan", "activo": 1})
	perdedor := seedUsuario(t, st, store.Record{"nombre": "Eva", "usuario": "eva", "activo": 1})

	fixer := NewFixer(&duplicateOnInsert{Store: st, authID: perdedor}, bcrypt.MinCost, t.Logf)
	fixed, err := fixer.FixOrphans(ctx)

	// La fila duplicada se salta sin abortar la pasada.
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, ganador, fixed[0].ID)
}

func TestFixOrphans_PasswordTemporalPermiteLogin(t *testing.T) {
	fixer, st := newTestFixer(t)
	ctx := context.Background()

	seedUsuario(t, st, store.Record{"nombre": "José Ñoño", "usuario": nil, "activo": 1})

	fixed, err := fixer.FixOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, fixed, 1)

	tokens, err := auth.NewTokenService(&config.AuthConfig{
		JWTSecret:     "secreto-de-prueba",
		TokenDuration: time.Hour,
	})
	require.NoError(t, err)
	svc := auth.NewService(st, tokens, bcrypt.MinCost)

	result, err := svc.Login(ctx, auth.LoginRequest{
		Usuario:  fixed[0].Usuario,
		Password: fixed[0].TempPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, fixed[0].Usuario, result.Usuario.Usuario)
}
