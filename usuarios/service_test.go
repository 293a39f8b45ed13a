package usuarios

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/store"
)

func newTestService(t *testing.T) (*Service, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	return NewService(st, bcrypt.MinCost), st
}

func intPtr(n int) *int { return &n }

func TestGuardar_SoloUsuario(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, err := svc.Guardar(ctx, GuardarRequest{Nombre: "Juan Pérez"})
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", user.Nombre)
	assert.Equal(t, 1, user.Activo) // activo por defecto en inserciones

	// Sin contraseña no se crea fila de credenciales.
	creds, err := st.All(ctx, store.TablaAuth)
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestGuardar_ConCredencial(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, err := svc.Guardar(ctx, GuardarRequest{
		Nombre:   "Juan Pérez",
		Usuario:  "juanperez",
		Password: "secreta123",
	})
	require.NoError(t, err)

	// La credencial comparte id con el usuario y guarda el hash, no el
	// texto en claro.
	rec, err := st.One(ctx, store.TablaAuth, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "juanperez", store.String(rec, "usuario"))
	hash := store.String(rec, "password")
	assert.NotEqual(t, "secreta123", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secreta123")))
}

func TestGuardar_ActualizaYRefrescaPassword(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, err := svc.Guardar(ctx, GuardarRequest{
		Nombre: "Juan", Usuario: "juan", Password: "original123",
	})
	require.NoError(t, err)

	actualizado, err := svc.Guardar(ctx, GuardarRequest{
		ID: user.ID, Nombre: "Juan Actualizado", Usuario: "juan",
		Activo: intPtr(0), Password: "renovada456",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, actualizado.ID)
	assert.Equal(t, "Juan Actualizado", actualizado.Nombre)
	assert.Equal(t, 0, actualizado.Activo)

	// Sigue habiendo una sola credencial, ahora con la contraseña nueva.
	creds, err := st.All(ctx, store.TablaAuth)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	hash := store.String(creds[0], "password")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("renovada456")))
}

func TestGuardar_Validacion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  GuardarRequest
	}{
		{"sin nombre", GuardarRequest{Usuario: "x", Password: "secreta123"}},
		{"password sin usuario", GuardarRequest{Nombre: "Juan", Password: "secreta123"}},
		{"password corta", GuardarRequest{Nombre: "Juan", Usuario: "juan", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Guardar(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidationError(err))
		})
	}
}

func TestGuardar_HandleDuplicado(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Guardar(ctx, GuardarRequest{Nombre: "Juan", Usuario: "juan"})
	require.NoError(t, err)

	_, err = svc.Guardar(ctx, GuardarRequest{Nombre: "Otro", Usuario: "juan"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestTodosYUno(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Guardar(ctx, GuardarRequest{Nombre: "Ana", Usuario: "ana"})
	require.NoError(t, err)
	_, err = svc.Guardar(ctx, GuardarRequest{Nombre: "Berta", Usuario: "berta"})
	require.NoError(t, err)

	todos, err := svc.Todos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	uno, err := svc.Uno(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", uno.Nombre)

	_, err = svc.Uno(ctx, 999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEliminar(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, err := svc.Guardar(ctx, GuardarRequest{
		Nombre: "Juan", Usuario: "juan", Password: "secreta123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Eliminar(ctx, user.ID))

	// Desaparecen el usuario y su credencial.
	_, err = st.One(ctx, store.TablaUsuarios, user.ID)
	assert.ErrorIs(t, err, store.ErrNoRows)
	_, err = st.One(ctx, store.TablaAuth, user.ID)
	assert.ErrorIs(t, err, store.ErrNoRows)

	// Borrar de nuevo es 404; borrar un usuario sin credencial funciona.
	err = svc.Eliminar(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	sinCred, err := svc.Guardar(ctx, GuardarRequest{Nombre: "Eva"})
	require.NoError(t, err)
	require.NoError(t, svc.Eliminar(ctx, sinCred.ID))
}
