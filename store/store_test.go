package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectWhere(t *testing.T) {
	query, args, err := buildSelectWhere(TablaUsuarios, Record{"usuario": "juanperez"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "usuarios" WHERE "usuario" = $1`, query)
	assert.Equal(t, []any{"juanperez"}, args)

	// Los predicados se emiten en orden alfabético de columna.
	query, args, err = buildSelectWhere(TablaUsuarios, Record{"usuario": "x", "activo": 1})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "usuarios" WHERE "activo" = $1 AND "usuario" = $2`, query)
	assert.Equal(t, []any{1, "x"}, args)

	query, _, err = buildSelectWhere(TablaAuth, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "auth"`, query)
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert(TablaAuth, Record{"id": 3, "usuario": "x", "password": "h"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "auth" ("id", "password", "usuario") VALUES ($1, $2, $3) RETURNING id`, query)
	assert.Equal(t, []any{3, "h", "x"}, args)

	_, _, err = buildInsert(TablaAuth, Record{})
	assert.ErrorIs(t, err, ErrBadIdentifier)
}

func TestBuildUpdate(t *testing.T) {
	query, args, err := buildUpdate(TablaUsuarios, Record{"id": 5, "usuario": "nuevo"}, 5)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "usuarios" SET "usuario" = $1 WHERE id = $2`, query)
	assert.Equal(t, []any{"nuevo", 5}, args)

	_, _, err = buildUpdate(TablaUsuarios, Record{"id": 5}, 5)
	assert.ErrorIs(t, err, ErrBadIdentifier)
}

func TestIdentifierValidation(t *testing.T) {
	// Tablas fuera de la lista blanca y columnas con caracteres extraños
	// se rechazan antes de construir SQL.
	_, _, err := buildSelectWhere("usuarios; DROP TABLE auth", nil)
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, _, err = buildSelectWhere(TablaUsuarios, Record{`usuario" OR 1=1 --`: "x"})
	assert.ErrorIs(t, err, ErrBadIdentifier)

	_, _, err = buildInsert(TablaAuth, Record{"Pass Word": "x"})
	assert.ErrorIs(t, err, ErrBadIdentifier)
}

func TestMemStore_InsertAndLookup(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	id, err := st.Insert(ctx, TablaUsuarios, Record{"nombre": "Juan", "usuario": "juanperez", "activo": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	rec, err := st.One(ctx, TablaUsuarios, id)
	require.NoError(t, err)
	assert.Equal(t, "Juan", String(rec, "nombre"))

	_, err = st.One(ctx, TablaUsuarios, 99)
	assert.ErrorIs(t, err, ErrNoRows)

	recs, err := st.Where(ctx, TablaUsuarios, Record{"usuario": "juanperez"})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	recs, err = st.Where(ctx, TablaUsuarios, Record{"usuario": "nadie"})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMemStore_DuplicateKeys(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	_, err := st.Insert(ctx, TablaUsuarios, Record{"nombre": "Juan", "usuario": "juanperez"})
	require.NoError(t, err)

	// usuario es único en la tabla usuarios.
	_, err = st.Insert(ctx, TablaUsuarios, Record{"nombre": "Otro", "usuario": "juanperez"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Insertar dos veces con el mismo id explícito viola la clave primaria.
	_, err = st.Insert(ctx, TablaAuth, Record{"id": 1, "usuario": "juanperez", "password": "h"})
	require.NoError(t, err)
	_, err = st.Insert(ctx, TablaAuth, Record{"id": 1, "usuario": "juanperez", "password": "h"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemStore_UpsertAndDelete(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	id, err := st.Upsert(ctx, TablaClientes, Record{"nombre": "María", "edad": 25})
	require.NoError(t, err)

	// Upsert con id actualiza la fila existente.
	_, err = st.Upsert(ctx, TablaClientes, Record{"id": id, "nombre": "María López"})
	require.NoError(t, err)
	rec, err := st.One(ctx, TablaClientes, id)
	require.NoError(t, err)
	assert.Equal(t, "María López", String(rec, "nombre"))
	assert.Equal(t, 25, Int(rec, "edad"))

	// Upsert con id inexistente inserta.
	_, err = st.Upsert(ctx, TablaClientes, Record{"id": 42, "nombre": "Carlos"})
	require.NoError(t, err)
	_, err = st.One(ctx, TablaClientes, 42)
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, TablaClientes, id))
	assert.ErrorIs(t, st.Delete(ctx, TablaClientes, id), ErrNoRows)
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{"id": int64(7), "nombre": "Juan", "usuario": nil}

	assert.Equal(t, 7, Int(rec, "id"))
	assert.Equal(t, "Juan", String(rec, "nombre"))
	assert.Equal(t, "", String(rec, "usuario"))
	assert.True(t, IsNull(rec, "usuario"))
	assert.True(t, IsNull(rec, "no_such_column"))
	assert.False(t, IsNull(rec, "nombre"))

	n, err := AsInt(int32(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = AsInt("siete")
	assert.Error(t, err)
}
