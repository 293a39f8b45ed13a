package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHandle(t *testing.T) {
	// Minúsculas, sin tildes ni espacios, con el id al final.
	assert.Equal(t, "juanperez7", DeriveHandle("Juan Pérez", 7))
	assert.Equal(t, "josenono12", DeriveHandle("José Ñoño", 12))
	assert.Equal(t, "maria3", DeriveHandle("María", 3))

	// La base se trunca a 15 caracteres antes del sufijo.
	assert.Equal(t, "maximilianodela9", DeriveHandle("Maximiliano de la Torre Aguilar", 9))

	// Nombres vacíos o sin caracteres útiles caen en "user".
	assert.Equal(t, "user4", DeriveHandle("", 4))
	assert.Equal(t, "user8", DeriveHandle("!!! ???", 8))

	// Los dígitos del nombre sobreviven.
	assert.Equal(t, "agente0075", DeriveHandle("Agente 007", 5))
}

func TestDeriveHandleDeterministico(t *testing.T) {
	a := DeriveHandle("Ana López", 21)
	b := DeriveHandle("Ana López", 21)
	assert.Equal(t, a, b)
}

func TestFallbackHandle(t *testing.T) {
	assert.Equal(t, "user15", FallbackHandle(15))
}

func TestTempPassword(t *testing.T) {
	assert.Equal(t, "password15", TempPassword(15))
}
