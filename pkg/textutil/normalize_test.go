package textutil_test

import (
	"testing"

	"github.com/lromero/cpr-api/pkg/textutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_QuitaAcentosYMinusculas(t *testing.T) {
	assert.Equal(t, "salsa espanola", textutil.Normalize("Salsa Española"))
	assert.Equal(t, "creme brulee", textutil.Normalize("Crème Brûlée"))
	assert.Equal(t, "fondo de ave", textutil.Normalize("  Fondo de Ave "))
}

func TestNormalize_TextoYaPlano(t *testing.T) {
	assert.Equal(t, "bizcocho", textutil.Normalize("bizcocho"))
	assert.Equal(t, "", textutil.Normalize(""))
}
