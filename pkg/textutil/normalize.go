// Package textutil normalización de texto para búsquedas (los nombres de
// elaboración llevan acentos: "Salsa española", "Crème brûlée"...).
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitaAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize quita diacríticos y pasa a minúsculas. Se aplica tanto al término
// de búsqueda como a la columna normalizada persistida junto al nombre.
func Normalize(s string) string {
	out, _, err := transform.String(quitaAcentos, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
