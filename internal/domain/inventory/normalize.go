package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName produce la clave natural de un producto: sin espacios en los extremos,
// en forma NFC y con case folding Unicode ("Ñandú " y "ñANDÚ" son el mismo producto).
func NormalizeName(name string) string {
	// Un Caser guarda estado: uno por llamada.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// containsFolded compara por subcadena; needle ya debe venir normalizado.
func containsFolded(haystack, needle string) bool {
	return strings.Contains(NormalizeName(haystack), needle)
}
