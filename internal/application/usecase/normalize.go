package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeCode deja SKU y códigos de bodega en mayúsculas y sin espacios en los extremos,
// de modo que "wh-a" y " WH-A" colisionen en el índice único.
func normalizeCode(s string) string {
	// cases.Caser no es seguro para uso concurrente: uno por llamada
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
