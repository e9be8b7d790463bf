package search

import (
	"strconv"
	"strings"
)

// BuildPredicate convierte el texto libre q en un Filter sobre las columnas
// declaradas en spec. Vacío (tras trim) acepta todo. Si q parsea como entero
// se agrega, en OR con las subcadenas, la igualdad exacta sobre el id y
// sobre las columnas numéricas extra (ej. stock total en productos): un "7"
// que además aparece dentro de un SKU matchea ambas condiciones.
func BuildPredicate(spec Spec, q string) Filter {
	var f Filter
	q = strings.TrimSpace(q)
	if q == "" {
		return f
	}

	pattern := "%" + escapeLike(q) + "%"
	var ors []string
	var args []any
	for _, col := range spec.TextColumns {
		ors = append(ors, col+" ILIKE ?")
		args = append(args, pattern)
	}

	if n, err := strconv.ParseInt(q, 10, 64); err == nil {
		ors = append(ors, spec.IDColumn+" = ?")
		args = append(args, n)
		for _, col := range spec.NumColumns {
			ors = append(ors, col+" = ?")
			args = append(args, n)
		}
	}

	f.And("("+strings.Join(ors, " OR ")+")", args...)
	return f
}

// escapeLike escapa los metacaracteres de LIKE/ILIKE para que la búsqueda
// sea por subcadena literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
