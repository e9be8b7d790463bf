package search

import (
	"strconv"
	"strings"
)

// Filter es un predicado booleano componible sobre una colección de entidades.
// Las condiciones usan '?' como placeholder y se numeran a $n al renderizar,
// para que los repositorios puedan añadir sus propios parámetros después.
type Filter struct {
	conds []string
	args  []any
}

// And agrega una condición (conjunción). cond usa '?' por cada argumento.
func (f *Filter) And(cond string, args ...any) {
	if cond == "" {
		return
	}
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

// Empty indica si el filtro acepta todo (sin condiciones).
func (f *Filter) Empty() bool { return len(f.conds) == 0 }

// SQL devuelve la cláusula WHERE (sin la palabra WHERE) con placeholders
// numerados desde start, y los argumentos en orden. Cadena vacía si el
// filtro acepta todo.
func (f *Filter) SQL(start int) (string, []any) {
	if f.Empty() {
		return "", nil
	}
	joined := strings.Join(f.conds, " AND ")
	var b strings.Builder
	n := start
	for _, ch := range joined {
		if ch == '?' {
			b.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(ch)
	}
	return b.String(), f.args
}

// ArgCount cantidad de argumentos acumulados.
func (f *Filter) ArgCount() int { return len(f.args) }
