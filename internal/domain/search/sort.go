package search

import "strings"

// Order es un orden ya validado contra el allow-list de la entidad.
// Key conserva la clave normalizada (para reintentos y diagnóstico).
type Order struct {
	Key    string
	Expr   string
	Desc   bool
	IDExpr string
}

// Clause renderiza el ORDER BY (sin la palabra clave). Siempre incluye el id
// ascendente como desempate estable, salvo que el orden primario ya sea el id:
// así la paginación es determinista aunque la clave primaria tenga duplicados.
func (o Order) Clause() string {
	dir := " ASC"
	if o.Desc {
		dir = " DESC"
	}
	clause := o.Expr + dir
	if o.Expr != o.IDExpr {
		clause += ", " + o.IDExpr + " ASC"
	}
	return clause
}

// ResolveSort valida la clave de orden del cliente contra el allow-list de la
// entidad. Un prefijo '-' indica descendente y se quita antes de validar.
// Una clave no reconocida se reemplaza por el default documentado de la
// entidad, incluida su dirección: nunca pasa una clave desconocida al almacén.
func ResolveSort(spec Spec, raw string) Order {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	key := strings.TrimPrefix(raw, "-")

	expr, ok := spec.SortKeys[key]
	if !ok {
		return DefaultOrder(spec)
	}
	return Order{Key: key, Expr: expr, Desc: desc, IDExpr: spec.IDColumn}
}

// DefaultOrder orden documentado de la entidad.
func DefaultOrder(spec Spec) Order {
	expr, ok := spec.SortKeys[spec.DefaultSort]
	if !ok {
		return IDOrder(spec)
	}
	return Order{Key: spec.DefaultSort, Expr: expr, Desc: spec.DefaultDesc, IDExpr: spec.IDColumn}
}

// IDOrder último recurso: orden por id ascendente.
func IDOrder(spec Spec) Order {
	return Order{Key: "id", Expr: spec.IDColumn, IDExpr: spec.IDColumn}
}
