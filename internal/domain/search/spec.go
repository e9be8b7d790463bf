package search

// Spec declara, por entidad, qué columnas participan de la búsqueda libre y
// qué claves de orden acepta el cliente. Las listas son estáticas y
// auditables: nada fuera de ellas llega al almacén.
type Spec struct {
	Entity      string   // nombre de la entidad (hoja de exportación, diagnóstico)
	TextColumns []string // expresiones SQL con match de subcadena case-insensitive
	IDColumn    string   // expresión SQL del id numérico
	NumColumns  []string // igualdad numérica adicional cuando q es entero

	SortKeys    map[string]string // clave del cliente -> expresión SQL ordenable
	DefaultSort string            // clave usada cuando la pedida no se reconoce
	DefaultDesc bool
	PageSize    int
}

// Especificaciones por entidad. Los alias coinciden con las consultas de los
// repositorios postgres (productos p, categorías c, stock agregado s,
// proveedores pr, relaciones rel, movimientos m, usuarios u).
var (
	Products = Spec{
		Entity:      "Productos",
		TextColumns: []string{"p.sku", "p.nombre", "p.marca", "p.codigo_barras", "c.nombre"},
		IDColumn:    "p.id",
		NumColumns:  []string{"COALESCE(s.total, 0)"},
		SortKeys: map[string]string{
			"id":        "p.id",
			"sku":       "p.sku",
			"nombre":    "p.nombre",
			"categoria": "c.nombre",
			"stock":     "COALESCE(s.total, 0)",
		},
		DefaultSort: "sku",
		PageSize:    10,
	}

	Suppliers = Spec{
		Entity:      "Proveedores",
		TextColumns: []string{"pr.rut_nif", "pr.razon_social", "pr.email"},
		IDColumn:    "pr.id",
		SortKeys: map[string]string{
			"id":           "pr.id",
			"rut":          "pr.rut_nif",
			"razon_social": "pr.razon_social",
			"email":        "pr.email",
		},
		DefaultSort: "id",
		PageSize:    10,
	}

	Relations = Spec{
		Entity:      "Relaciones",
		TextColumns: []string{"pr.rut_nif", "pr.razon_social", "p.sku", "p.nombre"},
		IDColumn:    "rel.id",
		SortKeys: map[string]string{
			"id": "rel.id",
		},
		DefaultSort: "id",
		PageSize:    10,
	}

	Movements = Spec{
		Entity: "Movimientos",
		TextColumns: []string{
			"p.nombre", "p.sku", "m.tipo", "pr.razon_social", "m.lote", "m.serie", "u.username",
		},
		IDColumn: "m.id",
		SortKeys: map[string]string{
			"id":       "m.id",
			"fecha":    "m.fecha",
			"producto": "p.nombre",
			"tipo":     "m.tipo",
		},
		DefaultSort: "fecha",
		DefaultDesc: true,
		PageSize:    15,
	}

	Users = Spec{
		Entity:      "Usuarios",
		TextColumns: []string{"u.username", "u.first_name", "u.last_name", "u.email", "u.telefono"},
		IDColumn:    "u.id",
		SortKeys: map[string]string{
			"id":         "u.id",
			"username":   "u.username",
			"first_name": "u.first_name",
			"rol":        "u.rol",
		},
		DefaultSort: "id",
		PageSize:    10,
	}
)
