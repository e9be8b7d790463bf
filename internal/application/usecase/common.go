package usecase

// autocompleteLimit tope duro de resultados de los endpoints de búsqueda
// rápida. No es paginable.
const autocompleteLimit = 10

func boolSiNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
