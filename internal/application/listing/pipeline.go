package listing

import (
	"context"

	"github.com/dulceria-lilis/erp-api/internal/domain/search"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

// Params parámetros de listado que llegan del cliente.
type Params struct {
	Query string
	Sort  string
	Page  int
}

// Meta metadatos de página.
type Meta struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// Result página de resultados.
type Result[T any] struct {
	Items []T
	Meta  Meta
}

// Source cierra sobre el repositorio concreto de la entidad.
type Source[T any] struct {
	Search func(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]T, error)
	Count  func(ctx context.Context, flt search.Filter) (int64, error)
}

// Run ejecuta el listado: resuelve el orden, cuenta, pagina y busca.
// Los errores del almacén no suben como 500: un fallo de orden se reintenta
// con el orden default de la entidad y luego por id; un fallo del filtro
// degrada a página vacía. Todo fallo queda registrado para el operador.
// La autorización ya ocurrió en el middleware antes de llegar aquí.
func Run[T any](ctx context.Context, log *logger.Logger, spec search.Spec, p Params, flt search.Filter, src Source[T]) Result[T] {
	empty := Result[T]{Items: []T{}, Meta: Meta{Page: 1, TotalPages: 1}}

	total, err := src.Count(ctx, flt)
	if err != nil {
		log.Warn().Err(err).Str("entity", spec.Entity).Str("q", p.Query).
			Msg("listado: count falló, se responde página vacía")
		return empty
	}

	totalPages := int(total+int64(spec.PageSize)-1) / spec.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * spec.PageSize

	items, err := searchWithFallback(ctx, log, spec, p.Sort, flt, src, spec.PageSize, offset)
	if err != nil {
		log.Warn().Err(err).Str("entity", spec.Entity).Str("q", p.Query).
			Msg("listado: búsqueda falló tras los reintentos, se responde página vacía")
		return empty
	}
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Meta: Meta{Page: page, TotalPages: totalPages, Total: total}}
}

// Export devuelve el conjunto completo filtrado y ordenado (sin paginar) para
// serializarlo a planilla. A diferencia de Run, un fallo definitivo sube como
// error: una exportación vacía por error sería un archivo engañoso.
func Export[T any](ctx context.Context, log *logger.Logger, spec search.Spec, sort string, flt search.Filter, src Source[T]) ([]T, error) {
	return searchWithFallback(ctx, log, spec, sort, flt, src, 0, 0)
}

// searchWithFallback intenta el orden pedido y, si el backend lo rechaza
// (ej. no puede ordenar por el agregado calculado), cae primero al orden
// default de la entidad y por último al id crudo.
func searchWithFallback[T any](ctx context.Context, log *logger.Logger, spec search.Spec, sort string, flt search.Filter, src Source[T], limit, offset int) ([]T, error) {
	order := search.ResolveSort(spec, sort)
	items, err := src.Search(ctx, flt, order, limit, offset)
	if err == nil {
		return items, nil
	}
	log.Warn().Err(err).Str("entity", spec.Entity).Str("sort", order.Key).
		Msg("listado: orden rechazado por el backend, reintentando con el default")

	if fallback := search.DefaultOrder(spec); fallback.Key != order.Key {
		items, err = src.Search(ctx, flt, fallback, limit, offset)
		if err == nil {
			return items, nil
		}
	}
	return src.Search(ctx, flt, search.IDOrder(spec), limit, offset)
}
