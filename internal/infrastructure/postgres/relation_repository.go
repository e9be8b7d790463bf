package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

var _ repository.RelationRepository = (*RelationRepo)(nil)

// Los alias rel, pr y p son parte del contrato con search.Relations.
const relationSelect = `
	SELECT rel.id, rel.proveedor_id, rel.producto_id, rel.preferente, rel.lead_time_dias,
	       rel.costo, rel.minimo_lote, rel.descuento_porcentaje,
	       pr.razon_social, pr.rut_nif, p.nombre, p.sku
	FROM proveedor_productos rel
	JOIN proveedores pr ON pr.id = rel.proveedor_id
	JOIN productos p ON p.id = rel.producto_id`

const relationCount = `
	SELECT COUNT(*)
	FROM proveedor_productos rel
	JOIN proveedores pr ON pr.id = rel.proveedor_id
	JOIN productos p ON p.id = rel.producto_id`

// RelationRepo implementación del puerto RelationRepository sobre PostgreSQL (usable con pool o tx).
type RelationRepo struct {
	q Querier
}

// NewRelationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRelationRepository(q Querier) *RelationRepo {
	return &RelationRepo{q: q}
}

// Upsert inserta o actualiza por (proveedor_id, producto_id). El índice único
// de la tabla arbitra las carreras: dos requests concurrentes con el mismo par
// terminan en un solo registro.
func (r *RelationRepo) Upsert(ctx context.Context, rel *entity.SupplierProduct) (int64, error) {
	query := `
		INSERT INTO proveedor_productos (proveedor_id, producto_id, preferente, lead_time_dias,
			costo, minimo_lote, descuento_porcentaje)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (proveedor_id, producto_id) DO UPDATE SET
			preferente = EXCLUDED.preferente,
			lead_time_dias = EXCLUDED.lead_time_dias,
			costo = EXCLUDED.costo,
			minimo_lote = EXCLUDED.minimo_lote,
			descuento_porcentaje = EXCLUDED.descuento_porcentaje
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		rel.SupplierID, rel.ProductID, rel.Preferred, rel.LeadTimeDays,
		rel.Cost, rel.MinimumLot, rel.DiscountPercent,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert relación: %w", err)
	}
	return id, nil
}

// Search lista relaciones según el predicado y el orden ya validados.
func (r *RelationRepo) Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.SupplierProduct, error) {
	query, args := searchQuery(relationSelect, flt, order, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search relaciones: %w", err)
	}
	defer rows.Close()

	var out []entity.SupplierProduct
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan relación: %w", err)
		}
		out = append(out, *rel)
	}
	return out, rows.Err()
}

// Count cuenta las relaciones que satisfacen el predicado.
func (r *RelationRepo) Count(ctx context.Context, flt search.Filter) (int64, error) {
	query, args := countQuery(relationCount, flt)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count relaciones: %w", err)
	}
	return n, nil
}

func scanRelation(row pgx.Row) (*entity.SupplierProduct, error) {
	var rel entity.SupplierProduct
	err := row.Scan(
		&rel.ID, &rel.SupplierID, &rel.ProductID, &rel.Preferred, &rel.LeadTimeDays,
		&rel.Cost, &rel.MinimumLot, &rel.DiscountPercent,
		&rel.SupplierName, &rel.SupplierRUT, &rel.ProductName, &rel.ProductSKU,
	)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}
