package repository

import (
	"context"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// SupplierRepository puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Supplier, error)
	Count(ctx context.Context, flt search.Filter) (int64, error)
}

// RelationRepository puerto para la relación proveedor-producto.
// Upsert inserta o actualiza por la clave compuesta (supplier_id, product_id);
// la unicidad la garantiza un índice único en el almacén, de modo que dos
// requests concurrentes no puedan duplicar el par.
type RelationRepository interface {
	Upsert(ctx context.Context, rel *entity.SupplierProduct) (int64, error)
	Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.SupplierProduct, error)
	Count(ctx context.Context, flt search.Filter) (int64, error)
}
