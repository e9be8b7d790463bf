package repository

import (
	"context"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// ProductRepository puerto de persistencia para Product (DIP).
// Search/Count reciben el predicado y el orden ya validados por el dominio;
// limit <= 0 significa sin límite (exportación).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Product, error)
	Count(ctx context.Context, flt search.Filter) (int64, error)
}

// CategoryRepository puerto de persistencia para Category.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
}
