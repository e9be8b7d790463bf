package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// MovementRepository puerto de persistencia para el libro de inventario.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	UpdateTypeAndQuantity(ctx context.Context, id int64, movType string, qty decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Movement, error)
	Count(ctx context.Context, flt search.Filter) (int64, error)
	// StockTotal suma con signo de todos los movimientos del producto.
	StockTotal(ctx context.Context, productID int64) (decimal.Decimal, error)
}

// WarehouseRepository puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	List(ctx context.Context) ([]entity.Warehouse, error)
}
