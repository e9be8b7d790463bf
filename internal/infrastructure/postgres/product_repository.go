package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// Los alias p, c y s son parte del contrato con search.Products: las
// expresiones del allow-list se renderizan contra esta consulta.
const productSelect = `
	SELECT p.id, p.sku, p.nombre, p.categoria_id, c.nombre, p.marca, p.codigo_barras, p.descripcion,
	       p.costo_estandar, p.precio_venta, p.stock_minimo, p.stock_maximo, p.punto_reorden,
	       p.activo, COALESCE(s.total, 0), p.created_at, p.updated_at
	FROM productos p
	JOIN categorias c ON c.id = p.categoria_id
	LEFT JOIN (
		SELECT producto_id,
		       SUM(CASE tipo WHEN 'SALIDA' THEN -cantidad WHEN 'TRANSFERENCIA' THEN 0 ELSE cantidad END) AS total
		FROM movimientos GROUP BY producto_id
	) s ON s.producto_id = p.id`

const productCount = `
	SELECT COUNT(*)
	FROM productos p
	JOIN categorias c ON c.id = p.categoria_id
	LEFT JOIN (
		SELECT producto_id,
		       SUM(CASE tipo WHEN 'SALIDA' THEN -cantidad WHEN 'TRANSFERENCIA' THEN 0 ELSE cantidad END) AS total
		FROM movimientos GROUP BY producto_id
	) s ON s.producto_id = p.id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo y devuelve el id asignado.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) (int64, error) {
	query := `
		INSERT INTO productos (sku, nombre, categoria_id, marca, codigo_barras, descripcion,
			costo_estandar, precio_venta, stock_minimo, stock_maximo, punto_reorden, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		p.SKU, p.Name, p.CategoryID, p.Brand, p.Barcode, p.Description,
		p.Cost, p.SalePrice, p.StockMinimum, p.StockMaximum, p.ReorderPoint,
		p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert producto: %w", err)
	}
	return id, nil
}

// GetByID obtiene un producto por ID, con categoría y stock total.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	row := r.q.QueryRow(ctx, productSelect+" WHERE p.id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	row := r.q.QueryRow(ctx, productSelect+" WHERE p.sku = $1", sku)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto por sku: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE productos SET sku = $2, nombre = $3, categoria_id = $4, marca = $5, codigo_barras = $6,
			descripcion = $7, costo_estandar = $8, precio_venta = $9, stock_minimo = $10,
			stock_maximo = $11, punto_reorden = $12, activo = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.CategoryID, p.Brand, p.Barcode, p.Description,
		p.Cost, p.SalePrice, p.StockMinimum, p.StockMaximum, p.ReorderPoint,
		p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search lista productos según el predicado y el orden ya validados.
func (r *ProductRepo) Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Product, error) {
	query, args := searchQuery(productSelect, flt, order, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search productos: %w", err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Count cuenta los productos que satisfacen el predicado.
func (r *ProductRepo) Count(ctx context.Context, flt search.Filter) (int64, error) {
	query, args := countQuery(productCount, flt)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count productos: %w", err)
	}
	return n, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.CategoryName, &p.Brand, &p.Barcode, &p.Description,
		&p.Cost, &p.SalePrice, &p.StockMinimum, &p.StockMaximum, &p.ReorderPoint,
		&p.Active, &p.StockTotal, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
