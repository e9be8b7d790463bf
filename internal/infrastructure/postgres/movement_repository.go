package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// Los alias m, p, pr y u son parte del contrato con search.Movements.
const movementSelect = `
	SELECT m.id, m.fecha, m.tipo, m.producto_id, m.proveedor_id, m.cantidad,
	       m.bodega_origen_id, m.bodega_destino_id, m.lote, m.serie, m.vencimiento,
	       m.doc_ref, m.observacion, m.creado_por, m.created_at,
	       p.nombre, p.sku, COALESCE(pr.razon_social, ''),
	       COALESCE(bo.nombre, ''), COALESCE(bd.nombre, ''), u.username
	FROM movimientos m
	JOIN productos p ON p.id = m.producto_id
	LEFT JOIN proveedores pr ON pr.id = m.proveedor_id
	LEFT JOIN bodegas bo ON bo.id = m.bodega_origen_id
	LEFT JOIN bodegas bd ON bd.id = m.bodega_destino_id
	JOIN usuarios u ON u.id = m.creado_por`

const movementCount = `
	SELECT COUNT(*)
	FROM movimientos m
	JOIN productos p ON p.id = m.producto_id
	LEFT JOIN proveedores pr ON pr.id = m.proveedor_id
	JOIN usuarios u ON u.id = m.creado_por`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create asienta un movimiento y devuelve el id asignado.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) (int64, error) {
	query := `
		INSERT INTO movimientos (fecha, tipo, producto_id, proveedor_id, cantidad,
			bodega_origen_id, bodega_destino_id, lote, serie, vencimiento,
			doc_ref, observacion, creado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		m.Date, m.Type, m.ProductID, m.SupplierID, m.Quantity,
		m.SourceWhID, m.DestWhID, m.Lot, m.Serial, m.ExpiryDate,
		m.ReferenceDoc, m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movimiento: %w", err)
	}
	return id, nil
}

// GetByID obtiene un movimiento con sus joins de lectura.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	row := r.q.QueryRow(ctx, movementSelect+" WHERE m.id = $1", id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// UpdateTypeAndQuantity corrige tipo y cantidad; el resto del asiento es inmutable.
func (r *MovementRepo) UpdateTypeAndQuantity(ctx context.Context, id int64, movType string, qty decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE movimientos SET tipo = $2, cantidad = $3 WHERE id = $1`,
		id, movType, qty,
	)
	if err != nil {
		return fmt.Errorf("update movimiento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movimientos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movimiento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search lista movimientos según el predicado y el orden ya validados.
func (r *MovementRepo) Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Movement, error) {
	query, args := searchQuery(movementSelect, flt, order, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search movimientos: %w", err)
	}
	defer rows.Close()

	var out []entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Count cuenta los movimientos que satisfacen el predicado.
func (r *MovementRepo) Count(ctx context.Context, flt search.Filter) (int64, error) {
	query, args := countQuery(movementCount, flt)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movimientos: %w", err)
	}
	return n, nil
}

// StockTotal suma con signo de todos los movimientos del producto.
func (r *MovementRepo) StockTotal(ctx context.Context, productID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE tipo WHEN 'SALIDA' THEN -cantidad WHEN 'TRANSFERENCIA' THEN 0 ELSE cantidad END), 0)
		FROM movimientos WHERE producto_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stock total: %w", err)
	}
	return total, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.Date, &m.Type, &m.ProductID, &m.SupplierID, &m.Quantity,
		&m.SourceWhID, &m.DestWhID, &m.Lot, &m.Serial, &m.ExpiryDate,
		&m.ReferenceDoc, &m.Note, &m.CreatedBy, &m.CreatedAt,
		&m.ProductName, &m.ProductSKU, &m.SupplierName,
		&m.SourceWhName, &m.DestWhName, &m.CreatedByUsername,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
