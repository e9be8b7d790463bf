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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// El alias pr es parte del contrato con search.Suppliers.
const supplierSelect = `
	SELECT pr.id, pr.rut_nif, pr.razon_social, pr.nombre_fantasia, pr.email, pr.telefono,
	       pr.sitio_web, pr.plazos_pago_dias, pr.moneda, pr.descuento_porcentaje, pr.activo,
	       pr.created_at, pr.updated_at
	FROM proveedores pr`

const supplierCount = `SELECT COUNT(*) FROM proveedores pr`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor nuevo y devuelve el id asignado.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) (int64, error) {
	query := `
		INSERT INTO proveedores (rut_nif, razon_social, nombre_fantasia, email, telefono, sitio_web,
			plazos_pago_dias, moneda, descuento_porcentaje, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		s.RUT, s.LegalName, s.TradeName, s.Email, s.Phone, s.Website,
		s.PaymentTermDays, s.Currency, s.DiscountPercent, s.Active, s.CreatedAt, s.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert proveedor: %w", err)
	}
	return id, nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	row := r.q.QueryRow(ctx, supplierSelect+" WHERE pr.id = $1", id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return s, nil
}

// GetByRUT obtiene un proveedor por RUT/NIF exacto.
func (r *SupplierRepo) GetByRUT(ctx context.Context, rut string) (*entity.Supplier, error) {
	row := r.q.QueryRow(ctx, supplierSelect+" WHERE pr.rut_nif = $1", rut)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor por rut: %w", err)
	}
	return s, nil
}

// Update actualiza un proveedor existente.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE proveedores SET rut_nif = $2, razon_social = $3, nombre_fantasia = $4, email = $5,
			telefono = $6, sitio_web = $7, plazos_pago_dias = $8, moneda = $9,
			descuento_porcentaje = $10, activo = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.RUT, s.LegalName, s.TradeName, s.Email, s.Phone, s.Website,
		s.PaymentTermDays, s.Currency, s.DiscountPercent, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update proveedor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un proveedor por ID.
func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM proveedores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proveedor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search lista proveedores según el predicado y el orden ya validados.
func (r *SupplierRepo) Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.Supplier, error) {
	query, args := searchQuery(supplierSelect, flt, order, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search proveedores: %w", err)
	}
	defer rows.Close()

	var out []entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Count cuenta los proveedores que satisfacen el predicado.
func (r *SupplierRepo) Count(ctx context.Context, flt search.Filter) (int64, error) {
	query, args := countQuery(supplierCount, flt)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count proveedores: %w", err)
	}
	return n, nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.RUT, &s.LegalName, &s.TradeName, &s.Email, &s.Phone,
		&s.Website, &s.PaymentTermDays, &s.Currency, &s.DiscountPercent, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
