package usecase

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/export"
	"github.com/dulceria-lilis/erp-api/internal/application/listing"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
	"github.com/dulceria-lilis/erp-api/internal/domain/validate"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

// SupplierFilters filtros propios del listado de proveedores.
type SupplierFilters struct {
	Estado string // activos | inactivos | todos
}

// SupplierUseCase CRUD de proveedores y mantención de la relación
// proveedor-producto.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	relRepo  repository.RelationRepository
	prodRepo repository.ProductRepository
	txRunner repository.TxRunner
	log      *logger.Logger
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, relRepo repository.RelationRepository, prodRepo repository.ProductRepository, txRunner repository.TxRunner, log *logger.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, relRepo: relRepo, prodRepo: prodRepo, txRunner: txRunner, log: log}
}

// Create valida y persiste un proveedor. El RUT/NIF debe ser único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, errs := uc.buildSupplier(&entity.Supplier{Active: true}, in)
	if len(errs) == 0 {
		existing, err := uc.repo.GetByRUT(ctx, s.RUT)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("rut_nif", "Ya existe un proveedor con ese RUT/NIF.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		id, err := tx.Suppliers().Create(ctx, s)
		if err != nil {
			return err
		}
		s.ID = id
		return nil
	})
	if err != nil {
		if err == domain.ErrDuplicate {
			return nil, domain.ValidationError{"rut_nif": "Ya existe un proveedor con ese RUT/NIF."}
		}
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update edición de proveedor. La unicidad del RUT excluye el propio id.
func (uc *SupplierUseCase) Update(ctx context.Context, id int64, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}

	s, errs := uc.buildSupplier(s, in)
	if len(errs) == 0 {
		existing, err := uc.repo.GetByRUT(ctx, s.RUT)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			errs.Add("rut_nif", "Ya existe un proveedor con ese RUT/NIF.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	s.UpdatedAt = time.Now()
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Suppliers().Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor. Las relaciones asociadas caen en cascada en el
// almacén.
func (uc *SupplierUseCase) Delete(ctx context.Context, id int64) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Suppliers().Delete(ctx, id)
	})
}

// List búsqueda + orden + paginación de proveedores.
func (uc *SupplierUseCase) List(ctx context.Context, p listing.Params, f SupplierFilters) *dto.SupplierListResponse {
	res := listing.Run(ctx, uc.log, search.Suppliers, p, uc.filter(p.Query, f), uc.source())
	items := make([]dto.SupplierResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toSupplierResponse(&res.Items[i]))
	}
	return &dto.SupplierListResponse{Items: items, Page: dto.PageMeta(res.Meta)}
}

// SearchTop autocompletado de proveedores, a lo más 10 registros.
func (uc *SupplierUseCase) SearchTop(ctx context.Context, q string) ([]dto.SupplierResponse, error) {
	flt := search.BuildPredicate(search.Suppliers, q)
	rows, err := uc.repo.Search(ctx, flt, search.IDOrder(search.Suppliers), autocompleteLimit, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toSupplierResponse(&rows[i]))
	}
	return items, nil
}

// ExportXLSX planilla con el conjunto completo de proveedores filtrado.
func (uc *SupplierUseCase) ExportXLSX(ctx context.Context, p listing.Params, f SupplierFilters) (*bytes.Buffer, string, error) {
	rows, err := listing.Export(ctx, uc.log, search.Suppliers, p.Sort, uc.filter(p.Query, f), uc.source())
	if err != nil {
		return nil, "", err
	}
	headers := []string{"ID", "RUT/NIF", "Razón social", "Nombre fantasía", "Email", "Teléfono", "Plazo pago (días)", "Moneda", "Descuento %", "Estado"}
	data := make([][]any, 0, len(rows))
	for i := range rows {
		s := &rows[i]
		data = append(data, []any{
			s.ID, s.RUT, s.LegalName, s.TradeName, s.Email, s.Phone,
			s.PaymentTermDays, s.Currency, s.DiscountPercent.InexactFloat64(),
			estadoActivo(s.Active),
		})
	}
	buf, err := export.Workbook(search.Suppliers.Entity, headers, data)
	if err != nil {
		return nil, "", err
	}
	return buf, export.Filename("proveedores", time.Now()), nil
}

// UpsertRelation crea o actualiza la relación proveedor-producto. El
// proveedor se ubica por RUT y el producto por SKU exacto o, si no hay match,
// por subcadena del nombre (primer resultado por id).
func (uc *SupplierUseCase) UpsertRelation(ctx context.Context, in dto.RelationRequest) (*dto.RelationResponse, error) {
	errs := domain.ValidationError{}
	if strings.TrimSpace(in.RutNif) == "" {
		errs.Add("rut_nif", "RUT/NIF obligatorio.")
	}
	if strings.TrimSpace(in.SkuOrName) == "" {
		errs.Add("sku_or_name", "Producto obligatorio (SKU o nombre).")
	}
	if !validate.Days(in.LeadTimeDias) {
		errs.Add("lead_time_dias", "Lead time fuera de rango (0 a 365 días).")
	}
	if in.Costo.IsNegative() {
		errs.Add("costo", "Costo no puede ser negativo.")
	}
	if in.MinimoLote.IsNegative() {
		errs.Add("minimo_lote", "Mínimo de lote no puede ser negativo.")
	}
	if !validate.Percent(in.DescuentoPorcentaje.InexactFloat64()) {
		errs.Add("descuento_porcentaje", "Descuento fuera de rango (0 a 100).")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	supplier, err := uc.repo.GetByRUT(ctx, strings.TrimSpace(in.RutNif))
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ValidationError{"rut_nif": "Proveedor no encontrado para ese RUT/NIF."}
	}
	product, err := uc.resolveProduct(ctx, in.SkuOrName)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ValidationError{"sku_or_name": "Producto no encontrado por SKU ni por nombre."}
	}

	rel := &entity.SupplierProduct{
		SupplierID:      supplier.ID,
		ProductID:       product.ID,
		Preferred:       in.Preferente,
		LeadTimeDays:    in.LeadTimeDias,
		Cost:            in.Costo,
		MinimumLot:      in.MinimoLote,
		DiscountPercent: in.DescuentoPorcentaje,
		SupplierName:    supplier.LegalName,
		SupplierRUT:     supplier.RUT,
		ProductName:     product.Name,
		ProductSKU:      product.SKU,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		id, err := tx.Relations().Upsert(ctx, rel)
		if err != nil {
			return err
		}
		rel.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRelationResponse(rel), nil
}

// ListRelations búsqueda + orden + paginación de relaciones.
func (uc *SupplierUseCase) ListRelations(ctx context.Context, p listing.Params) *dto.RelationListResponse {
	flt := search.BuildPredicate(search.Relations, p.Query)
	res := listing.Run(ctx, uc.log, search.Relations, p, flt, uc.relSource())
	items := make([]dto.RelationResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toRelationResponse(&res.Items[i]))
	}
	return &dto.RelationListResponse{Items: items, Page: dto.PageMeta(res.Meta)}
}

// SearchRelations autocompletado de relaciones, a lo más 10 registros.
func (uc *SupplierUseCase) SearchRelations(ctx context.Context, q string) ([]dto.RelationResponse, error) {
	flt := search.BuildPredicate(search.Relations, q)
	rows, err := uc.relRepo.Search(ctx, flt, search.IDOrder(search.Relations), autocompleteLimit, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RelationResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toRelationResponse(&rows[i]))
	}
	return items, nil
}

// ExportRelationsXLSX planilla con el conjunto completo de relaciones.
func (uc *SupplierUseCase) ExportRelationsXLSX(ctx context.Context, p listing.Params) (*bytes.Buffer, string, error) {
	flt := search.BuildPredicate(search.Relations, p.Query)
	rows, err := listing.Export(ctx, uc.log, search.Relations, p.Sort, flt, uc.relSource())
	if err != nil {
		return nil, "", err
	}
	headers := []string{"ID", "Proveedor", "RUT", "Producto", "SKU", "Preferente", "Lead time (días)", "Costo", "Mínimo lote", "Descuento %"}
	data := make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		data = append(data, []any{
			r.ID, r.SupplierName, r.SupplierRUT, r.ProductName, r.ProductSKU,
			boolSiNo(r.Preferred), r.LeadTimeDays, r.Cost.InexactFloat64(),
			r.MinimumLot.InexactFloat64(), r.DiscountPercent.InexactFloat64(),
		})
	}
	buf, err := export.Workbook(search.Relations.Entity, headers, data)
	if err != nil {
		return nil, "", err
	}
	return buf, export.Filename("relaciones", time.Now()), nil
}

// resolveProduct SKU exacto primero; si no, subcadena del nombre, primer
// match por id.
func (uc *SupplierUseCase) resolveProduct(ctx context.Context, skuOrName string) (*entity.Product, error) {
	term := strings.TrimSpace(skuOrName)
	p, err := uc.prodRepo.GetBySKU(ctx, validate.NormalizeSKU(term))
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	var flt search.Filter
	flt.And("p.nombre ILIKE ?", "%"+term+"%")
	rows, err := uc.prodRepo.Search(ctx, flt, search.IDOrder(search.Products), 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (uc *SupplierUseCase) buildSupplier(s *entity.Supplier, in dto.SupplierRequest) (*entity.Supplier, domain.ValidationError) {
	errs := domain.ValidationError{}

	rut := strings.TrimSpace(in.RutNif)
	if rut == "" {
		errs.Add("rut_nif", "RUT/NIF obligatorio.")
	} else if !validate.RUT(rut) {
		errs.Add("rut_nif", "RUT/NIF con formato inválido.")
	}
	if strings.TrimSpace(in.RazonSocial) == "" {
		errs.Add("razon_social", "Razón social obligatoria.")
	}
	if in.Email == "" {
		errs.Add("email", "Email obligatorio.")
	} else if !validate.Email(in.Email) {
		errs.Add("email", "Email con formato inválido.")
	}
	if in.Telefono != "" && !validate.Phone(in.Telefono) {
		errs.Add("telefono", "Teléfono con formato inválido.")
	}
	if in.SitioWeb != "" && !validate.Website(in.SitioWeb) {
		errs.Add("sitio_web", "El sitio web debe comenzar con http:// o https://.")
	}
	if !validate.Days(in.PlazosPagoDias) {
		errs.Add("plazos_pago_dias", "Plazo de pago fuera de rango (0 a 365 días).")
	}
	if !validate.Percent(in.DescuentoPorcentaje.InexactFloat64()) {
		errs.Add("descuento_porcentaje", "Descuento fuera de rango (0 a 100).")
	}

	s.RUT = rut
	s.LegalName = strings.TrimSpace(in.RazonSocial)
	s.TradeName = strings.TrimSpace(in.NombreFantasia)
	s.Email = in.Email
	s.Phone = in.Telefono
	s.Website = in.SitioWeb
	s.PaymentTermDays = in.PlazosPagoDias
	s.Currency = in.Moneda
	if s.Currency == "" {
		s.Currency = "CLP"
	}
	s.DiscountPercent = in.DescuentoPorcentaje
	return s, errs
}

func (uc *SupplierUseCase) filter(q string, f SupplierFilters) search.Filter {
	flt := search.BuildPredicate(search.Suppliers, q)
	switch f.Estado {
	case "activos":
		flt.And("pr.activo = ?", true)
	case "inactivos":
		flt.And("pr.activo = ?", false)
	}
	return flt
}

func (uc *SupplierUseCase) source() listing.Source[entity.Supplier] {
	return listing.Source[entity.Supplier]{Search: uc.repo.Search, Count: uc.repo.Count}
}

func (uc *SupplierUseCase) relSource() listing.Source[entity.SupplierProduct] {
	return listing.Source[entity.SupplierProduct]{Search: uc.relRepo.Search, Count: uc.relRepo.Count}
}

func estadoActivo(active bool) string {
	if active {
		return "activo"
	}
	return "inactivo"
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:                  s.ID,
		RutNif:              s.RUT,
		RazonSocial:         s.LegalName,
		NombreFantasia:      s.TradeName,
		Email:               s.Email,
		Telefono:            s.Phone,
		SitioWeb:            s.Website,
		PlazosPagoDias:      s.PaymentTermDays,
		Moneda:              s.Currency,
		DescuentoPorcentaje: s.DiscountPercent,
		Estado:              estadoActivo(s.Active),
	}
}

func toRelationResponse(r *entity.SupplierProduct) *dto.RelationResponse {
	return &dto.RelationResponse{
		ID:                  r.ID,
		Proveedor:           r.SupplierName,
		Rut:                 r.SupplierRUT,
		Producto:            r.ProductName,
		SKU:                 r.ProductSKU,
		Preferente:          r.Preferred,
		LeadTimeDias:        r.LeadTimeDays,
		Costo:               r.Cost,
		MinimoLote:          r.MinimumLot,
		DescuentoPorcentaje: r.DiscountPercent,
	}
}
