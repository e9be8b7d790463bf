package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/shopspring/decimal"

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

// ProductFilters filtros propios del listado de productos, además de q.
type ProductFilters struct {
	CategoriaID int64
	Estado      string // activos | inactivos | todos
}

// ProductUseCase CRUD y listado de productos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	catRepo  repository.CategoryRepository
	txRunner repository.TxRunner
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, catRepo repository.CategoryRepository, txRunner repository.TxRunner, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, catRepo: catRepo, txRunner: txRunner, log: log}
}

// Create valida y persiste un producto nuevo. El SKU se normaliza a
// mayúsculas y debe ser único; el precio de venta no puede quedar bajo el
// costo estándar.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	errs := domain.ValidationError{}

	sku := validate.NormalizeSKU(in.SKU)
	if sku == "" {
		errs.Add("sku", "SKU obligatorio.")
	}
	if in.Nombre == "" {
		errs.Add("nombre", "Nombre obligatorio.")
	}
	if in.CategoriaID <= 0 {
		errs.Add("categoria_id", "Categoría obligatoria.")
	}
	validateProductNumbers(errs, in.CostoEstandar, in.PrecioVenta, in.StockMinimo, in.StockMaximo, in.PuntoReorden)

	if len(errs) == 0 {
		if existing, err := uc.repo.GetBySKU(ctx, sku); err != nil {
			return nil, err
		} else if existing != nil {
			errs.Add("sku", "Ya existe un producto con ese SKU.")
		}
	}
	if len(errs) == 0 && in.CategoriaID > 0 {
		cat, err := uc.catRepo.GetByID(ctx, in.CategoriaID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			errs.Add("categoria_id", "Categoría no existe.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	now := time.Now()
	p := &entity.Product{
		SKU:          sku,
		Name:         in.Nombre,
		CategoryID:   in.CategoriaID,
		Brand:        in.Marca,
		Barcode:      in.CodigoBarras,
		Description:  in.Descripcion,
		Cost:         in.CostoEstandar,
		SalePrice:    in.PrecioVenta,
		StockMinimum: in.StockMinimo,
		StockMaximum: in.StockMaximo,
		ReorderPoint: in.PuntoReorden,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		id, err := tx.Products().Create(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		if err == domain.ErrDuplicate {
			// Carrera perdida contra otro alta con el mismo SKU.
			return nil, domain.ValidationError{"sku": "Ya existe un producto con ese SKU."}
		}
		return nil, err
	}
	return uc.GetByID(ctx, p.ID)
}

// GetByID obtiene un producto con su stock total calculado.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update edición parcial. Valida unicidad de SKU excluyendo el propio id y
// la coherencia de precio con los valores resultantes.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	errs := domain.ValidationError{}
	if in.SKU != nil {
		sku := validate.NormalizeSKU(*in.SKU)
		if sku == "" {
			errs.Add("sku", "SKU obligatorio.")
		} else if sku != p.SKU {
			existing, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				errs.Add("sku", "Ya existe un producto con ese SKU.")
			}
			p.SKU = sku
		}
	}
	if in.Nombre != nil {
		if *in.Nombre == "" {
			errs.Add("nombre", "Nombre obligatorio.")
		} else {
			p.Name = *in.Nombre
		}
	}
	if in.CategoriaID != nil {
		cat, err := uc.catRepo.GetByID(ctx, *in.CategoriaID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			errs.Add("categoria_id", "Categoría no existe.")
		} else {
			p.CategoryID = cat.ID
			p.CategoryName = cat.Name
		}
	}
	if in.Marca != nil {
		p.Brand = *in.Marca
	}
	if in.CodigoBarras != nil {
		p.Barcode = *in.CodigoBarras
	}
	if in.Descripcion != nil {
		p.Description = *in.Descripcion
	}
	if in.CostoEstandar != nil {
		p.Cost = *in.CostoEstandar
	}
	if in.PrecioVenta != nil {
		p.SalePrice = *in.PrecioVenta
	}
	if in.StockMinimo != nil {
		p.StockMinimum = *in.StockMinimo
	}
	if in.StockMaximo != nil {
		p.StockMaximum = *in.StockMaximo
	}
	if in.PuntoReorden != nil {
		p.ReorderPoint = *in.PuntoReorden
	}
	if in.Activo != nil {
		p.Active = *in.Activo
	}
	validateProductNumbers(errs, p.Cost, p.SalePrice, p.StockMinimum, p.StockMaximum, p.ReorderPoint)
	if len(errs) > 0 {
		return nil, errs
	}

	p.UpdatedAt = time.Now()
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Products().Update(ctx, p)
	})
	if err != nil {
		if err == domain.ErrDuplicate {
			return nil, domain.ValidationError{"sku": "Ya existe un producto con ese SKU."}
		}
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Products().Delete(ctx, id)
	})
}

// List búsqueda + orden + paginación.
func (uc *ProductUseCase) List(ctx context.Context, p listing.Params, f ProductFilters) *dto.ProductListResponse {
	res := listing.Run(ctx, uc.log, search.Products, p, uc.filter(p.Query, f), uc.source())
	items := make([]dto.ProductResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toProductResponse(&res.Items[i]))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.PageMeta(res.Meta)}
}

// SearchTop autocompletado: a lo más 10 registros, sin paginación.
func (uc *ProductUseCase) SearchTop(ctx context.Context, q string) ([]dto.ProductResponse, error) {
	flt := search.BuildPredicate(search.Products, q)
	rows, err := uc.repo.Search(ctx, flt, search.IDOrder(search.Products), autocompleteLimit, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toProductResponse(&rows[i]))
	}
	return items, nil
}

// ExportXLSX serializa el conjunto completo filtrado/ordenado a una planilla.
func (uc *ProductUseCase) ExportXLSX(ctx context.Context, p listing.Params, f ProductFilters) (*bytes.Buffer, string, error) {
	rows, err := listing.Export(ctx, uc.log, search.Products, p.Sort, uc.filter(p.Query, f), uc.source())
	if err != nil {
		return nil, "", err
	}
	headers := []string{"ID", "SKU", "Nombre", "Categoría", "Marca", "Costo estándar", "Precio venta", "Stock", "Activo"}
	data := make([][]any, 0, len(rows))
	for i := range rows {
		pr := &rows[i]
		data = append(data, []any{
			pr.ID, pr.SKU, pr.Name, pr.CategoryName, pr.Brand,
			pr.Cost.InexactFloat64(), pr.SalePrice.InexactFloat64(),
			pr.StockTotal.InexactFloat64(), boolSiNo(pr.Active),
		})
	}
	buf, err := export.Workbook(search.Products.Entity, headers, data)
	if err != nil {
		return nil, "", err
	}
	return buf, export.Filename("productos", time.Now()), nil
}

func (uc *ProductUseCase) filter(q string, f ProductFilters) search.Filter {
	flt := search.BuildPredicate(search.Products, q)
	if f.CategoriaID > 0 {
		flt.And("p.categoria_id = ?", f.CategoriaID)
	}
	switch f.Estado {
	case "activos":
		flt.And("p.activo = ?", true)
	case "inactivos":
		flt.And("p.activo = ?", false)
	}
	return flt
}

func (uc *ProductUseCase) source() listing.Source[entity.Product] {
	return listing.Source[entity.Product]{Search: uc.repo.Search, Count: uc.repo.Count}
}

// validateProductNumbers rangos numéricos y coherencia de precio compartidos
// por alta y edición.
func validateProductNumbers(errs domain.ValidationError, cost, price, min, max, reorder decimal.Decimal) {
	if cost.IsNegative() {
		errs.Add("costo_estandar", "Costo no puede ser negativo.")
	}
	if price.IsNegative() {
		errs.Add("precio_venta", "Precio no puede ser negativo.")
	}
	if min.IsNegative() || max.IsNegative() || reorder.IsNegative() {
		errs.Add("stock_minimo", "Los niveles de stock no pueden ser negativos.")
	}
	if !cost.IsZero() && !price.IsZero() && price.LessThan(cost) {
		errs.Add("precio_venta", "El precio de venta no puede ser menor que el costo estándar.")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Nombre:        p.Name,
		CategoriaID:   p.CategoryID,
		Categoria:     p.CategoryName,
		Marca:         p.Brand,
		CodigoBarras:  p.Barcode,
		Descripcion:   p.Description,
		CostoEstandar: p.Cost,
		PrecioVenta:   p.SalePrice,
		StockMinimo:   p.StockMinimum,
		StockMaximo:   p.StockMaximum,
		PuntoReorden:  p.ReorderPoint,
		Activo:        p.Active,
		StockTotal:    p.StockTotal,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
