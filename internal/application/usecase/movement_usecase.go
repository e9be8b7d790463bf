package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/export"
	"github.com/dulceria-lilis/erp-api/internal/application/listing"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/authz"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

// Formatos de fecha aceptados en altas de movimiento.
const (
	dateLayout = "2006-01-02"
)

// MovementFilters filtros propios del libro de movimientos.
type MovementFilters struct {
	Tipo       string
	ProductoID int64
}

// MovementUseCase altas, correcciones y listado del libro de inventario.
type MovementUseCase struct {
	repo     repository.MovementRepository
	prodRepo repository.ProductRepository
	supRepo  repository.SupplierRepository
	whRepo   repository.WarehouseRepository
	txRunner repository.TxRunner
	log      *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository, prodRepo repository.ProductRepository, supRepo repository.SupplierRepository, whRepo repository.WarehouseRepository, txRunner repository.TxRunner, log *logger.Logger) *MovementUseCase {
	return &MovementUseCase{repo: repo, prodRepo: prodRepo, supRepo: supRepo, whRepo: whRepo, txRunner: txRunner, log: log}
}

// Create registra un movimiento. La cantidad es positiva salvo en AJUSTE,
// que admite signo; TRANSFERENCIA exige bodega de origen y destino distintas.
// El stock puede quedar negativo: se registra la advertencia y se deja pasar,
// corregirlo es decisión del operador.
func (uc *MovementUseCase) Create(ctx context.Context, actor authz.Principal, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	errs := domain.ValidationError{}

	if !entity.ValidMovementType(in.Tipo) {
		errs.Add("tipo", "Tipo de movimiento inválido.")
	}
	date, err := parseMovementDate(in.Fecha)
	if err != nil {
		errs.Add("fecha", "Fecha inválida. Use AAAA-MM-DD o RFC 3339.")
	}
	if in.Cantidad.IsZero() {
		errs.Add("cantidad", "Cantidad obligatoria.")
	} else if in.Cantidad.IsNegative() && in.Tipo != entity.MovementAjuste {
		errs.Add("cantidad", "Cantidad negativa solo se admite en ajustes.")
	}
	var expiry *time.Time
	if in.Vencimiento != "" {
		t, err := time.Parse(dateLayout, in.Vencimiento)
		if err != nil {
			errs.Add("vencimiento", "Vencimiento inválido. Use AAAA-MM-DD.")
		} else {
			expiry = &t
		}
	}
	if in.Tipo == entity.MovementTransferencia {
		if in.BodegaOrigenID == nil || in.BodegaDestinoID == nil {
			errs.Add("bodega_origen_id", "Una transferencia exige bodega de origen y destino.")
		} else if *in.BodegaOrigenID == *in.BodegaDestinoID {
			errs.Add("bodega_destino_id", "Origen y destino no pueden ser la misma bodega.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	product, err := uc.prodRepo.GetByID(ctx, in.ProductoID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		errs.Add("producto_id", "Producto no existe.")
	}
	if in.ProveedorID != nil {
		sup, err := uc.supRepo.GetByID(ctx, *in.ProveedorID)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			errs.Add("proveedor_id", "Proveedor no existe.")
		}
	}
	for field, whID := range map[string]*int64{"bodega_origen_id": in.BodegaOrigenID, "bodega_destino_id": in.BodegaDestinoID} {
		if whID == nil {
			continue
		}
		wh, err := uc.whRepo.GetByID(ctx, *whID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			errs.Add(field, "Bodega no existe.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	m := &entity.Movement{
		Date:         date,
		Type:         in.Tipo,
		ProductID:    in.ProductoID,
		SupplierID:   in.ProveedorID,
		Quantity:     in.Cantidad,
		SourceWhID:   in.BodegaOrigenID,
		DestWhID:     in.BodegaDestinoID,
		Lot:          in.Lote,
		Serial:       in.Serie,
		ExpiryDate:   expiry,
		ReferenceDoc: in.DocRef,
		Note:         in.Observacion,
		CreatedBy:    actor.ID,
		CreatedAt:    time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		id, err := tx.Movements().Create(ctx, m)
		if err != nil {
			return err
		}
		m.ID = id
		uc.warnIfNegative(ctx, tx.Movements(), m.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, m.ID)
}

// GetByID obtiene un movimiento con sus joins de lectura.
func (uc *MovementUseCase) GetByID(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(m), nil
}

// Update corrige tipo y cantidad de un movimiento ya asentado. El resto del
// registro es inmutable.
func (uc *MovementUseCase) Update(ctx context.Context, id int64, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}

	errs := domain.ValidationError{}
	movType := m.Type
	qty := m.Quantity
	if in.Tipo != nil {
		if !entity.ValidMovementType(*in.Tipo) {
			errs.Add("tipo", "Tipo de movimiento inválido.")
		} else {
			movType = *in.Tipo
		}
	}
	if in.Cantidad != nil {
		qty = *in.Cantidad
		if qty.IsZero() {
			errs.Add("cantidad", "Cantidad obligatoria.")
		} else if qty.IsNegative() && movType != entity.MovementAjuste {
			errs.Add("cantidad", "Cantidad negativa solo se admite en ajustes.")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Movements().UpdateTypeAndQuantity(ctx, id, movType, qty); err != nil {
			return err
		}
		uc.warnIfNegative(ctx, tx.Movements(), m.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un movimiento del libro.
func (uc *MovementUseCase) Delete(ctx context.Context, id int64) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Movements().Delete(ctx, id)
	})
}

// List búsqueda + orden + paginación del libro.
func (uc *MovementUseCase) List(ctx context.Context, p listing.Params, f MovementFilters) *dto.MovementListResponse {
	res := listing.Run(ctx, uc.log, search.Movements, p, uc.filter(p.Query, f), uc.source())
	items := make([]dto.MovementResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toMovementResponse(&res.Items[i]))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageMeta(res.Meta)}
}

// SearchTop autocompletado: a lo más 10 asientos, sin paginación.
func (uc *MovementUseCase) SearchTop(ctx context.Context, q string) ([]dto.MovementResponse, error) {
	flt := search.BuildPredicate(search.Movements, q)
	rows, err := uc.repo.Search(ctx, flt, search.IDOrder(search.Movements), autocompleteLimit, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toMovementResponse(&rows[i]))
	}
	return items, nil
}

// ExportXLSX planilla con el libro completo filtrado y ordenado.
func (uc *MovementUseCase) ExportXLSX(ctx context.Context, p listing.Params, f MovementFilters) (*bytes.Buffer, string, error) {
	rows, err := listing.Export(ctx, uc.log, search.Movements, p.Sort, uc.filter(p.Query, f), uc.source())
	if err != nil {
		return nil, "", err
	}
	headers := []string{"ID", "Fecha", "Tipo", "Producto", "SKU", "Proveedor", "Cantidad", "Bodega origen", "Bodega destino", "Lote", "Serie", "Doc. ref.", "Usuario"}
	data := make([][]any, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		data = append(data, []any{
			m.ID, m.Date.Format(dateLayout), entity.MovementTypeNames[m.Type],
			m.ProductName, m.ProductSKU, m.SupplierName,
			m.Quantity.InexactFloat64(), m.SourceWhName, m.DestWhName,
			m.Lot, m.Serial, m.ReferenceDoc, m.CreatedByUsername,
		})
	}
	buf, err := export.Workbook(search.Movements.Entity, headers, data)
	if err != nil {
		return nil, "", err
	}
	return buf, export.Filename("movimientos", time.Now()), nil
}

// warnIfNegative deja constancia cuando el stock del producto queda bajo cero.
// No aborta la transacción.
func (uc *MovementUseCase) warnIfNegative(ctx context.Context, repo repository.MovementRepository, productID int64) {
	total, err := repo.StockTotal(ctx, productID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("producto_id", productID).Msg("movimientos: no se pudo recalcular el stock")
		return
	}
	if total.IsNegative() {
		uc.log.Warn().Int64("producto_id", productID).Str("stock", total.String()).
			Msg("movimientos: el stock del producto quedó negativo")
	}
}

func (uc *MovementUseCase) filter(q string, f MovementFilters) search.Filter {
	flt := search.BuildPredicate(search.Movements, q)
	if f.Tipo != "" && entity.ValidMovementType(f.Tipo) {
		flt.And("m.tipo = ?", f.Tipo)
	}
	if f.ProductoID > 0 {
		flt.And("m.producto_id = ?", f.ProductoID)
	}
	return flt
}

func (uc *MovementUseCase) source() listing.Source[entity.Movement] {
	return listing.Source[entity.Movement]{Search: uc.repo.Search, Count: uc.repo.Count}
}

func parseMovementDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		Fecha:         m.Date,
		Tipo:          m.Type,
		TipoNombre:    entity.MovementTypeNames[m.Type],
		ProductoID:    m.ProductID,
		Producto:      m.ProductName,
		SKU:           m.ProductSKU,
		ProveedorID:   m.SupplierID,
		Proveedor:     m.SupplierName,
		Cantidad:      m.Quantity,
		BodegaOrigen:  m.SourceWhName,
		BodegaDestino: m.DestWhName,
		Lote:          m.Lot,
		Serie:         m.Serial,
		Vencimiento:   m.ExpiryDate,
		DocRef:        m.ReferenceDoc,
		Observacion:   m.Note,
		Usuario:       m.CreatedByUsername,
	}
}
