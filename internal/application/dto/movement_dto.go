package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest alta de movimiento de inventario.
type CreateMovementRequest struct {
	Fecha          string          `json:"fecha" form:"fecha"` // RFC 3339 o 2006-01-02
	Tipo           string          `json:"tipo" form:"tipo"`
	ProductoID     int64           `json:"producto_id" form:"producto_id"`
	ProveedorID    *int64          `json:"proveedor_id" form:"proveedor_id"`
	Cantidad       decimal.Decimal `json:"cantidad" form:"cantidad"`
	BodegaOrigenID *int64          `json:"bodega_origen_id" form:"bodega_origen_id"`
	BodegaDestinoID *int64         `json:"bodega_destino_id" form:"bodega_destino_id"`
	Lote           string          `json:"lote" form:"lote"`
	Serie          string          `json:"serie" form:"serie"`
	Vencimiento    string          `json:"vencimiento" form:"vencimiento"` // 2006-01-02, opcional
	DocRef         string          `json:"doc_ref" form:"doc_ref"`
	Observacion    string          `json:"observacion" form:"observacion"`
}

// UpdateMovementRequest edición de movimiento: el libro es append-mostly,
// solo tipo y cantidad se corrigen.
type UpdateMovementRequest struct {
	Tipo     *string          `json:"tipo" form:"tipo"`
	Cantidad *decimal.Decimal `json:"cantidad" form:"cantidad"`
}

// MovementResponse movimiento para respuestas.
type MovementResponse struct {
	ID            int64           `json:"id"`
	Fecha         time.Time       `json:"fecha"`
	Tipo          string          `json:"tipo"`
	TipoNombre    string          `json:"tipo_nombre"`
	ProductoID    int64           `json:"producto_id"`
	Producto      string          `json:"producto"`
	SKU           string          `json:"sku"`
	ProveedorID   *int64          `json:"proveedor_id,omitempty"`
	Proveedor     string          `json:"proveedor,omitempty"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	BodegaOrigen  string          `json:"bodega_origen,omitempty"`
	BodegaDestino string          `json:"bodega_destino,omitempty"`
	Lote          string          `json:"lote,omitempty"`
	Serie         string          `json:"serie,omitempty"`
	Vencimiento   *time.Time      `json:"vencimiento,omitempty"`
	DocRef        string          `json:"doc_ref,omitempty"`
	Observacion   string          `json:"observacion,omitempty"`
	Usuario       string          `json:"usuario"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageMeta           `json:"page"`
}
