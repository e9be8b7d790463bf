package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku" form:"sku"`
	Nombre       string          `json:"nombre" form:"nombre"`
	CategoriaID  int64           `json:"categoria_id" form:"categoria_id"`
	Marca        string          `json:"marca" form:"marca"`
	CodigoBarras string          `json:"codigo_barras" form:"codigo_barras"`
	Descripcion  string          `json:"descripcion" form:"descripcion"`
	CostoEstandar decimal.Decimal `json:"costo_estandar" form:"costo_estandar"`
	PrecioVenta  decimal.Decimal `json:"precio_venta" form:"precio_venta"`
	StockMinimo  decimal.Decimal `json:"stock_minimo" form:"stock_minimo"`
	StockMaximo  decimal.Decimal `json:"stock_maximo" form:"stock_maximo"`
	PuntoReorden decimal.Decimal `json:"punto_reorden" form:"punto_reorden"`
}

// UpdateProductRequest edición parcial de producto.
type UpdateProductRequest struct {
	SKU           *string          `json:"sku" form:"sku"`
	Nombre        *string          `json:"nombre" form:"nombre"`
	CategoriaID   *int64           `json:"categoria_id" form:"categoria_id"`
	Marca         *string          `json:"marca" form:"marca"`
	CodigoBarras  *string          `json:"codigo_barras" form:"codigo_barras"`
	Descripcion   *string          `json:"descripcion" form:"descripcion"`
	CostoEstandar *decimal.Decimal `json:"costo_estandar" form:"costo_estandar"`
	PrecioVenta   *decimal.Decimal `json:"precio_venta" form:"precio_venta"`
	StockMinimo   *decimal.Decimal `json:"stock_minimo" form:"stock_minimo"`
	StockMaximo   *decimal.Decimal `json:"stock_maximo" form:"stock_maximo"`
	PuntoReorden  *decimal.Decimal `json:"punto_reorden" form:"punto_reorden"`
	Activo        *bool            `json:"activo" form:"activo"`
}

// ProductResponse producto para respuestas, con el stock total calculado.
type ProductResponse struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Nombre       string          `json:"nombre"`
	CategoriaID  int64           `json:"categoria_id"`
	Categoria    string          `json:"categoria"`
	Marca        string          `json:"marca,omitempty"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	Descripcion  string          `json:"descripcion,omitempty"`
	CostoEstandar decimal.Decimal `json:"costo_estandar"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	StockMaximo  decimal.Decimal `json:"stock_maximo"`
	PuntoReorden decimal.Decimal `json:"punto_reorden"`
	Activo       bool            `json:"activo"`
	StockTotal   decimal.Decimal `json:"stock_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageMeta          `json:"page"`
}

// PageMeta metadatos de paginación en respuestas de listado.
type PageMeta struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}
