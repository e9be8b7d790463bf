package dto

import "github.com/shopspring/decimal"

// SupplierRequest alta/edición de proveedor.
type SupplierRequest struct {
	RutNif              string          `json:"rut_nif" form:"rut_nif"`
	RazonSocial         string          `json:"razon_social" form:"razon_social"`
	NombreFantasia      string          `json:"nombre_fantasia" form:"nombre_fantasia"`
	Email               string          `json:"email" form:"email"`
	Telefono            string          `json:"telefono" form:"telefono"`
	SitioWeb            string          `json:"sitio_web" form:"sitio_web"`
	PlazosPagoDias      int             `json:"plazos_pago_dias" form:"plazos_pago_dias"`
	Moneda              string          `json:"moneda" form:"moneda"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje" form:"descuento_porcentaje"`
}

// SupplierResponse proveedor para respuestas.
type SupplierResponse struct {
	ID                  int64           `json:"id"`
	RutNif              string          `json:"rut_nif"`
	RazonSocial         string          `json:"razon_social"`
	NombreFantasia      string          `json:"nombre_fantasia,omitempty"`
	Email               string          `json:"email"`
	Telefono            string          `json:"telefono,omitempty"`
	SitioWeb            string          `json:"sitio_web,omitempty"`
	PlazosPagoDias      int             `json:"plazos_pago_dias"`
	Moneda              string          `json:"moneda"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	Estado              string          `json:"estado"`
}

// SupplierListResponse página de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageMeta           `json:"page"`
}

// RelationRequest upsert de la relación proveedor-producto. El producto se
// ubica por SKU exacto o, en su defecto, por subcadena del nombre (primer
// match por id).
type RelationRequest struct {
	RutNif              string          `json:"rut_nif" form:"rut_nif"`
	SkuOrName           string          `json:"sku_or_name" form:"sku_or_name"`
	Preferente          bool            `json:"preferente" form:"preferente"`
	LeadTimeDias        int             `json:"lead_time_dias" form:"lead_time_dias"`
	Costo               decimal.Decimal `json:"costo" form:"costo"`
	MinimoLote          decimal.Decimal `json:"minimo_lote" form:"minimo_lote"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje" form:"descuento_porcentaje"`
}

// RelationResponse relación para respuestas y exportación.
type RelationResponse struct {
	ID                  int64           `json:"id"`
	Proveedor           string          `json:"proveedor"`
	Rut                 string          `json:"rut"`
	Producto            string          `json:"producto"`
	SKU                 string          `json:"sku"`
	Preferente          bool            `json:"preferente"`
	LeadTimeDias        int             `json:"lead_time"`
	Costo               decimal.Decimal `json:"costo"`
	MinimoLote          decimal.Decimal `json:"minimo_lote"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
}

// RelationListResponse página de relaciones.
type RelationListResponse struct {
	Items []RelationResponse `json:"items"`
	Page  PageMeta           `json:"page"`
}
