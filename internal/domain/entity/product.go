package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto (SKU) del catálogo.
// StockTotal es derivado: suma con signo de los movimientos de inventario
// en todas las bodegas. Se calcula en cada lectura, no se almacena.
type Product struct {
	ID           int64
	SKU          string // único, normalizado a mayúsculas
	Name         string
	CategoryID   int64
	CategoryName string // join de lectura
	Brand        string
	Barcode      string
	Description  string
	Cost         decimal.Decimal // costo estándar
	SalePrice    decimal.Decimal
	StockMinimum decimal.Decimal
	StockMaximum decimal.Decimal
	ReorderPoint decimal.Decimal
	Active       bool
	StockTotal   decimal.Decimal // derivado, solo lectura
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
