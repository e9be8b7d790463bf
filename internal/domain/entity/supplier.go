package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor.
type Supplier struct {
	ID              int64
	RUT             string // RUT/NIF, único
	LegalName       string // razón social
	TradeName       string // nombre de fantasía
	Email           string
	Phone           string
	Website         string
	PaymentTermDays int    // 0..365
	Currency        string // CLP por defecto
	DiscountPercent decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SupplierProduct relación proveedor-producto. Única por (SupplierID, ProductID);
// la creación tiene semántica de upsert sobre esa clave compuesta.
type SupplierProduct struct {
	ID              int64
	SupplierID      int64
	ProductID       int64
	Preferred       bool
	LeadTimeDays    int // 0..365
	Cost            decimal.Decimal
	MinimumLot      decimal.Decimal
	DiscountPercent decimal.Decimal

	// Joins de lectura.
	SupplierName string
	SupplierRUT  string
	ProductName  string
	ProductSKU   string
}
