package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementIngreso       = "INGRESO"
	MovementSalida        = "SALIDA"
	MovementAjuste        = "AJUSTE"
	MovementTransferencia = "TRANSFERENCIA"
	MovementDevolucion    = "DEVOLUCION"
)

// MovementTypeNames nombres legibles por tipo (cabeceras de exportación y listados).
var MovementTypeNames = map[string]string{
	MovementIngreso:       "Ingreso",
	MovementSalida:        "Salida",
	MovementAjuste:        "Ajuste",
	MovementTransferencia: "Transferencia",
	MovementDevolucion:    "Devolución",
}

// ValidMovementType indica si tipo pertenece al conjunto enumerado.
func ValidMovementType(t string) bool {
	_, ok := MovementTypeNames[t]
	return ok
}

// StockEffect efecto con signo de un movimiento sobre el stock total global.
// INGRESO y DEVOLUCION suman, SALIDA resta, AJUSTE aplica su cantidad con signo
// y TRANSFERENCIA es neutra a nivel global (mueve entre bodegas).
func StockEffect(movType string, qty decimal.Decimal) decimal.Decimal {
	switch movType {
	case MovementSalida:
		return qty.Neg()
	case MovementTransferencia:
		return decimal.Zero
	default:
		return qty
	}
}

// Movement movimiento del libro de inventario. Append-mostly: solo tipo y
// cantidad son editables después de creado.
type Movement struct {
	ID          int64
	Date        time.Time
	Type        string
	ProductID   int64
	SupplierID  *int64
	Quantity    decimal.Decimal
	SourceWhID  *int64 // bodega origen (transferencias, salidas)
	DestWhID    *int64 // bodega destino (transferencias, ingresos)
	Lot         string
	Serial      string
	ExpiryDate  *time.Time
	ReferenceDoc string
	Note        string
	CreatedBy   int64
	CreatedAt   time.Time

	// Joins de lectura.
	ProductName       string
	ProductSKU        string
	SupplierName      string
	SourceWhName      string
	DestWhName        string
	CreatedByUsername string
}
