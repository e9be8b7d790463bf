package repository

import "context"

// Tx repos atados a una misma transacción del almacén.
type Tx interface {
	Products() ProductRepository
	Suppliers() SupplierRepository
	Relations() RelationRepository
	Movements() MovementRepository
	Users() UserRepository
}

// TxRunner ejecuta fn dentro de una unidad de trabajo atómica: o se aplican
// todas las escrituras de fn, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
