package entity

// Warehouse bodega física.
type Warehouse struct {
	ID   int64
	Name string
}
