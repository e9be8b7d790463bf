package entity

// Category categoría de producto.
type Category struct {
	ID   int64
	Name string
}
