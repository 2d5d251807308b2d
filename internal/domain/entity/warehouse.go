package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario. Code es único.
type Warehouse struct {
	ID          int64
	Code        string
	Name        string
	Location    *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
