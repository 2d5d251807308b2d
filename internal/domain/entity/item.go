package entity

import "time"

// UnitOfMeasureDefault unidad por defecto cuando el ítem se crea sin unidad.
const UnitOfMeasureDefault = "pcs"

// Item representa un artículo inventariable identificado por su SKU (único).
// Una vez referenciado por stock o movimientos solo cambian sus campos no clave.
type Item struct {
	ID            int64
	SKU           string
	Name          string
	UnitOfMeasure string
	Description   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
