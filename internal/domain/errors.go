package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Errores del motor de movimientos. Cada uno corresponde a un estado distinto hacia el cliente.
var (
	ErrInvalidMovementType       = errors.New("tipo de movimiento inválido")
	ErrInvalidQuantity           = errors.New("cantidad inválida para el tipo de movimiento")
	ErrItemNotFound              = errors.New("ítem no encontrado")
	ErrWarehouseNotFound         = errors.New("bodega no encontrada")
	ErrMissingWarehouseReference = errors.New("falta la bodega de origen o destino")
	ErrInvalidTransfer           = errors.New("origen y destino del traslado deben ser distintos")
	ErrInsufficientStock         = errors.New("stock insuficiente")

	// ErrStorageFailure envuelve cualquier fallo de la transacción (begin, lectura, escritura o commit).
	// La causa se conserva con %w para los logs; al cliente solo llega el tipo de error.
	ErrStorageFailure = errors.New("fallo de almacenamiento")
)

// IsMovementError indica si err es un error de validación del motor (no de almacenamiento).
func IsMovementError(err error) bool {
	for _, target := range []error{
		ErrInvalidMovementType, ErrInvalidQuantity, ErrItemNotFound, ErrWarehouseNotFound,
		ErrMissingWarehouseReference, ErrInvalidTransfer, ErrInsufficientStock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
