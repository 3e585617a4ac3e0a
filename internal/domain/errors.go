package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCatalogUnavailable = errors.New("catálogo de productos no disponible")
)

// ErrProductNotInCatalog el catálogo respondió que el producto no existe.
// Es un ErrNotFound: errors.Is(ErrProductNotInCatalog, ErrNotFound) == true.
var ErrProductNotInCatalog = fmt.Errorf("producto inexistente en el catálogo: %w", ErrNotFound)

// InsufficientStockError detalle de una deducción rechazada. errors.Is(err, ErrInsufficientStock) lo reconoce.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %d: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidationError entrada mal formada, rechazada antes de cualquier I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
