package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrNotLedgerRecord = errors.New("el registro no pertenece al ledger")
	ErrAlreadyResolved = errors.New("el movimiento ya fue aprobado o rechazado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
)

// InsufficientStockError rechaza una salida que excede el stock disponible.
// Lleva las cantidades para que el caller pueda mostrar el disponible.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}
