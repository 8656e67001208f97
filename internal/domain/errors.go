package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPaymentMismatch   = errors.New("los montos del pago múltiple no coinciden con el total")
	ErrRateUnavailable   = errors.New("cotización del dólar no disponible")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrMissingDetail     = errors.New("el detalle es obligatorio para una deuda")
)
