package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrLotLocked              = errors.New("la OF está validada y no admite cambios de cantidad")
	ErrLoteNoElegible         = errors.New("la OF no está validada y no es elegible para picking")
	ErrInsufficientLotQty     = errors.New("cantidad disponible insuficiente en la OF")
	ErrContainerScopeMismatch = errors.New("el contenedor pertenece a otra orden de servicio")
	ErrStaleState             = errors.New("el estado almacenado cambió; releer y reintentar")
)
