package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de picking por orden de servicio.
const (
	PickingPendiente = "Pendiente"
	PickingPreparado = "Preparado"
	PickingEnviado   = "Enviado"
	PickingEntregado = "Entregado"
	PickingRetornado = "Retornado"
)

// EstadosPicking lista de estados válidos.
var EstadosPicking = []string{PickingPendiente, PickingPreparado, PickingEnviado, PickingEntregado, PickingRetornado}

// PickingState es la proyección por orden de servicio mantenida en la misma
// transacción que cada escritura de asignación: responde "¿hubo picking?"
// sin recorrer las asignaciones.
type PickingState struct {
	OsID              string
	Status            string
	TotalContenedores int
	TotalAsignaciones int
	CantidadAsignada  decimal.Decimal
	UpdatedAt         time.Time
}

// EsEstadoPickingValido verifica el estado de picking.
func EsEstadoPickingValido(status string) bool {
	for _, s := range EstadosPicking {
		if s == status {
			return true
		}
	}
	return false
}
