// Package production contiene la lógica pura del ciclo de vida de las OF
// (sin dependencias de infraestructura).
package production

import (
	"time"

	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// transiciones válidas del ciclo de vida de una OF. Validado e Incidencia no
// tienen salidas: la corrección es crear una OF nueva (linaje append-only).
var transiciones = map[string][]string{
	entity.EstadoPendiente:  {entity.EstadoAsignada},
	entity.EstadoAsignada:   {entity.EstadoEnProceso, entity.EstadoIncidencia},
	entity.EstadoEnProceso:  {entity.EstadoFinalizado, entity.EstadoIncidencia},
	entity.EstadoFinalizado: {entity.EstadoValidado, entity.EstadoIncidencia},
	entity.EstadoValidado:   {},
	entity.EstadoIncidencia: {},
}

// CanTransition indica si el salto de estado está permitido.
func CanTransition(desde, hasta string) bool {
	for _, s := range transiciones[desde] {
		if s == hasta {
			return true
		}
	}
	return false
}

// EsTerminal indica si el estado no admite más transiciones.
func EsTerminal(estado string) bool {
	return len(transiciones[estado]) == 0
}

// Apply aplica la transición sobre la OF en memoria: cambia el estado y
// estampa la fecha del paso. No persiste; el caller escribe con condición
// sobre (estado, version).
func Apply(of *entity.OrdenFabricacion, hasta string, now time.Time) error {
	if !CanTransition(of.Estado, hasta) {
		return domain.ErrInvalidTransition
	}
	of.Estado = hasta
	switch hasta {
	case entity.EstadoAsignada:
		of.FechaAsignacion = &now
	case entity.EstadoEnProceso:
		of.FechaInicioProduccion = &now
	case entity.EstadoFinalizado:
		of.FechaFinalizacion = &now
	case entity.EstadoValidado:
		of.FechaValidacionCalidad = &now
	case entity.EstadoIncidencia:
		of.Incidencia = true
	}
	return nil
}

// CantidadDisponible devuelve cuánto queda asignable del lote: cantidad
// producida menos lo ya repartido en contenedores. Nunca negativa.
func CantidadDisponible(of *entity.OrdenFabricacion, asignado decimal.Decimal) decimal.Decimal {
	disponible := of.CantidadProducida().Sub(asignado)
	if disponible.IsNegative() {
		return decimal.Zero
	}
	return disponible
}
