package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una Orden de Fabricación.
// Validado e Incidencia son terminales: una corrección exige crear una OF nueva.
const (
	EstadoPendiente  = "Pendiente"
	EstadoAsignada   = "Asignada"
	EstadoEnProceso  = "En Proceso"
	EstadoFinalizado = "Finalizado"
	EstadoValidado   = "Validado"
	EstadoIncidencia = "Incidencia"
)

// Partidas de producción del CPR.
const (
	PartidaFrio       = "FRIO"
	PartidaCaliente   = "CALIENTE"
	PartidaPasteleria = "PASTELERIA"
	PartidaExpedicion = "EXPEDICION"
)

// Tipos de expedición (condiciones de transporte del lote).
const (
	ExpedicionRefrigerado = "REFRIGERADO"
	ExpedicionCongelado   = "CONGELADO"
	ExpedicionSeco        = "SECO"
)

// Partidas lista de partidas válidas.
var Partidas = []string{PartidaFrio, PartidaCaliente, PartidaPasteleria, PartidaExpedicion}

// TiposExpedicion lista de tipos de expedición válidos.
var TiposExpedicion = []string{ExpedicionRefrigerado, ExpedicionCongelado, ExpedicionSeco}

// OrdenFabricacion (OF) es un lote de producción de una elaboración.
// El ID es clave de negocio legible (OF-YYYYMMDD-NNN). CantidadReal queda nil
// hasta que producción finaliza el lote; Version soporta escrituras condicionales
// (concurrencia optimista).
type OrdenFabricacion struct {
	ID                      string
	ElaboracionID           string
	ElaboracionNombre       string
	Unidad                  string
	CantidadTotal           decimal.Decimal
	CantidadReal            *decimal.Decimal
	PartidaAsignada         string
	TipoExpedicion          string
	Estado                  string
	Responsable             string
	ResponsableCalidad      string
	Incidencia              bool
	IncidenciaObservaciones string
	OsIDs                   []string
	FechaProduccionPrevista time.Time
	FechaCreacion           time.Time
	FechaAsignacion         *time.Time
	FechaInicioProduccion   *time.Time
	FechaFinalizacion       *time.Time
	FechaValidacionCalidad  *time.Time
	CreatedBy               string
	Version                 int
}

// CantidadProducida devuelve la cantidad real si existe, si no la planificada.
func (of *OrdenFabricacion) CantidadProducida() decimal.Decimal {
	if of.CantidadReal != nil {
		return *of.CantidadReal
	}
	return of.CantidadTotal
}

// PerteneceAOs indica si el lote fue producido para la OS dada.
// Una OF manual sin OS asociadas (producción directa) sirve a cualquier OS.
func (of *OrdenFabricacion) PerteneceAOs(osID string) bool {
	if len(of.OsIDs) == 0 {
		return true
	}
	for _, id := range of.OsIDs {
		if id == osID {
			return true
		}
	}
	return false
}

// EsPartidaValida verifica que la partida sea una de las cuatro líneas del CPR.
func EsPartidaValida(partida string) bool {
	for _, p := range Partidas {
		if p == partida {
			return true
		}
	}
	return false
}

// EsTipoExpedicionValido verifica el tipo de expedición.
func EsTipoExpedicionValido(tipo string) bool {
	for _, t := range TiposExpedicion {
		if t == tipo {
			return true
		}
	}
	return false
}
