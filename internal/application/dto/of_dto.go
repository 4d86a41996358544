package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOFRequest alta manual de una orden de fabricación.
type CreateOFRequest struct {
	ElaboracionID     string          `json:"elaboracionId"`
	ElaboracionNombre string          `json:"elaboracionNombre"`
	Unidad            string          `json:"unidad"`
	CantidadTotal     decimal.Decimal `json:"cantidadTotal"`
	Partida           string          `json:"partida"`
	TipoExpedicion    string          `json:"tipoExpedicion"`
	FechaPrevista     string          `json:"fechaPrevista"` // yyyy-mm-dd
	OsIDs             []string        `json:"osIds,omitempty"`
}

// AsignarOFRequest asignación de partida y responsable.
type AsignarOFRequest struct {
	Partida     string `json:"partida,omitempty"`
	Responsable string `json:"responsable"`
}

// FinalizarOFRequest registro de la cantidad realmente producida.
type FinalizarOFRequest struct {
	CantidadReal decimal.Decimal `json:"cantidadReal"`
}

// ValidarOFRequest validación de calidad.
type ValidarOFRequest struct {
	ResponsableCalidad string `json:"responsableCalidad"`
}

// IncidenciaOFRequest apertura de incidencia sobre una OF.
type IncidenciaOFRequest struct {
	Observaciones string `json:"observaciones"`
}

// ReasignarOFRequest cambio explícito de partida propietaria.
type ReasignarOFRequest struct {
	Partida string `json:"partida"`
}

// CantidadRealRequest corrección de cantidad real antes de validar.
type CantidadRealRequest struct {
	CantidadReal decimal.Decimal `json:"cantidadReal"`
}

// OFResponse representación HTTP de una orden de fabricación.
type OFResponse struct {
	ID                      string           `json:"id"`
	ElaboracionID           string           `json:"elaboracionId"`
	ElaboracionNombre       string           `json:"elaboracionNombre"`
	Unidad                  string           `json:"unidad"`
	CantidadTotal           decimal.Decimal  `json:"cantidadTotal"`
	CantidadReal            *decimal.Decimal `json:"cantidadReal,omitempty"`
	Partida                 string           `json:"partida"`
	TipoExpedicion          string           `json:"tipoExpedicion"`
	Estado                  string           `json:"estado"`
	Responsable             string           `json:"responsable,omitempty"`
	ResponsableCalidad      string           `json:"responsableCalidad,omitempty"`
	Incidencia              bool             `json:"incidencia"`
	IncidenciaObservaciones string           `json:"incidenciaObservaciones,omitempty"`
	OsIDs                   []string         `json:"osIds,omitempty"`
	FechaProduccionPrevista string           `json:"fechaProduccionPrevista"`
	FechaCreacion           time.Time        `json:"fechaCreacion"`
	FechaAsignacion         *time.Time       `json:"fechaAsignacion,omitempty"`
	FechaInicioProduccion   *time.Time       `json:"fechaInicioProduccion,omitempty"`
	FechaFinalizacion       *time.Time       `json:"fechaFinalizacion,omitempty"`
	FechaValidacionCalidad  *time.Time       `json:"fechaValidacionCalidad,omitempty"`
}

// OFListResponse listado paginado de OFs.
type OFListResponse struct {
	Items []OFResponse `json:"items"`
	Page  PageResponse `json:"page"`
}

// GenerarOFsRequest creación de OFs desde necesidades seleccionadas.
// Las necesidades son efímeras (no se persisten), así que el cliente envía
// de vuelta las filas seleccionadas de la última corrida de planificación.
type GenerarOFsRequest struct {
	FechaProduccion string                  `json:"fechaProduccion"` // yyyy-mm-dd
	Necesidades     []NecesidadSeleccionada `json:"necesidades"`
}

// NecesidadSeleccionada una necesidad elegida para fabricar.
type NecesidadSeleccionada struct {
	ElaboracionID  string          `json:"elaboracionId"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	Partida        string          `json:"partida"`
	TipoExpedicion string          `json:"tipoExpedicion"`
	CantidadNeta   decimal.Decimal `json:"cantidadNeta"`
	OsIDs          []string        `json:"osIds"`
}
