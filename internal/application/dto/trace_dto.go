package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrazaItemResponse línea de la traza de un contenedor.
type TrazaItemResponse struct {
	OfID              string          `json:"ofId"`
	ElaboracionID     string          `json:"elaboracionId"`
	ElaboracionNombre string          `json:"elaboracionNombre"`
	Unidad            string          `json:"unidad"`
	Cantidad          decimal.Decimal `json:"cantidad"`
	Receta            string          `json:"receta"` // nombre de receta o "directo"
	FechaAsignacion   time.Time       `json:"fechaAsignacion"`
}

// TrazaContenedorResponse traza completa de un contenedor.
type TrazaContenedorResponse struct {
	ContenedorID string              `json:"contenedorId"`
	OsID         string              `json:"osId"`
	HitoID       string              `json:"hitoId"`
	Tipo         string              `json:"tipo"`
	Numero       int                 `json:"numero"`
	Items        []TrazaItemResponse `json:"items"`
}

// DestinoLoteResponse consumo de un lote por un contenedor.
type DestinoLoteResponse struct {
	ContenedorID string          `json:"contenedorId"`
	OsID         string          `json:"osId"`
	HitoID       string          `json:"hitoId"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

// TrazaLoteResponse traza de consumo de una OF.
type TrazaLoteResponse struct {
	Of       OFResponse            `json:"of"`
	Destinos []DestinoLoteResponse `json:"destinos"`
}
