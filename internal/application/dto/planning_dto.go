package dto

import "github.com/shopspring/decimal"

// OrigenNecesidadResponse tupla contribuyente (OS, hito, receta).
type OrigenNecesidadResponse struct {
	OsID         string          `json:"osId"`
	HitoID       string          `json:"hitoId"`
	RecetaID     string          `json:"recetaId"`
	RecetaNombre string          `json:"recetaNombre"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

// NecesidadResponse demanda agregada de una elaboración para una fecha.
type NecesidadResponse struct {
	ElaboracionID       string                    `json:"elaboracionId"`
	Nombre              string                    `json:"nombre"`
	Unidad              string                    `json:"unidad"`
	Partida             string                    `json:"partida"`
	TipoExpedicion      string                    `json:"tipoExpedicion"`
	Fecha               string                    `json:"fecha"` // yyyy-mm-dd
	CantidadNecesaria   decimal.Decimal           `json:"cantidadNecesaria"`
	StockDisponible     decimal.Decimal           `json:"stockDisponible"`
	CantidadPlanificada decimal.Decimal           `json:"cantidadPlanificada"`
	CantidadNeta        decimal.Decimal           `json:"cantidadNeta"`
	Origenes            []OrigenNecesidadResponse `json:"origenes"`
}

// NecesidadesResponse resultado de una corrida de agregación de demanda.
type NecesidadesResponse struct {
	Desde       string              `json:"desde"`
	Hasta       string              `json:"hasta"`
	Necesidades []NecesidadResponse `json:"necesidades"`
	Avisos      []string            `json:"avisos,omitempty"`
}
