package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContenedorRequest alta de contenedor en el contexto de un hito.
type CreateContenedorRequest struct {
	HitoID string `json:"hitoId"`
	Tipo   string `json:"tipo"` // REFRIGERADO | CONGELADO | SECO
}

// ContenedorResponse representación HTTP de un contenedor.
type ContenedorResponse struct {
	ID        string    `json:"id"`
	OsID      string    `json:"osId"`
	HitoID    string    `json:"hitoId"`
	Tipo      string    `json:"tipo"`
	Numero    int       `json:"numero"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAsignacionRequest alta de asignación lote→contenedor.
type CreateAsignacionRequest struct {
	OfID         string          `json:"ofId"`
	ContenedorID string          `json:"contenedorId"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

// UpdateAsignacionRequest ajuste de cantidad de una asignación.
type UpdateAsignacionRequest struct {
	Cantidad decimal.Decimal `json:"cantidad"`
}

// AsignacionResponse representación HTTP de una asignación.
type AsignacionResponse struct {
	ID           string          `json:"id"`
	OfID         string          `json:"ofId"`
	ContenedorID string          `json:"contenedorId"`
	OsID         string          `json:"osId"`
	HitoID       string          `json:"hitoId"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PickingStatusRequest cambio de estado de picking de una OS.
type PickingStatusRequest struct {
	Status string `json:"status"`
}

// PickingStateResponse proyección de picking por orden de servicio.
type PickingStateResponse struct {
	OsID              string          `json:"osId"`
	Status            string          `json:"status"`
	TotalContenedores int             `json:"totalContenedores"`
	TotalAsignaciones int             `json:"totalAsignaciones"`
	CantidadAsignada  decimal.Decimal `json:"cantidadAsignada"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
