package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AsignacionContenedor liga cantidad validada de una OF a un contenedor.
// OsID e HitoID se desnormalizan del contenedor para las consultas de
// trazabilidad y el estado de picking por orden de servicio.
type AsignacionContenedor struct {
	ID           string
	OfID         string
	ContenedorID string
	OsID         string
	HitoID       string
	Cantidad     decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}
