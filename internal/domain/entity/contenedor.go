package entity

import "time"

// Contenedor es un contenedor logístico de picking. Nace ligado a un único
// hito de una única orden de servicio; ese alcance no se reasigna después.
type Contenedor struct {
	ID        string
	OsID      string
	HitoID    string
	Tipo      string // REFRIGERADO | CONGELADO | SECO
	Numero    int    // correlativo por (hito, tipo)
	CreatedAt time.Time
}
