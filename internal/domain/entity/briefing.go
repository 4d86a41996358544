package entity

import "time"

// BriefingHito es un hito del briefing comercial de una orden de servicio:
// un momento de servicio (coffee break, almuerzo...) con fecha, sala y aforo.
// Solo los hitos con ConGastronomia generan necesidades de producción.
type BriefingHito struct {
	ID             string
	Fecha          time.Time
	Descripcion    string
	Sala           string
	Asistentes     int
	ConGastronomia bool
	RecetaIDs      []string // menú gastronómico del hito
}

// ComercialBriefing agrupa los hitos de una orden de servicio (solo lectura
// para este motor; el CRUD comercial vive fuera).
type ComercialBriefing struct {
	OsID  string
	Hitos []BriefingHito
}
