package repository

import "time"

// SecuenciaRepository numeración correlativa diaria para los IDs de OF
// (OF-YYYYMMDD-NNN).
type SecuenciaRepository interface {
	Next(fecha time.Time) (int, error)
}
