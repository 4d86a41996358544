package repository

import (
	"time"

	"github.com/lromero/cpr-api/internal/domain/entity"
)

// BriefingRepository lectura de briefings comerciales (el CRUD vive fuera).
type BriefingRepository interface {
	GetByOs(osID string) (*entity.ComercialBriefing, error)
	// ListConGastronomia devuelve los briefings con al menos un hito
	// gastronómico cuya fecha cae en el rango [desde, hasta].
	ListConGastronomia(desde, hasta time.Time) ([]*entity.ComercialBriefing, error)
}
