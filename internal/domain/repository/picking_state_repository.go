package repository

import (
	"time"

	"github.com/lromero/cpr-api/internal/domain/entity"
)

// PickingStateRepository puerto de la proyección de picking por orden de
// servicio, actualizada en la misma transacción que cada asignación.
type PickingStateRepository interface {
	Get(osID string) (*entity.PickingState, error)
	Upsert(ps *entity.PickingState) error
	// SetStatus cambia solo el estado operativo. No toca los contadores:
	// esos los escribe la transacción de asignación que los altera.
	SetStatus(osID, status string, updatedAt time.Time) error
}
