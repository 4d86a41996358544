package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.PickingStateRepository = (*PickingStateRepo)(nil)

// PickingStateRepo proyección de picking por OS sobre PostgreSQL.
type PickingStateRepo struct {
	q Querier
}

// NewPickingStateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPickingStateRepository(q Querier) *PickingStateRepo {
	return &PickingStateRepo{q: q}
}

// Get obtiene la proyección de una OS (nil si no hubo actividad).
func (r *PickingStateRepo) Get(osID string) (*entity.PickingState, error) {
	query := `
		SELECT os_id, status, total_contenedores, total_asignaciones, cantidad_asignada, updated_at
		FROM picking_states WHERE os_id = $1`
	var ps entity.PickingState
	err := r.q.QueryRow(context.Background(), query, osID).Scan(
		&ps.OsID, &ps.Status, &ps.TotalContenedores, &ps.TotalAsignaciones, &ps.CantidadAsignada, &ps.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get picking state %s: %w", osID, err)
	}
	return &ps, nil
}

// Upsert inserta o actualiza la proyección (misma transacción que la
// escritura de asignación que la altera).
func (r *PickingStateRepo) Upsert(ps *entity.PickingState) error {
	query := `
		INSERT INTO picking_states (os_id, status, total_contenedores, total_asignaciones, cantidad_asignada, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (os_id)
		DO UPDATE SET status = EXCLUDED.status, total_contenedores = EXCLUDED.total_contenedores,
			total_asignaciones = EXCLUDED.total_asignaciones, cantidad_asignada = EXCLUDED.cantidad_asignada,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		ps.OsID, ps.Status, ps.TotalContenedores, ps.TotalAsignaciones, ps.CantidadAsignada, ps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert picking state %s: %w", ps.OsID, err)
	}
	return nil
}

// SetStatus cambia solo el estado operativo de la OS. Deja los contadores
// fuera del UPDATE: una asignación concurrente no puede quedar pisada por una
// lectura vieja de la proyección.
func (r *PickingStateRepo) SetStatus(osID, status string, updatedAt time.Time) error {
	query := `
		INSERT INTO picking_states (os_id, status, total_contenedores, total_asignaciones, cantidad_asignada, updated_at)
		VALUES ($1, $2, 0, 0, 0, $3)
		ON CONFLICT (os_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, osID, status, updatedAt)
	if err != nil {
		return fmt.Errorf("set picking status %s: %w", osID, err)
	}
	return nil
}
