package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.BriefingRepository = (*BriefingRepo)(nil)

// BriefingRepo lectura de briefings comerciales. Este motor no escribe en
// estas tablas; el CRUD comercial vive en otro servicio.
type BriefingRepo struct {
	q Querier
}

// NewBriefingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBriefingRepository(q Querier) *BriefingRepo {
	return &BriefingRepo{q: q}
}

// GetByOs carga el briefing completo de una orden de servicio (nil si no existe).
func (r *BriefingRepo) GetByOs(osID string) (*entity.ComercialBriefing, error) {
	query := `
		SELECT hito_id, fecha, descripcion, sala, asistentes, con_gastronomia, receta_ids
		FROM briefing_hitos WHERE os_id = $1 ORDER BY fecha, hito_id`
	rows, err := r.q.Query(context.Background(), query, osID)
	if err != nil {
		return nil, fmt.Errorf("get briefing %s: %w", osID, err)
	}
	defer rows.Close()

	briefing := &entity.ComercialBriefing{OsID: osID}
	for rows.Next() {
		var h entity.BriefingHito
		if err := rows.Scan(&h.ID, &h.Fecha, &h.Descripcion, &h.Sala, &h.Asistentes, &h.ConGastronomia, &h.RecetaIDs); err != nil {
			return nil, fmt.Errorf("scan hito: %w", err)
		}
		briefing.Hitos = append(briefing.Hitos, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(briefing.Hitos) == 0 {
		return nil, nil
	}
	return briefing, nil
}

// ListConGastronomia briefings con algún hito gastronómico en el rango.
// Se cargan todos los hitos de cada OS implicada; el agregador filtra por
// fecha y bandera al recorrerlos.
func (r *BriefingRepo) ListConGastronomia(desde, hasta time.Time) ([]*entity.ComercialBriefing, error) {
	query := `
		SELECT DISTINCT os_id FROM briefing_hitos
		WHERE con_gastronomia AND fecha BETWEEN $1 AND $2
		ORDER BY os_id`
	rows, err := r.q.Query(context.Background(), query, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("list briefings con gastronomía: %w", err)
	}
	defer rows.Close()

	var osIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan os_id: %w", err)
		}
		osIDs = append(osIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	briefings := make([]*entity.ComercialBriefing, 0, len(osIDs))
	for _, osID := range osIDs {
		b, err := r.GetByOs(osID)
		if err != nil {
			return nil, err
		}
		if b != nil {
			briefings = append(briefings, b)
		}
	}
	return briefings, nil
}
