package postgres

import (
	"context"
	"fmt"

	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.RecetaRepository = (*RecetaRepo)(nil)

// RecetaRepo lectura del libro de recetas (solo lectura para este motor).
type RecetaRepo struct {
	q Querier
}

// NewRecetaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecetaRepository(q Querier) *RecetaRepo {
	return &RecetaRepo{q: q}
}

// GetByID carga una receta con su escandallo (nil si no existe).
func (r *RecetaRepo) GetByID(id string) (*entity.Receta, error) {
	recetas, err := r.ListByIDs([]string{id})
	if err != nil {
		return nil, err
	}
	if len(recetas) == 0 {
		return nil, nil
	}
	return recetas[0], nil
}

// ListByIDs carga recetas con su escandallo; los IDs inexistentes se omiten.
func (r *RecetaRepo) ListByIDs(ids []string) ([]*entity.Receta, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT r.id, r.nombre, re.elaboracion_id, re.cantidad_por_servicio
		FROM recetas r
		LEFT JOIN receta_elaboraciones re ON re.receta_id = r.id
		WHERE r.id = ANY($1)
		ORDER BY r.id, re.elaboracion_id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list recetas: %w", err)
	}
	defer rows.Close()

	porID := make(map[string]*entity.Receta)
	var orden []string
	for rows.Next() {
		var id, nombre string
		var linea entity.ElaboracionEnReceta
		var elabID *string
		if err := rows.Scan(&id, &nombre, &elabID, &linea.CantidadPorServicio); err != nil {
			return nil, fmt.Errorf("scan receta: %w", err)
		}
		receta, ok := porID[id]
		if !ok {
			receta = &entity.Receta{ID: id, Nombre: nombre}
			porID[id] = receta
			orden = append(orden, id)
		}
		if elabID != nil {
			linea.ElaboracionID = *elabID
			receta.Elaboraciones = append(receta.Elaboraciones, linea)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recetas := make([]*entity.Receta, 0, len(orden))
	for _, id := range orden {
		recetas = append(recetas, porID[id])
	}
	return recetas, nil
}

// ListByElaboracion recetas cuyo escandallo consume la elaboración.
func (r *RecetaRepo) ListByElaboracion(elaboracionID string) ([]*entity.Receta, error) {
	query := `SELECT DISTINCT receta_id FROM receta_elaboraciones WHERE elaboracion_id = $1 ORDER BY receta_id`
	rows, err := r.q.Query(context.Background(), query, elaboracionID)
	if err != nil {
		return nil, fmt.Errorf("list recetas por elaboración: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan receta_id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.ListByIDs(ids)
}
