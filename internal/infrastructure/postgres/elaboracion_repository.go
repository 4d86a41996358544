package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.ElaboracionRepository = (*ElaboracionRepo)(nil)

// ElaboracionRepo lectura del catálogo de elaboraciones.
type ElaboracionRepo struct {
	q Querier
}

// NewElaboracionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewElaboracionRepository(q Querier) *ElaboracionRepo {
	return &ElaboracionRepo{q: q}
}

// GetByID obtiene una elaboración (nil si no existe).
func (r *ElaboracionRepo) GetByID(id string) (*entity.Elaboracion, error) {
	query := `
		SELECT id, nombre, unidad_produccion, partida_produccion, tipo_expedicion
		FROM elaboraciones WHERE id = $1`
	var e entity.Elaboracion
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.Nombre, &e.UnidadProduccion, &e.PartidaProduccion, &e.TipoExpedicion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get elaboración %s: %w", id, err)
	}
	return &e, nil
}

// ListByIDs carga elaboraciones; los IDs inexistentes se omiten.
func (r *ElaboracionRepo) ListByIDs(ids []string) ([]*entity.Elaboracion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, nombre, unidad_produccion, partida_produccion, tipo_expedicion
		FROM elaboraciones WHERE id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list elaboraciones: %w", err)
	}
	defer rows.Close()

	var items []*entity.Elaboracion
	for rows.Next() {
		var e entity.Elaboracion
		if err := rows.Scan(&e.ID, &e.Nombre, &e.UnidadProduccion, &e.PartidaProduccion, &e.TipoExpedicion); err != nil {
			return nil, fmt.Errorf("scan elaboración: %w", err)
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
