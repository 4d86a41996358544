package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.ContenedorRepository = (*ContenedorRepo)(nil)

// ContenedorRepo implementación sobre PostgreSQL (usable con pool o tx).
type ContenedorRepo struct {
	q Querier
}

// NewContenedorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContenedorRepository(q Querier) *ContenedorRepo {
	return &ContenedorRepo{q: q}
}

// Create persiste un contenedor (alcance OS+hito fijado en el alta).
func (r *ContenedorRepo) Create(c *entity.Contenedor) error {
	query := `
		INSERT INTO contenedores (id, os_id, hito_id, tipo, numero, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.OsID, c.HitoID, c.Tipo, c.Numero, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contenedor: %w", err)
	}
	return nil
}

// GetByID obtiene un contenedor (nil si no existe).
func (r *ContenedorRepo) GetByID(id string) (*entity.Contenedor, error) {
	query := `SELECT id, os_id, hito_id, tipo, numero, created_at FROM contenedores WHERE id = $1`
	var c entity.Contenedor
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.OsID, &c.HitoID, &c.Tipo, &c.Numero, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contenedor %s: %w", id, err)
	}
	return &c, nil
}

// ListByOs contenedores de una orden de servicio.
func (r *ContenedorRepo) ListByOs(osID string) ([]*entity.Contenedor, error) {
	return r.list(`SELECT id, os_id, hito_id, tipo, numero, created_at
		FROM contenedores WHERE os_id = $1 ORDER BY hito_id, tipo, numero`, osID)
}

// ListByHito contenedores de un hito concreto.
func (r *ContenedorRepo) ListByHito(osID, hitoID string) ([]*entity.Contenedor, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, os_id, hito_id, tipo, numero, created_at
		 FROM contenedores WHERE os_id = $1 AND hito_id = $2 ORDER BY tipo, numero`, osID, hitoID)
	if err != nil {
		return nil, fmt.Errorf("list contenedores por hito: %w", err)
	}
	defer rows.Close()
	return scanContenedores(rows)
}

// NextNumero reserva el siguiente correlativo de contenedor para (hito, tipo).
// El upsert atómico serializa altas concurrentes sobre el mismo hito: dos
// transacciones nunca obtienen el mismo número, y un número reservado no se
// reutiliza aunque el contenedor se borre después.
func (r *ContenedorRepo) NextNumero(osID, hitoID, tipo string) (int, error) {
	query := `
		INSERT INTO contenedor_secuencias (os_id, hito_id, tipo, contador)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (os_id, hito_id, tipo)
		DO UPDATE SET contador = contenedor_secuencias.contador + 1
		RETURNING contador`
	var n int
	if err := r.q.QueryRow(context.Background(), query, osID, hitoID, tipo).Scan(&n); err != nil {
		return 0, fmt.Errorf("next numero contenedor: %w", err)
	}
	return n, nil
}

// Delete elimina un contenedor.
func (r *ContenedorRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM contenedores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contenedor %s: %w", id, err)
	}
	return nil
}

func (r *ContenedorRepo) list(query, arg string) ([]*entity.Contenedor, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list contenedores: %w", err)
	}
	defer rows.Close()
	return scanContenedores(rows)
}

func scanContenedores(rows pgx.Rows) ([]*entity.Contenedor, error) {
	var items []*entity.Contenedor
	for rows.Next() {
		var c entity.Contenedor
		if err := rows.Scan(&c.ID, &c.OsID, &c.HitoID, &c.Tipo, &c.Numero, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contenedor: %w", err)
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}
