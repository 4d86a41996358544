package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AsignacionRepository = (*AsignacionRepo)(nil)

// AsignacionRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las sumas por OF se consultan siempre dentro de la transacción que tiene
// bloqueada la fila de la OF.
type AsignacionRepo struct {
	q Querier
}

// NewAsignacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAsignacionRepository(q Querier) *AsignacionRepo {
	return &AsignacionRepo{q: q}
}

const asignacionColumns = `id, of_id, contenedor_id, os_id, hito_id, cantidad, created_at, created_by`

// Create persiste una asignación lote→contenedor.
func (r *AsignacionRepo) Create(a *entity.AsignacionContenedor) error {
	query := `
		INSERT INTO asignaciones_contenedor (id, of_id, contenedor_id, os_id, hito_id, cantidad, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.OfID, a.ContenedorID, a.OsID, a.HitoID, a.Cantidad, a.CreatedAt, nullIfEmpty(a.CreatedBy))
	if err != nil {
		return fmt.Errorf("create asignación: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación (nil si no existe).
func (r *AsignacionRepo) GetByID(id string) (*entity.AsignacionContenedor, error) {
	query := `SELECT ` + asignacionColumns + ` FROM asignaciones_contenedor WHERE id = $1`
	a, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// UpdateCantidad ajusta la cantidad de una asignación existente.
func (r *AsignacionRepo) UpdateCantidad(id string, cantidad decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE asignaciones_contenedor SET cantidad = $1 WHERE id = $2`, cantidad, id)
	if err != nil {
		return fmt.Errorf("update cantidad asignación %s: %w", id, err)
	}
	return nil
}

// Delete elimina una asignación.
func (r *AsignacionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM asignaciones_contenedor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asignación %s: %w", id, err)
	}
	return nil
}

// SumByOf suma lo asignado de una OF en todos sus contenedores.
func (r *AsignacionRepo) SumByOf(ofID string) (decimal.Decimal, error) {
	return r.sum(`SELECT COALESCE(SUM(cantidad), 0) FROM asignaciones_contenedor WHERE of_id = $1`, ofID)
}

// SumByOs suma lo asignado a los contenedores de una orden de servicio.
func (r *AsignacionRepo) SumByOs(osID string) (decimal.Decimal, error) {
	return r.sum(`SELECT COALESCE(SUM(cantidad), 0) FROM asignaciones_contenedor WHERE os_id = $1`, osID)
}

// ListByOf asignaciones de una OF.
func (r *AsignacionRepo) ListByOf(ofID string) ([]*entity.AsignacionContenedor, error) {
	return r.list(`SELECT `+asignacionColumns+` FROM asignaciones_contenedor WHERE of_id = $1 ORDER BY created_at`, ofID)
}

// ListByContenedor asignaciones de un contenedor.
func (r *AsignacionRepo) ListByContenedor(contenedorID string) ([]*entity.AsignacionContenedor, error) {
	return r.list(`SELECT `+asignacionColumns+` FROM asignaciones_contenedor WHERE contenedor_id = $1 ORDER BY created_at`, contenedorID)
}

// ListByOs asignaciones de una orden de servicio.
func (r *AsignacionRepo) ListByOs(osID string) ([]*entity.AsignacionContenedor, error) {
	return r.list(`SELECT `+asignacionColumns+` FROM asignaciones_contenedor WHERE os_id = $1 ORDER BY created_at`, osID)
}

// CountByContenedor número de asignaciones de un contenedor.
func (r *AsignacionRepo) CountByContenedor(contenedorID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM asignaciones_contenedor WHERE contenedor_id = $1`, contenedorID)
}

// CountByOs número de asignaciones de una orden de servicio.
func (r *AsignacionRepo) CountByOs(osID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM asignaciones_contenedor WHERE os_id = $1`, osID)
}

// ExistsByOf indica si alguna asignación referencia la OF.
func (r *AsignacionRepo) ExistsByOf(ofID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM asignaciones_contenedor WHERE of_id = $1)`, ofID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists asignación de OF %s: %w", ofID, err)
	}
	return exists, nil
}

func (r *AsignacionRepo) sum(query, id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum asignaciones: %w", err)
	}
	return total, nil
}

func (r *AsignacionRepo) count(query, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count asignaciones: %w", err)
	}
	return n, nil
}

func (r *AsignacionRepo) list(query string, arg any) ([]*entity.AsignacionContenedor, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones: %w", err)
	}
	defer rows.Close()

	var items []*entity.AsignacionContenedor
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *AsignacionRepo) scanRow(row pgx.Row) (*entity.AsignacionContenedor, error) {
	var a entity.AsignacionContenedor
	var createdBy *string
	err := row.Scan(&a.ID, &a.OfID, &a.ContenedorID, &a.OsID, &a.HitoID, &a.Cantidad, &a.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan asignación: %w", err)
	}
	a.CreatedBy = deref(createdBy)
	return &a, nil
}
