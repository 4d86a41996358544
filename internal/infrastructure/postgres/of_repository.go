package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/lromero/cpr-api/pkg/textutil"
	"github.com/shopspring/decimal"
)

var _ repository.OFRepository = (*OFRepo)(nil)

// OFRepo implementación de OFRepository sobre PostgreSQL (usable con pool o tx).
type OFRepo struct {
	q Querier
}

// NewOFRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOFRepository(q Querier) *OFRepo {
	return &OFRepo{q: q}
}

const ofColumns = `
	id, elaboracion_id, elaboracion_nombre, unidad, cantidad_total, cantidad_real,
	partida_asignada, tipo_expedicion, estado, responsable, responsable_calidad,
	incidencia, incidencia_observaciones, os_ids, fecha_produccion_prevista,
	fecha_creacion, fecha_asignacion, fecha_inicio_produccion, fecha_finalizacion,
	fecha_validacion_calidad, created_by, version`

// Create persiste una OF nueva. Guarda además el nombre normalizado (sin
// acentos, minúsculas) para la búsqueda por texto.
func (r *OFRepo) Create(of *entity.OrdenFabricacion) error {
	query := `
		INSERT INTO ordenes_fabricacion (
			id, elaboracion_id, elaboracion_nombre, elaboracion_nombre_norm, unidad,
			cantidad_total, cantidad_real, partida_asignada, tipo_expedicion, estado,
			responsable, responsable_calidad, incidencia, incidencia_observaciones,
			os_ids, fecha_produccion_prevista, fecha_creacion, created_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		of.ID, of.ElaboracionID, of.ElaboracionNombre, textutil.Normalize(of.ElaboracionNombre),
		of.Unidad, of.CantidadTotal, of.CantidadReal, of.PartidaAsignada, of.TipoExpedicion,
		of.Estado, nullIfEmpty(of.Responsable), nullIfEmpty(of.ResponsableCalidad),
		of.Incidencia, nullIfEmpty(of.IncidenciaObservaciones), of.OsIDs,
		of.FechaProduccionPrevista, of.FechaCreacion, nullIfEmpty(of.CreatedBy), of.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create OF %s: id duplicado: %w", of.ID, err)
		}
		return fmt.Errorf("create OF: %w", err)
	}
	return nil
}

// GetByID obtiene una OF por ID (nil si no existe).
func (r *OFRepo) GetByID(id string) (*entity.OrdenFabricacion, error) {
	query := `SELECT ` + ofColumns + ` FROM ordenes_fabricacion WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la OF y bloquea la fila (SELECT FOR UPDATE) para
// serializar el check-then-act de las asignaciones por lote.
func (r *OFRepo) GetForUpdate(id string) (*entity.OrdenFabricacion, error) {
	query := `SELECT ` + ofColumns + ` FROM ordenes_fabricacion WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateConditional escribe la OF solo si el estado y la versión almacenados
// coinciden con los esperados (concurrencia optimista). Devuelve false si la
// fila cambió entre la lectura y la escritura.
func (r *OFRepo) UpdateConditional(of *entity.OrdenFabricacion, estadoEsperado string, versionEsperada int) (bool, error) {
	query := `
		UPDATE ordenes_fabricacion SET
			cantidad_real = $1, partida_asignada = $2, estado = $3, responsable = $4,
			responsable_calidad = $5, incidencia = $6, incidencia_observaciones = $7,
			fecha_asignacion = $8, fecha_inicio_produccion = $9, fecha_finalizacion = $10,
			fecha_validacion_calidad = $11, version = $12
		WHERE id = $13 AND estado = $14 AND version = $15`
	tag, err := r.q.Exec(context.Background(), query,
		of.CantidadReal, of.PartidaAsignada, of.Estado, nullIfEmpty(of.Responsable),
		nullIfEmpty(of.ResponsableCalidad), of.Incidencia, nullIfEmpty(of.IncidenciaObservaciones),
		of.FechaAsignacion, of.FechaInicioProduccion, of.FechaFinalizacion,
		of.FechaValidacionCalidad, of.Version,
		of.ID, estadoEsperado, versionEsperada,
	)
	if err != nil {
		return false, fmt.Errorf("update condicional OF %s: %w", of.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista OFs con filtros de texto (nombre normalizado), estado, partida y
// rango de fechas, ordenadas por fecha de creación descendente.
func (r *OFRepo) List(filtro repository.FiltroOF) ([]*entity.OrdenFabricacion, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filtro.Texto != "" {
		where = append(where, "elaboracion_nombre_norm LIKE "+arg("%"+textutil.Normalize(filtro.Texto)+"%"))
	}
	if filtro.Estado != "" {
		where = append(where, "estado = "+arg(filtro.Estado))
	}
	if filtro.Partida != "" {
		where = append(where, "partida_asignada = "+arg(filtro.Partida))
	}
	if filtro.Desde != nil {
		where = append(where, "fecha_produccion_prevista >= "+arg(*filtro.Desde))
	}
	if filtro.Hasta != nil {
		where = append(where, "fecha_produccion_prevista <= "+arg(*filtro.Hasta))
	}

	query := `SELECT ` + ofColumns + ` FROM ordenes_fabricacion`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY fecha_creacion DESC"
	query += " LIMIT " + arg(filtro.Limit) + " OFFSET " + arg(filtro.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list OFs: %w", err)
	}
	defer rows.Close()

	var ofs []*entity.OrdenFabricacion
	for rows.Next() {
		of, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		ofs = append(ofs, of)
	}
	return ofs, rows.Err()
}

// SumPlanificada suma lo ya planificado/producido de una elaboración en el
// rango: cantidad real en lotes finalizados o validados, planificada en el
// resto; las incidencias no cuentan.
func (r *OFRepo) SumPlanificada(elaboracionID string, desde, hasta time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN estado IN ('Finalizado', 'Validado') AND cantidad_real IS NOT NULL
				THEN cantidad_real ELSE cantidad_total END), 0)
		FROM ordenes_fabricacion
		WHERE elaboracion_id = $1
		  AND fecha_produccion_prevista BETWEEN $2 AND $3
		  AND estado <> 'Incidencia'`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, elaboracionID, desde, hasta).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum planificada %s: %w", elaboracionID, err)
	}
	return total, nil
}

// Delete elimina una OF por ID.
func (r *OFRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM ordenes_fabricacion WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete OF %s: %w", id, err)
	}
	return nil
}

func (r *OFRepo) scanOne(row pgx.Row) (*entity.OrdenFabricacion, error) {
	of, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return of, nil
}

func (r *OFRepo) scanRow(row pgx.Row) (*entity.OrdenFabricacion, error) {
	var of entity.OrdenFabricacion
	var responsable, responsableCalidad, observaciones, createdBy *string
	err := row.Scan(
		&of.ID, &of.ElaboracionID, &of.ElaboracionNombre, &of.Unidad,
		&of.CantidadTotal, &of.CantidadReal, &of.PartidaAsignada, &of.TipoExpedicion,
		&of.Estado, &responsable, &responsableCalidad, &of.Incidencia, &observaciones,
		&of.OsIDs, &of.FechaProduccionPrevista, &of.FechaCreacion, &of.FechaAsignacion,
		&of.FechaInicioProduccion, &of.FechaFinalizacion, &of.FechaValidacionCalidad,
		&createdBy, &of.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan OF: %w", err)
	}
	of.Responsable = deref(responsable)
	of.ResponsableCalidad = deref(responsableCalidad)
	of.IncidenciaObservaciones = deref(observaciones)
	of.CreatedBy = deref(createdBy)
	return &of, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
