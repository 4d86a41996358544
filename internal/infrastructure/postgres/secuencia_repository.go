package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ repository.SecuenciaRepository = (*SecuenciaRepo)(nil)

// SecuenciaRepo numeración correlativa diaria de OFs. El upsert atómico evita
// duplicados con altas concurrentes el mismo día.
type SecuenciaRepo struct {
	q Querier
}

// NewSecuenciaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSecuenciaRepository(q Querier) *SecuenciaRepo {
	return &SecuenciaRepo{q: q}
}

// Next devuelve el siguiente correlativo para la fecha.
func (r *SecuenciaRepo) Next(fecha time.Time) (int, error) {
	query := `
		INSERT INTO of_secuencias (fecha, contador)
		VALUES ($1, 1)
		ON CONFLICT (fecha)
		DO UPDATE SET contador = of_secuencias.contador + 1
		RETURNING contador`
	dia := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	var n int
	if err := r.q.QueryRow(context.Background(), query, dia).Scan(&n); err != nil {
		return 0, fmt.Errorf("next secuencia OF: %w", err)
	}
	return n, nil
}
