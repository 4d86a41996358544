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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lectura del excedente validado por elaboración.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetByElaboracion obtiene el stock disponible de una elaboración.
// Sin fila devuelve cantidad cero, no error.
func (r *StockRepo) GetByElaboracion(elaboracionID string) (*entity.StockElaboracion, error) {
	query := `
		SELECT elaboracion_id, cantidad, unidad, updated_at
		FROM stock_elaboraciones WHERE elaboracion_id = $1`
	var s entity.StockElaboracion
	err := r.q.QueryRow(context.Background(), query, elaboracionID).Scan(
		&s.ElaboracionID, &s.Cantidad, &s.Unidad, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockElaboracion{ElaboracionID: elaboracionID, Cantidad: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock elaboración %s: %w", elaboracionID, err)
	}
	return &s, nil
}
