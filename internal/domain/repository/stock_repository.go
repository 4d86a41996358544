package repository

import "github.com/lromero/cpr-api/internal/domain/entity"

// StockRepository lectura del excedente validado por elaboración.
type StockRepository interface {
	GetByElaboracion(elaboracionID string) (*entity.StockElaboracion, error)
}
