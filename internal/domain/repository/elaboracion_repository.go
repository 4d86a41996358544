package repository

import "github.com/lromero/cpr-api/internal/domain/entity"

// ElaboracionRepository lectura del catálogo de elaboraciones.
type ElaboracionRepository interface {
	GetByID(id string) (*entity.Elaboracion, error)
	ListByIDs(ids []string) ([]*entity.Elaboracion, error)
}
