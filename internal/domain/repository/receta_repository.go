package repository

import "github.com/lromero/cpr-api/internal/domain/entity"

// RecetaRepository lectura del libro de recetas y su escandallo.
type RecetaRepository interface {
	GetByID(id string) (*entity.Receta, error)
	ListByIDs(ids []string) ([]*entity.Receta, error)
	// ListByElaboracion devuelve las recetas cuyo escandallo consume la
	// elaboración (lookup inverso para trazabilidad).
	ListByElaboracion(elaboracionID string) ([]*entity.Receta, error)
}
