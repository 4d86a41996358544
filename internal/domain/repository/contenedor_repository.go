package repository

import "github.com/lromero/cpr-api/internal/domain/entity"

// ContenedorRepository puerto de persistencia de contenedores de picking.
type ContenedorRepository interface {
	Create(c *entity.Contenedor) error
	GetByID(id string) (*entity.Contenedor, error)
	ListByOs(osID string) ([]*entity.Contenedor, error)
	ListByHito(osID, hitoID string) ([]*entity.Contenedor, error)
	// NextNumero reserva el siguiente correlativo de (hito, tipo). Los
	// números reservados no se reutilizan, tampoco tras borrar un
	// contenedor.
	NextNumero(osID, hitoID, tipo string) (int, error)
	Delete(id string) error
}
