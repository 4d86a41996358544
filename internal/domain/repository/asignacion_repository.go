package repository

import (
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AsignacionRepository puerto de persistencia del libro de asignaciones
// lote→contenedor. SumByOf se consulta siempre bajo el bloqueo de fila de
// la OF para que la invariante de conservación de cantidad no corra carreras.
type AsignacionRepository interface {
	Create(a *entity.AsignacionContenedor) error
	GetByID(id string) (*entity.AsignacionContenedor, error)
	UpdateCantidad(id string, cantidad decimal.Decimal) error
	Delete(id string) error
	SumByOf(ofID string) (decimal.Decimal, error)
	SumByOs(osID string) (decimal.Decimal, error)
	ListByOf(ofID string) ([]*entity.AsignacionContenedor, error)
	ListByContenedor(contenedorID string) ([]*entity.AsignacionContenedor, error)
	ListByOs(osID string) ([]*entity.AsignacionContenedor, error)
	CountByContenedor(contenedorID string) (int, error)
	CountByOs(osID string) (int, error)
	ExistsByOf(ofID string) (bool, error)
}
