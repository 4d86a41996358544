package picking

import (
	"context"

	"github.com/lromero/cpr-api/internal/domain/repository"
)

// TxRunner ejecuta el callback dentro de una transacción con los repositorios
// atados a ella. La implementación PostgreSQL hace Commit si fn devuelve nil
// y Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ofRepo repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error) error
}
