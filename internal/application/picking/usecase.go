// Package picking es el libro de asignaciones lote→contenedor. Cada escritura
// corre en una transacción con la fila de la OF bloqueada (SELECT FOR UPDATE):
// la comprobación "suma de asignaciones ≤ cantidad producida" y el alta de la
// asignación son atómicas, y la proyección PickingState de la OS se actualiza
// en la misma transacción.
package picking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	prod "github.com/lromero/cpr-api/internal/domain/production"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase libro de picking.
type UseCase struct {
	txRunner     TxRunner
	briefingRepo repository.BriefingRepository
	pickingRepo  repository.PickingStateRepository
	now          func() time.Time
}

// NewUseCase construye el libro de picking.
func NewUseCase(txRunner TxRunner, briefingRepo repository.BriefingRepository, pickingRepo repository.PickingStateRepository) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		briefingRepo: briefingRepo,
		pickingRepo:  pickingRepo,
		now:          time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateContainer crea un contenedor ligado a un hito concreto de la OS, con
// numeración correlativa por (hito, tipo). El alcance del contenedor queda
// fijado en el alta.
func (uc *UseCase) CreateContainer(ctx context.Context, osID, hitoID, tipo string) (*entity.Contenedor, error) {
	if !entity.EsTipoExpedicionValido(tipo) {
		return nil, domain.ErrInvalidInput
	}
	briefing, err := uc.briefingRepo.GetByOs(osID)
	if err != nil {
		return nil, err
	}
	if briefing == nil || !tieneHito(briefing, hitoID) {
		return nil, domain.ErrNotFound
	}

	var creado *entity.Contenedor
	err = uc.txRunner.Run(ctx, func(
		_ repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error {
		n, err := contenedorRepo.NextNumero(osID, hitoID, tipo)
		if err != nil {
			return err
		}
		creado = &entity.Contenedor{
			ID:        uuid.New().String(),
			OsID:      osID,
			HitoID:    hitoID,
			Tipo:      tipo,
			Numero:    n,
			CreatedAt: uc.now(),
		}
		if err := contenedorRepo.Create(creado); err != nil {
			return err
		}
		return uc.actualizaProyeccion(osID, asignacionRepo, contenedorRepo, pickingRepo)
	})
	if err != nil {
		return nil, err
	}
	return creado, nil
}

// RemoveContainer elimina un contenedor vacío. Con asignaciones dentro se
// rechaza para no perder trazabilidad.
func (uc *UseCase) RemoveContainer(ctx context.Context, contenedorID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error {
		cont, err := contenedorRepo.GetByID(contenedorID)
		if err != nil {
			return err
		}
		if cont == nil {
			return domain.ErrNotFound
		}
		n, err := asignacionRepo.CountByContenedor(contenedorID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrConflict
		}
		if err := contenedorRepo.Delete(contenedorID); err != nil {
			return err
		}
		return uc.actualizaProyeccion(cont.OsID, asignacionRepo, contenedorRepo, pickingRepo)
	})
}

// AssignInput alta de asignación lote→contenedor.
type AssignInput struct {
	OfID         string
	ContenedorID string
	Cantidad     decimal.Decimal
	UserID       string
}

// Assign asigna cantidad validada de una OF a un contenedor.
// Precondiciones: OF en estado Validado, cantidad positiva, contenedor dentro
// del alcance de OS del lote y cantidad disponible suficiente. Todo bajo el
// bloqueo de fila del lote.
func (uc *UseCase) Assign(ctx context.Context, in AssignInput) (*entity.AsignacionContenedor, error) {
	if !in.Cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var creada *entity.AsignacionContenedor
	err := uc.txRunner.Run(ctx, func(
		ofRepo repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error {
		of, err := ofRepo.GetForUpdate(in.OfID)
		if err != nil {
			return err
		}
		if of == nil {
			return domain.ErrNotFound
		}
		if of.Estado != entity.EstadoValidado {
			return domain.ErrLoteNoElegible
		}
		cont, err := contenedorRepo.GetByID(in.ContenedorID)
		if err != nil {
			return err
		}
		if cont == nil {
			return domain.ErrNotFound
		}
		if !of.PerteneceAOs(cont.OsID) {
			return domain.ErrContainerScopeMismatch
		}

		asignado, err := asignacionRepo.SumByOf(in.OfID)
		if err != nil {
			return err
		}
		if in.Cantidad.GreaterThan(prod.CantidadDisponible(of, asignado)) {
			return domain.ErrInsufficientLotQty
		}

		creada = &entity.AsignacionContenedor{
			ID:           uuid.New().String(),
			OfID:         in.OfID,
			ContenedorID: cont.ID,
			OsID:         cont.OsID,
			HitoID:       cont.HitoID,
			Cantidad:     in.Cantidad,
			CreatedAt:    uc.now(),
			CreatedBy:    in.UserID,
		}
		if err := asignacionRepo.Create(creada); err != nil {
			return err
		}
		return uc.actualizaProyeccion(cont.OsID, asignacionRepo, contenedorRepo, pickingRepo)
	})
	if err != nil {
		return nil, err
	}
	return creada, nil
}

// Reduce ajusta la cantidad de una asignación. Reducir devuelve cantidad al
// pool del lote; aumentar vuelve a comprobar el disponible. Atómico respecto
// de asignaciones concurrentes sobre el mismo lote.
func (uc *UseCase) Reduce(ctx context.Context, asignacionID string, nuevaCantidad decimal.Decimal) (*entity.AsignacionContenedor, error) {
	if !nuevaCantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var ajustada *entity.AsignacionContenedor
	err := uc.txRunner.Run(ctx, func(
		ofRepo repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error {
		asig, err := asignacionRepo.GetByID(asignacionID)
		if err != nil {
			return err
		}
		if asig == nil {
			return domain.ErrNotFound
		}
		of, err := ofRepo.GetForUpdate(asig.OfID)
		if err != nil {
			return err
		}
		if of == nil {
			return domain.ErrNotFound
		}
		delta := nuevaCantidad.Sub(asig.Cantidad)
		if delta.GreaterThan(decimal.Zero) {
			asignado, err := asignacionRepo.SumByOf(asig.OfID)
			if err != nil {
				return err
			}
			if delta.GreaterThan(prod.CantidadDisponible(of, asignado)) {
				return domain.ErrInsufficientLotQty
			}
		}
		if err := asignacionRepo.UpdateCantidad(asignacionID, nuevaCantidad); err != nil {
			return err
		}
		asig.Cantidad = nuevaCantidad
		ajustada = asig
		return uc.actualizaProyeccion(asig.OsID, asignacionRepo, contenedorRepo, pickingRepo)
	})
	if err != nil {
		return nil, err
	}
	return ajustada, nil
}

// Unassign elimina una asignación y devuelve su cantidad al pool del lote.
func (uc *UseCase) Unassign(ctx context.Context, asignacionID string) error {
	return uc.txRunner.Run(ctx, func(
		ofRepo repository.OFRepository,
		asignacionRepo repository.AsignacionRepository,
		contenedorRepo repository.ContenedorRepository,
		pickingRepo repository.PickingStateRepository,
	) error {
		asig, err := asignacionRepo.GetByID(asignacionID)
		if err != nil {
			return err
		}
		if asig == nil {
			return domain.ErrNotFound
		}
		// Bloquea el lote antes de borrar para serializar con Assign.
		if _, err := ofRepo.GetForUpdate(asig.OfID); err != nil {
			return err
		}
		if err := asignacionRepo.Delete(asignacionID); err != nil {
			return err
		}
		return uc.actualizaProyeccion(asig.OsID, asignacionRepo, contenedorRepo, pickingRepo)
	})
}

// SetStatus cambia el estado de picking de la orden de servicio. Es una
// escritura solo de estado: los contadores de la proyección pertenecen a las
// transacciones de asignación y aquí no se leen ni se reescriben.
func (uc *UseCase) SetStatus(ctx context.Context, osID, status string) (*entity.PickingState, error) {
	if !entity.EsEstadoPickingValido(status) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.pickingRepo.SetStatus(osID, status, uc.now()); err != nil {
		return nil, err
	}
	return uc.GetState(ctx, osID)
}

// GetState devuelve la proyección de picking de la OS (estado Pendiente vacío
// si aún no hubo actividad).
func (uc *UseCase) GetState(ctx context.Context, osID string) (*entity.PickingState, error) {
	ps, err := uc.pickingRepo.Get(osID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return &entity.PickingState{OsID: osID, Status: entity.PickingPendiente}, nil
	}
	return ps, nil
}

// actualizaProyeccion recalcula los contadores de la OS dentro de la misma
// transacción que la escritura que los altera.
func (uc *UseCase) actualizaProyeccion(
	osID string,
	asignacionRepo repository.AsignacionRepository,
	contenedorRepo repository.ContenedorRepository,
	pickingRepo repository.PickingStateRepository,
) error {
	contenedores, err := contenedorRepo.ListByOs(osID)
	if err != nil {
		return err
	}
	numAsignaciones, err := asignacionRepo.CountByOs(osID)
	if err != nil {
		return err
	}
	cantidad, err := asignacionRepo.SumByOs(osID)
	if err != nil {
		return err
	}
	ps, err := pickingRepo.Get(osID)
	if err != nil {
		return err
	}
	if ps == nil {
		ps = &entity.PickingState{OsID: osID, Status: entity.PickingPendiente}
	}
	ps.TotalContenedores = len(contenedores)
	ps.TotalAsignaciones = numAsignaciones
	ps.CantidadAsignada = cantidad
	ps.UpdatedAt = uc.now()
	return pickingRepo.Upsert(ps)
}

func tieneHito(b *entity.ComercialBriefing, hitoID string) bool {
	for _, h := range b.Hitos {
		if h.ID == hitoID {
			return true
		}
	}
	return false
}
