// Package production gestiona el registro de Órdenes de Fabricación: alta
// desde necesidades o manual, máquina de estados y registro de cantidad real.
// Todas las escrituras de estado son condicionales sobre (estado, version);
// si la fila cambió entre la lectura y la escritura se relee y reintenta un
// número acotado de veces antes de devolver el conflicto al caller.
package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lromero/cpr-api/internal/application/planning"
	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	prod "github.com/lromero/cpr-api/internal/domain/production"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// maxReintentos relecturas ante ErrStaleState antes de rendirse.
const maxReintentos = 3

// UseCase registro de OFs.
type UseCase struct {
	ofRepo         repository.OFRepository
	asignacionRepo repository.AsignacionRepository
	secuenciaRepo  repository.SecuenciaRepository
	now            func() time.Time
}

// NewUseCase construye el registro. now es inyectable para los tests.
func NewUseCase(
	ofRepo repository.OFRepository,
	asignacionRepo repository.AsignacionRepository,
	secuenciaRepo repository.SecuenciaRepository,
) *UseCase {
	return &UseCase{
		ofRepo:         ofRepo,
		asignacionRepo: asignacionRepo,
		secuenciaRepo:  secuenciaRepo,
		now:            time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CrearManualInput alta manual de una OF.
type CrearManualInput struct {
	ElaboracionID     string
	ElaboracionNombre string
	Unidad            string
	CantidadTotal     decimal.Decimal
	Partida           string
	TipoExpedicion    string
	FechaPrevista     time.Time
	OsIDs             []string
}

// CreateManual crea una OF en estado Pendiente con ID de negocio
// OF-YYYYMMDD-NNN sobre la fecha de producción prevista.
func (uc *UseCase) CreateManual(ctx context.Context, in CrearManualInput, userID string) (*entity.OrdenFabricacion, error) {
	if in.ElaboracionID == "" || in.ElaboracionNombre == "" || in.Unidad == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.CantidadTotal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.EsPartidaValida(in.Partida) || !entity.EsTipoExpedicionValido(in.TipoExpedicion) {
		return nil, domain.ErrInvalidInput
	}

	id, err := uc.nextID(in.FechaPrevista)
	if err != nil {
		return nil, err
	}
	of := &entity.OrdenFabricacion{
		ID:                      id,
		ElaboracionID:           in.ElaboracionID,
		ElaboracionNombre:       in.ElaboracionNombre,
		Unidad:                  in.Unidad,
		CantidadTotal:           in.CantidadTotal,
		PartidaAsignada:         in.Partida,
		TipoExpedicion:          in.TipoExpedicion,
		Estado:                  entity.EstadoPendiente,
		OsIDs:                   in.OsIDs,
		FechaProduccionPrevista: in.FechaPrevista,
		FechaCreacion:           uc.now(),
		CreatedBy:               userID,
		Version:                 1,
	}
	if err := uc.ofRepo.Create(of); err != nil {
		return nil, err
	}
	return of, nil
}

// CreateFromNeeds crea una OF Pendiente por cada necesidad seleccionada con
// cantidad neta positiva. Devuelve las OFs creadas en el orden de entrada.
func (uc *UseCase) CreateFromNeeds(ctx context.Context, seleccion []planning.Necesidad, fechaProduccion time.Time, userID string) ([]*entity.OrdenFabricacion, error) {
	creadas := make([]*entity.OrdenFabricacion, 0, len(seleccion))
	for _, necesidad := range seleccion {
		if !necesidad.CantidadNeta.GreaterThan(decimal.Zero) {
			continue
		}
		osIDs := osIDsDe(necesidad.Origenes)
		of, err := uc.CreateManual(ctx, CrearManualInput{
			ElaboracionID:     necesidad.ElaboracionID,
			ElaboracionNombre: necesidad.Nombre,
			Unidad:            necesidad.Unidad,
			CantidadTotal:     necesidad.CantidadNeta,
			Partida:           necesidad.Partida,
			TipoExpedicion:    necesidad.TipoExpedicion,
			FechaPrevista:     fechaProduccion,
			OsIDs:             osIDs,
		}, userID)
		if err != nil {
			return creadas, fmt.Errorf("crear OF de %s: %w", necesidad.Nombre, err)
		}
		creadas = append(creadas, of)
	}
	return creadas, nil
}

// Assign fija partida y responsable: Pendiente → Asignada.
func (uc *UseCase) Assign(ctx context.Context, ofID, partida, responsable string) (*entity.OrdenFabricacion, error) {
	if partida != "" && !entity.EsPartidaValida(partida) {
		return nil, domain.ErrInvalidInput
	}
	return uc.transita(ofID, entity.EstadoAsignada, func(of *entity.OrdenFabricacion) {
		if partida != "" {
			of.PartidaAsignada = partida
		}
		of.Responsable = responsable
	})
}

// Start comienza la producción: Asignada → En Proceso.
func (uc *UseCase) Start(ctx context.Context, ofID string) (*entity.OrdenFabricacion, error) {
	return uc.transita(ofID, entity.EstadoEnProceso, nil)
}

// Finish registra la cantidad realmente producida (puede diferir de la
// planificada por exceso o por defecto): En Proceso → Finalizado.
func (uc *UseCase) Finish(ctx context.Context, ofID string, cantidadReal decimal.Decimal) (*entity.OrdenFabricacion, error) {
	if !cantidadReal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.transita(ofID, entity.EstadoFinalizado, func(of *entity.OrdenFabricacion) {
		of.CantidadReal = &cantidadReal
	})
}

// Validate confirma calidad: Finalizado → Validado. Solo a partir de aquí el
// lote es elegible para picking.
func (uc *UseCase) Validate(ctx context.Context, ofID, responsableCalidad string) (*entity.OrdenFabricacion, error) {
	return uc.transita(ofID, entity.EstadoValidado, func(of *entity.OrdenFabricacion) {
		of.ResponsableCalidad = responsableCalidad
	})
}

// ReportIncident marca la OF en Incidencia (terminal) con el motivo.
// La resolución es una decisión manual fuera de este motor: el lote se
// sustituye por una OF nueva.
func (uc *UseCase) ReportIncident(ctx context.Context, ofID, observaciones string) (*entity.OrdenFabricacion, error) {
	if strings.TrimSpace(observaciones) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transita(ofID, entity.EstadoIncidencia, func(of *entity.OrdenFabricacion) {
		of.IncidenciaObservaciones = observaciones
	})
}

// Reassign cambia la partida propietaria de una OF Asignada. El cambio de
// partida es una operación explícita, nunca una mutación silenciosa.
func (uc *UseCase) Reassign(ctx context.Context, ofID, partida string) (*entity.OrdenFabricacion, error) {
	if !entity.EsPartidaValida(partida) {
		return nil, domain.ErrInvalidInput
	}
	return uc.conReintentos(ofID, func(of *entity.OrdenFabricacion) error {
		if of.Estado != entity.EstadoAsignada {
			return domain.ErrInvalidTransition
		}
		of.PartidaAsignada = partida
		return nil
	})
}

// UpdateCantidadReal corrige la cantidad real de una OF Finalizada aún no
// validada. Sobre una OF Validada la mutación se rechaza con ErrLotLocked.
func (uc *UseCase) UpdateCantidadReal(ctx context.Context, ofID string, cantidadReal decimal.Decimal) (*entity.OrdenFabricacion, error) {
	if !cantidadReal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.conReintentos(ofID, func(of *entity.OrdenFabricacion) error {
		switch of.Estado {
		case entity.EstadoValidado:
			return domain.ErrLotLocked
		case entity.EstadoFinalizado:
			of.CantidadReal = &cantidadReal
			return nil
		default:
			return domain.ErrInvalidTransition
		}
	})
}

// GetByID obtiene una OF.
func (uc *UseCase) GetByID(ctx context.Context, ofID string) (*entity.OrdenFabricacion, error) {
	of, err := uc.ofRepo.GetByID(ofID)
	if err != nil {
		return nil, err
	}
	if of == nil {
		return nil, domain.ErrNotFound
	}
	return of, nil
}

// List lista OFs por texto, estado, partida y rango de fechas.
func (uc *UseCase) List(ctx context.Context, filtro repository.FiltroOF) ([]*entity.OrdenFabricacion, error) {
	if filtro.Limit <= 0 {
		filtro.Limit = 50
	}
	if filtro.Limit > 200 {
		filtro.Limit = 200
	}
	if filtro.Offset < 0 {
		filtro.Offset = 0
	}
	return uc.ofRepo.List(filtro)
}

// Delete elimina una OF sin asignaciones. Con trazabilidad viva (alguna
// asignación la referencia) el borrado se rechaza.
func (uc *UseCase) Delete(ctx context.Context, ofID string) error {
	of, err := uc.ofRepo.GetByID(ofID)
	if err != nil {
		return err
	}
	if of == nil {
		return domain.ErrNotFound
	}
	referenciada, err := uc.asignacionRepo.ExistsByOf(ofID)
	if err != nil {
		return err
	}
	if referenciada {
		return domain.ErrConflict
	}
	return uc.ofRepo.Delete(ofID)
}

// transita aplica la máquina de estados y persiste con escritura condicional.
func (uc *UseCase) transita(ofID, hasta string, mutar func(*entity.OrdenFabricacion)) (*entity.OrdenFabricacion, error) {
	return uc.conReintentos(ofID, func(of *entity.OrdenFabricacion) error {
		if err := prod.Apply(of, hasta, uc.now()); err != nil {
			return err
		}
		if mutar != nil {
			mutar(of)
		}
		return nil
	})
}

// conReintentos ejecuta leer→mutar→escribir condicional; ante ErrStaleState
// relee hasta maxReintentos veces y después propaga el conflicto.
func (uc *UseCase) conReintentos(ofID string, mutar func(*entity.OrdenFabricacion) error) (*entity.OrdenFabricacion, error) {
	var lastErr error
	for intento := 0; intento < maxReintentos; intento++ {
		of, err := uc.ofRepo.GetByID(ofID)
		if err != nil {
			return nil, err
		}
		if of == nil {
			return nil, domain.ErrNotFound
		}
		estadoPrevio, versionPrevia := of.Estado, of.Version
		if err := mutar(of); err != nil {
			return nil, err
		}
		of.Version = versionPrevia + 1
		ok, err := uc.ofRepo.UpdateConditional(of, estadoPrevio, versionPrevia)
		if err != nil {
			return nil, err
		}
		if ok {
			return of, nil
		}
		lastErr = domain.ErrStaleState
	}
	return nil, lastErr
}

func (uc *UseCase) nextID(fecha time.Time) (string, error) {
	n, err := uc.secuenciaRepo.Next(fecha)
	if err != nil {
		return "", fmt.Errorf("secuencia de OF: %w", err)
	}
	return fmt.Sprintf("OF-%s-%03d", fecha.Format("20060102"), n), nil
}

func osIDsDe(origenes []planning.Origen) []string {
	vistos := make(map[string]bool)
	var ids []string
	for _, o := range origenes {
		if !vistos[o.OsID] {
			vistos[o.OsID] = true
			ids = append(ids, o.OsID)
		}
	}
	return ids
}
