// Package planning calcula las necesidades de elaboración a partir de los
// briefings comerciales. Es un paso de solo lectura: no crea OFs ni muta nada,
// por lo que puede ejecutarse tantas veces como se quiera con el mismo
// resultado.
package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Origen es la tupla (OS, hito, receta) que contribuye a una necesidad;
// se conserva para la trazabilidad aguas abajo.
type Origen struct {
	OsID         string
	HitoID       string
	RecetaID     string
	RecetaNombre string
	Cantidad     decimal.Decimal
}

// Necesidad es la demanda agregada de una elaboración para una fecha.
// No se persiste: se recalcula en cada corrida de planificación.
type Necesidad struct {
	ElaboracionID       string
	Nombre              string
	Unidad              string
	Partida             string
	TipoExpedicion      string
	Fecha               time.Time
	CantidadNecesaria   decimal.Decimal
	StockDisponible     decimal.Decimal
	CantidadPlanificada decimal.Decimal
	CantidadNeta        decimal.Decimal
	Origenes            []Origen
}

// Resultado de una corrida de agregación. Los avisos recogen referencias
// rotas (receta o elaboración inexistente) sin abortar la corrida.
type Resultado struct {
	Desde       time.Time
	Hasta       time.Time
	Necesidades []Necesidad
	Avisos      []string
}

// UseCase agregador de demanda gastronómica.
type UseCase struct {
	briefingRepo    repository.BriefingRepository
	recetaRepo      repository.RecetaRepository
	elaboracionRepo repository.ElaboracionRepository
	stockRepo       repository.StockRepository
	ofRepo          repository.OFRepository
}

// NewUseCase construye el agregador.
func NewUseCase(
	briefingRepo repository.BriefingRepository,
	recetaRepo repository.RecetaRepository,
	elaboracionRepo repository.ElaboracionRepository,
	stockRepo repository.StockRepository,
	ofRepo repository.OFRepository,
) *UseCase {
	return &UseCase{
		briefingRepo:    briefingRepo,
		recetaRepo:      recetaRepo,
		elaboracionRepo: elaboracionRepo,
		stockRepo:       stockRepo,
		ofRepo:          ofRepo,
	}
}

type claveNecesidad struct {
	elaboracionID string
	fecha         string // yyyy-mm-dd; no se mezclan fechas distintas
}

// AggregateNeeds recorre los hitos gastronómicos del rango, expande el
// escandallo de cada receta del menú y multiplica por los asistentes del hito.
// La misma elaboración en la misma fecha suma; en fechas distintas quedan
// necesidades separadas (la producción se agrupa por día).
func (uc *UseCase) AggregateNeeds(ctx context.Context, desde, hasta time.Time) (*Resultado, error) {
	if hasta.Before(desde) {
		return nil, fmt.Errorf("rango de fechas invertido: %s > %s", desde.Format("2006-01-02"), hasta.Format("2006-01-02"))
	}

	briefings, err := uc.briefingRepo.ListConGastronomia(desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("listar briefings: %w", err)
	}

	resultado := &Resultado{Desde: desde, Hasta: hasta}
	necesidades := make(map[claveNecesidad]*Necesidad)
	recetas := make(map[string]*entity.Receta)
	elaboraciones := make(map[string]*entity.Elaboracion)

	for _, briefing := range briefings {
		for _, hito := range briefing.Hitos {
			if !hito.ConGastronomia || !enRango(hito.Fecha, desde, hasta) {
				continue
			}
			asistentes := decimal.NewFromInt(int64(hito.Asistentes))

			for _, recetaID := range hito.RecetaIDs {
				receta, ok := recetas[recetaID]
				if !ok {
					receta, err = uc.recetaRepo.GetByID(recetaID)
					if err != nil {
						return nil, fmt.Errorf("leer receta %s: %w", recetaID, err)
					}
					recetas[recetaID] = receta
				}
				if receta == nil {
					resultado.Avisos = append(resultado.Avisos,
						fmt.Sprintf("receta %s no encontrada (os %s, hito %s): se omite", recetaID, briefing.OsID, hito.ID))
					continue
				}

				for _, linea := range receta.Elaboraciones {
					elab, ok := elaboraciones[linea.ElaboracionID]
					if !ok {
						elab, err = uc.elaboracionRepo.GetByID(linea.ElaboracionID)
						if err != nil {
							return nil, fmt.Errorf("leer elaboración %s: %w", linea.ElaboracionID, err)
						}
						elaboraciones[linea.ElaboracionID] = elab
					}
					if elab == nil {
						resultado.Avisos = append(resultado.Avisos,
							fmt.Sprintf("elaboración %s de la receta %s no encontrada: se omite", linea.ElaboracionID, receta.Nombre))
						continue
					}

					clave := claveNecesidad{elaboracionID: elab.ID, fecha: hito.Fecha.Format("2006-01-02")}
					necesidad, ok := necesidades[clave]
					if !ok {
						necesidad = &Necesidad{
							ElaboracionID:  elab.ID,
							Nombre:         elab.Nombre,
							Unidad:         elab.UnidadProduccion,
							Partida:        elab.PartidaProduccion,
							TipoExpedicion: elab.TipoExpedicion,
							Fecha:          diaDe(hito.Fecha),
						}
						necesidades[clave] = necesidad
					}

					// Un hito sin asistentes aporta cantidad cero pero se
					// registra igualmente como origen (trazabilidad).
					cantidad := linea.CantidadPorServicio.Mul(asistentes)
					necesidad.CantidadNecesaria = necesidad.CantidadNecesaria.Add(cantidad)
					necesidad.Origenes = append(necesidad.Origenes, Origen{
						OsID:         briefing.OsID,
						HitoID:       hito.ID,
						RecetaID:     receta.ID,
						RecetaNombre: receta.Nombre,
						Cantidad:     cantidad,
					})
				}
			}
		}
	}

	for _, necesidad := range necesidades {
		if err := uc.completarNecesidad(necesidad, desde, hasta); err != nil {
			return nil, err
		}
		resultado.Necesidades = append(resultado.Necesidades, *necesidad)
	}

	sort.Slice(resultado.Necesidades, func(i, j int) bool {
		a, b := resultado.Necesidades[i], resultado.Necesidades[j]
		if !a.Fecha.Equal(b.Fecha) {
			return a.Fecha.Before(b.Fecha)
		}
		if a.Nombre != b.Nombre {
			return a.Nombre < b.Nombre
		}
		return a.ElaboracionID < b.ElaboracionID
	})

	return resultado, nil
}

// completarNecesidad descuenta stock disponible y cantidad ya planificada
// para obtener la cantidad neta a fabricar.
func (uc *UseCase) completarNecesidad(n *Necesidad, desde, hasta time.Time) error {
	stock, err := uc.stockRepo.GetByElaboracion(n.ElaboracionID)
	if err != nil {
		return fmt.Errorf("leer stock de %s: %w", n.ElaboracionID, err)
	}
	if stock != nil {
		n.StockDisponible = stock.Cantidad
	}

	planificada, err := uc.ofRepo.SumPlanificada(n.ElaboracionID, desde, hasta)
	if err != nil {
		return fmt.Errorf("sumar planificado de %s: %w", n.ElaboracionID, err)
	}
	n.CantidadPlanificada = planificada

	stockAUtilizar := decimal.Min(n.CantidadNecesaria, n.StockDisponible)
	neta := n.CantidadNecesaria.Sub(stockAUtilizar).Sub(planificada)
	if neta.IsNegative() {
		neta = decimal.Zero
	}
	n.CantidadNeta = neta
	return nil
}

func enRango(fecha, desde, hasta time.Time) bool {
	d := diaDe(fecha)
	return !d.Before(diaDe(desde)) && !d.After(diaDe(hasta))
}

func diaDe(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
