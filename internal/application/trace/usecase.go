// Package trace reconstruye la cadena de trazabilidad receta → elaboración →
// OF → contenedor → hito → orden de servicio. Solo lecturas: admite
// concurrencia sin límite.
package trace

import (
	"context"
	"sort"
	"time"

	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RecetaDirecta marca un lote consumido sin receta intermediaria conocida.
const RecetaDirecta = "directo"

// ItemContenedor es una línea de la traza de un contenedor.
type ItemContenedor struct {
	OfID              string
	ElaboracionID     string
	ElaboracionNombre string
	Unidad            string
	Cantidad          decimal.Decimal
	Receta            string // nombre de receta origen o "directo"
	FechaAsignacion   time.Time
}

// TrazaContenedor es la traza completa de un contenedor.
type TrazaContenedor struct {
	Contenedor *entity.Contenedor
	OsID       string
	HitoID     string
	Items      []ItemContenedor
}

// DestinoLote es un consumo de un lote: qué contenedor de qué OS se lo llevó.
type DestinoLote struct {
	ContenedorID string
	OsID         string
	HitoID       string
	Cantidad     decimal.Decimal
}

// TrazaLote es la traza de consumo de una OF.
type TrazaLote struct {
	Of       *entity.OrdenFabricacion
	Destinos []DestinoLote
}

// UseCase resolutor de trazabilidad.
type UseCase struct {
	ofRepo         repository.OFRepository
	asignacionRepo repository.AsignacionRepository
	contenedorRepo repository.ContenedorRepository
	briefingRepo   repository.BriefingRepository
	recetaRepo     repository.RecetaRepository
}

// NewUseCase construye el resolutor.
func NewUseCase(
	ofRepo repository.OFRepository,
	asignacionRepo repository.AsignacionRepository,
	contenedorRepo repository.ContenedorRepository,
	briefingRepo repository.BriefingRepository,
	recetaRepo repository.RecetaRepository,
) *UseCase {
	return &UseCase{
		ofRepo:         ofRepo,
		asignacionRepo: asignacionRepo,
		contenedorRepo: contenedorRepo,
		briefingRepo:   briefingRepo,
		recetaRepo:     recetaRepo,
	}
}

// ResolveContainer devuelve, en orden de asignación, los lotes volcados en el
// contenedor con su cantidad y la receta origen. Si la elaboración del lote no
// aparece en ninguna receta del menú del hito, la línea se reporta como
// "directo" (mejor esfuerzo, nunca error).
func (uc *UseCase) ResolveContainer(ctx context.Context, contenedorID string) (*TrazaContenedor, error) {
	cont, err := uc.contenedorRepo.GetByID(contenedorID)
	if err != nil {
		return nil, err
	}
	if cont == nil {
		return nil, domain.ErrNotFound
	}

	asignaciones, err := uc.asignacionRepo.ListByContenedor(contenedorID)
	if err != nil {
		return nil, err
	}
	sort.Slice(asignaciones, func(i, j int) bool {
		return asignaciones[i].CreatedAt.Before(asignaciones[j].CreatedAt)
	})

	recetasHito, err := uc.recetasDelHito(cont.OsID, cont.HitoID)
	if err != nil {
		return nil, err
	}

	traza := &TrazaContenedor{Contenedor: cont, OsID: cont.OsID, HitoID: cont.HitoID}
	for _, asig := range asignaciones {
		of, err := uc.ofRepo.GetByID(asig.OfID)
		if err != nil {
			return nil, err
		}
		item := ItemContenedor{
			OfID:            asig.OfID,
			Cantidad:        asig.Cantidad,
			Receta:          RecetaDirecta,
			FechaAsignacion: asig.CreatedAt,
		}
		if of != nil {
			item.ElaboracionID = of.ElaboracionID
			item.ElaboracionNombre = of.ElaboracionNombre
			item.Unidad = of.Unidad
			if nombre := recetaQueConsume(recetasHito, of.ElaboracionID); nombre != "" {
				item.Receta = nombre
			}
		}
		traza.Items = append(traza.Items, item)
	}
	return traza, nil
}

// ResolveLot devuelve los contenedores (y por tanto hitos y OS) que
// consumieron la OF.
func (uc *UseCase) ResolveLot(ctx context.Context, ofID string) (*TrazaLote, error) {
	of, err := uc.ofRepo.GetByID(ofID)
	if err != nil {
		return nil, err
	}
	if of == nil {
		return nil, domain.ErrNotFound
	}

	asignaciones, err := uc.asignacionRepo.ListByOf(ofID)
	if err != nil {
		return nil, err
	}
	sort.Slice(asignaciones, func(i, j int) bool {
		return asignaciones[i].CreatedAt.Before(asignaciones[j].CreatedAt)
	})

	traza := &TrazaLote{Of: of}
	for _, asig := range asignaciones {
		traza.Destinos = append(traza.Destinos, DestinoLote{
			ContenedorID: asig.ContenedorID,
			OsID:         asig.OsID,
			HitoID:       asig.HitoID,
			Cantidad:     asig.Cantidad,
		})
	}
	return traza, nil
}

// recetasDelHito carga las recetas del menú del hito; briefing o hito
// desaparecidos no son error (la traza degrada a "directo").
func (uc *UseCase) recetasDelHito(osID, hitoID string) ([]*entity.Receta, error) {
	briefing, err := uc.briefingRepo.GetByOs(osID)
	if err != nil {
		return nil, err
	}
	if briefing == nil {
		return nil, nil
	}
	for _, hito := range briefing.Hitos {
		if hito.ID != hitoID {
			continue
		}
		recetas, err := uc.recetaRepo.ListByIDs(hito.RecetaIDs)
		if err != nil {
			return nil, err
		}
		return recetas, nil
	}
	return nil, nil
}

func recetaQueConsume(recetas []*entity.Receta, elaboracionID string) string {
	for _, receta := range recetas {
		for _, linea := range receta.Elaboraciones {
			if linea.ElaboracionID == elaboracionID {
				return receta.Nombre
			}
		}
	}
	return ""
}
