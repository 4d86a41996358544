package repository

import (
	"time"

	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FiltroOF criterios de listado de órdenes de fabricación.
// Texto busca sobre el nombre de elaboración normalizado (sin acentos).
type FiltroOF struct {
	Texto   string
	Estado  string
	Partida string
	Desde   *time.Time
	Hasta   *time.Time
	Limit   int
	Offset  int
}

// OFRepository puerto de persistencia de órdenes de fabricación.
// UpdateConditional escribe solo si (estado, version) almacenados coinciden
// con los esperados; devuelve false si la fila cambió (concurrencia optimista).
type OFRepository interface {
	Create(of *entity.OrdenFabricacion) error
	GetByID(id string) (*entity.OrdenFabricacion, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// el check-then-act de las asignaciones por lote.
	GetForUpdate(id string) (*entity.OrdenFabricacion, error)
	UpdateConditional(of *entity.OrdenFabricacion, estadoEsperado string, versionEsperada int) (bool, error)
	List(filtro FiltroOF) ([]*entity.OrdenFabricacion, error)
	// SumPlanificada suma la cantidad ya planificada/producida de una
	// elaboración con fecha prevista en el rango, excluyendo incidencias.
	SumPlanificada(elaboracionID string, desde, hasta time.Time) (decimal.Decimal, error)
	Delete(id string) error
}
