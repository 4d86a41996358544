package picking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lromero/cpr-api/internal/application/picking"
	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El txRunner serializa cada callback con un mutex, igual
// que el bloqueo de fila serializa las escrituras sobre el mismo lote en
// PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type almacen struct {
	mu            sync.Mutex
	ofs           map[string]*entity.OrdenFabricacion
	asignaciones  map[string]*entity.AsignacionContenedor
	contenedores  map[string]*entity.Contenedor
	pickingStates map[string]*entity.PickingState
	secuencias    map[string]int
}

func nuevoAlmacen() *almacen {
	return &almacen{
		ofs:           make(map[string]*entity.OrdenFabricacion),
		asignaciones:  make(map[string]*entity.AsignacionContenedor),
		contenedores:  make(map[string]*entity.Contenedor),
		pickingStates: make(map[string]*entity.PickingState),
		secuencias:    make(map[string]int),
	}
}

type fakeOFRepo struct{ a *almacen }

func (r *fakeOFRepo) Create(of *entity.OrdenFabricacion) error {
	copia := *of
	r.a.ofs[of.ID] = &copia
	return nil
}

func (r *fakeOFRepo) GetByID(id string) (*entity.OrdenFabricacion, error) {
	of, ok := r.a.ofs[id]
	if !ok {
		return nil, nil
	}
	copia := *of
	return &copia, nil
}

func (r *fakeOFRepo) GetForUpdate(id string) (*entity.OrdenFabricacion, error) {
	return r.GetByID(id)
}

func (r *fakeOFRepo) UpdateConditional(of *entity.OrdenFabricacion, estado string, version int) (bool, error) {
	actual, ok := r.a.ofs[of.ID]
	if !ok || actual.Estado != estado || actual.Version != version {
		return false, nil
	}
	copia := *of
	r.a.ofs[of.ID] = &copia
	return true, nil
}

func (r *fakeOFRepo) List(repository.FiltroOF) ([]*entity.OrdenFabricacion, error) { return nil, nil }

func (r *fakeOFRepo) SumPlanificada(string, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeOFRepo) Delete(id string) error {
	delete(r.a.ofs, id)
	return nil
}

type fakeAsignacionRepo struct{ a *almacen }

func (r *fakeAsignacionRepo) Create(asig *entity.AsignacionContenedor) error {
	copia := *asig
	r.a.asignaciones[asig.ID] = &copia
	return nil
}

func (r *fakeAsignacionRepo) GetByID(id string) (*entity.AsignacionContenedor, error) {
	asig, ok := r.a.asignaciones[id]
	if !ok {
		return nil, nil
	}
	copia := *asig
	return &copia, nil
}

func (r *fakeAsignacionRepo) UpdateCantidad(id string, cantidad decimal.Decimal) error {
	if asig, ok := r.a.asignaciones[id]; ok {
		asig.Cantidad = cantidad
	}
	return nil
}

func (r *fakeAsignacionRepo) Delete(id string) error {
	delete(r.a.asignaciones, id)
	return nil
}

func (r *fakeAsignacionRepo) SumByOf(ofID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, asig := range r.a.asignaciones {
		if asig.OfID == ofID {
			total = total.Add(asig.Cantidad)
		}
	}
	return total, nil
}

func (r *fakeAsignacionRepo) SumByOs(osID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, asig := range r.a.asignaciones {
		if asig.OsID == osID {
			total = total.Add(asig.Cantidad)
		}
	}
	return total, nil
}

func (r *fakeAsignacionRepo) ListByOf(ofID string) ([]*entity.AsignacionContenedor, error) {
	var out []*entity.AsignacionContenedor
	for _, asig := range r.a.asignaciones {
		if asig.OfID == ofID {
			copia := *asig
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeAsignacionRepo) ListByContenedor(contenedorID string) ([]*entity.AsignacionContenedor, error) {
	var out []*entity.AsignacionContenedor
	for _, asig := range r.a.asignaciones {
		if asig.ContenedorID == contenedorID {
			copia := *asig
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeAsignacionRepo) ListByOs(osID string) ([]*entity.AsignacionContenedor, error) {
	var out []*entity.AsignacionContenedor
	for _, asig := range r.a.asignaciones {
		if asig.OsID == osID {
			copia := *asig
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeAsignacionRepo) CountByContenedor(contenedorID string) (int, error) {
	asigs, _ := r.ListByContenedor(contenedorID)
	return len(asigs), nil
}

func (r *fakeAsignacionRepo) CountByOs(osID string) (int, error) {
	asigs, _ := r.ListByOs(osID)
	return len(asigs), nil
}

func (r *fakeAsignacionRepo) ExistsByOf(ofID string) (bool, error) {
	asigs, _ := r.ListByOf(ofID)
	return len(asigs) > 0, nil
}

type fakeContenedorRepo struct{ a *almacen }

func (r *fakeContenedorRepo) Create(c *entity.Contenedor) error {
	copia := *c
	r.a.contenedores[c.ID] = &copia
	return nil
}

func (r *fakeContenedorRepo) GetByID(id string) (*entity.Contenedor, error) {
	c, ok := r.a.contenedores[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (r *fakeContenedorRepo) ListByOs(osID string) ([]*entity.Contenedor, error) {
	var out []*entity.Contenedor
	for _, c := range r.a.contenedores {
		if c.OsID == osID {
			copia := *c
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeContenedorRepo) ListByHito(osID, hitoID string) ([]*entity.Contenedor, error) {
	var out []*entity.Contenedor
	for _, c := range r.a.contenedores {
		if c.OsID == osID && c.HitoID == hitoID {
			copia := *c
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeContenedorRepo) NextNumero(osID, hitoID, tipo string) (int, error) {
	clave := osID + "|" + hitoID + "|" + tipo
	r.a.secuencias[clave]++
	return r.a.secuencias[clave], nil
}

func (r *fakeContenedorRepo) Delete(id string) error {
	delete(r.a.contenedores, id)
	return nil
}

type fakePickingRepo struct{ a *almacen }

func (r *fakePickingRepo) Get(osID string) (*entity.PickingState, error) {
	ps, ok := r.a.pickingStates[osID]
	if !ok {
		return nil, nil
	}
	copia := *ps
	return &copia, nil
}

func (r *fakePickingRepo) Upsert(ps *entity.PickingState) error {
	copia := *ps
	r.a.pickingStates[ps.OsID] = &copia
	return nil
}

func (r *fakePickingRepo) SetStatus(osID, status string, updatedAt time.Time) error {
	ps, ok := r.a.pickingStates[osID]
	if !ok {
		ps = &entity.PickingState{OsID: osID, Status: entity.PickingPendiente}
		r.a.pickingStates[osID] = ps
	}
	ps.Status = status
	ps.UpdatedAt = updatedAt
	return nil
}

type fakeTxRunner struct{ a *almacen }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.OFRepository,
	repository.AsignacionRepository,
	repository.ContenedorRepository,
	repository.PickingStateRepository,
) error) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	return fn(&fakeOFRepo{r.a}, &fakeAsignacionRepo{r.a}, &fakeContenedorRepo{r.a}, &fakePickingRepo{r.a})
}

type fakeBriefingRepo struct {
	briefings map[string]*entity.ComercialBriefing
}

func (r *fakeBriefingRepo) GetByOs(osID string) (*entity.ComercialBriefing, error) {
	return r.briefings[osID], nil
}

func (r *fakeBriefingRepo) ListConGastronomia(time.Time, time.Time) ([]*entity.ComercialBriefing, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: lote validado de 8.5 kg para la OS-100
// ──────────────────────────────────────────────────────────────────────────────

func nuevoEscenario() (*picking.UseCase, *almacen) {
	a := nuevoAlmacen()

	real := decimal.NewFromFloat(8.5)
	a.ofs["OF-20260312-001"] = &entity.OrdenFabricacion{
		ID:            "OF-20260312-001",
		ElaboracionID: "E1",
		CantidadTotal: decimal.NewFromFloat(8.0),
		CantidadReal:  &real,
		Estado:        entity.EstadoValidado,
		OsIDs:         []string{"OS-100"},
		Version:       5,
	}
	a.contenedores["C1"] = &entity.Contenedor{
		ID: "C1", OsID: "OS-100", HitoID: "H1", Tipo: entity.ExpedicionRefrigerado, Numero: 1,
	}
	a.contenedores["C-OTRA-OS"] = &entity.Contenedor{
		ID: "C-OTRA-OS", OsID: "OS-999", HitoID: "H9", Tipo: entity.ExpedicionRefrigerado, Numero: 1,
	}
	a.secuencias["OS-100|H1|"+entity.ExpedicionRefrigerado] = 1
	a.secuencias["OS-999|H9|"+entity.ExpedicionRefrigerado] = 1

	briefings := &fakeBriefingRepo{briefings: map[string]*entity.ComercialBriefing{
		"OS-100": {
			OsID: "OS-100",
			Hitos: []entity.BriefingHito{
				{ID: "H1", Fecha: time.Date(2026, 3, 12, 13, 0, 0, 0, time.UTC), Asistentes: 80, ConGastronomia: true},
			},
		},
	}}

	uc := picking.NewUseCase(&fakeTxRunner{a}, briefings, &fakePickingRepo{a})
	return uc, a
}

func asignar(t *testing.T, uc *picking.UseCase, cantidad float64) (*entity.AsignacionContenedor, error) {
	t.Helper()
	return uc.Assign(context.Background(), picking.AssignInput{
		OfID:         "OF-20260312-001",
		ContenedorID: "C1",
		Cantidad:     decimal.NewFromFloat(cantidad),
		UserID:       "user-1",
	})
}

func TestAssign_ConservaLaCantidadDelLote(t *testing.T) {
	uc, _ := nuevoEscenario()

	// Lote de 8.5 reales: 5.0 cabe.
	_, err := asignar(t, uc, 5.0)
	require.NoError(t, err)

	// Quedan 3.5: 4.0 se rechaza sin tocar nada.
	_, err = asignar(t, uc, 4.0)
	assert.ErrorIs(t, err, domain.ErrInsufficientLotQty)

	// 3.5 exactos agotan el lote.
	_, err = asignar(t, uc, 3.5)
	require.NoError(t, err)

	// Agotado: cualquier cantidad posterior se rechaza.
	_, err = asignar(t, uc, 0.1)
	assert.ErrorIs(t, err, domain.ErrInsufficientLotQty)
}

func TestAssign_SoloLotesValidados(t *testing.T) {
	uc, a := nuevoEscenario()
	a.ofs["OF-20260312-001"].Estado = entity.EstadoFinalizado

	_, err := asignar(t, uc, 1.0)
	assert.ErrorIs(t, err, domain.ErrLoteNoElegible)
}

func TestAssign_RechazaContenedorFueraDeAlcance(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := uc.Assign(context.Background(), picking.AssignInput{
		OfID:         "OF-20260312-001",
		ContenedorID: "C-OTRA-OS",
		Cantidad:     decimal.NewFromFloat(1.0),
		UserID:       "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrContainerScopeMismatch)
}

func TestAssign_LoteSinOsSirveACualquierOS(t *testing.T) {
	uc, a := nuevoEscenario()
	a.ofs["OF-20260312-001"].OsIDs = nil // producción directa

	_, err := uc.Assign(context.Background(), picking.AssignInput{
		OfID:         "OF-20260312-001",
		ContenedorID: "C-OTRA-OS",
		Cantidad:     decimal.NewFromFloat(1.0),
		UserID:       "user-1",
	})
	assert.NoError(t, err)
}

func TestAssign_CantidadNoPositiva(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := asignar(t, uc, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = asignar(t, uc, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnassign_DevuelveCantidadAlPool(t *testing.T) {
	uc, _ := nuevoEscenario()

	asig, err := asignar(t, uc, 8.5)
	require.NoError(t, err)

	_, err = asignar(t, uc, 1.0)
	require.ErrorIs(t, err, domain.ErrInsufficientLotQty, "el lote está agotado")

	require.NoError(t, uc.Unassign(context.Background(), asig.ID))

	_, err = asignar(t, uc, 8.5)
	assert.NoError(t, err, "tras liberar, todo el lote vuelve a estar disponible")
}

func TestReduce_AjustaContraElDisponible(t *testing.T) {
	uc, _ := nuevoEscenario()

	asig, err := asignar(t, uc, 5.0)
	require.NoError(t, err)

	// Aumentar por encima del disponible (8.5 − 5.0 = 3.5 de margen) falla.
	_, err = uc.Reduce(context.Background(), asig.ID, decimal.NewFromFloat(9.0))
	assert.ErrorIs(t, err, domain.ErrInsufficientLotQty)

	// Reducir siempre es válido y libera pool.
	ajustada, err := uc.Reduce(context.Background(), asig.ID, decimal.NewFromFloat(2.0))
	require.NoError(t, err)
	assert.True(t, ajustada.Cantidad.Equal(decimal.NewFromFloat(2.0)))

	_, err = asignar(t, uc, 6.5)
	assert.NoError(t, err, "8.5 − 2.0 = 6.5 disponibles tras la reducción")
}

func TestAssign_CarreraPorLasUltimasUnidades(t *testing.T) {
	uc, a := nuevoEscenario()
	real := decimal.NewFromFloat(2.0)
	a.ofs["OF-20260312-001"].CantidadReal = &real

	// Dos operarios intentan llevarse los últimos 2.0 kg a la vez:
	// exactamente uno debe ganar.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Assign(context.Background(), picking.AssignInput{
				OfID:         "OF-20260312-001",
				ContenedorID: "C1",
				Cantidad:     decimal.NewFromFloat(2.0),
				UserID:       "user-1",
			})
		}(i)
	}
	wg.Wait()

	exitos, conflictos := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			exitos++
		case assert.ErrorIs(t, err, domain.ErrInsufficientLotQty):
			conflictos++
		}
	}
	assert.Equal(t, 1, exitos, "exactamente una asignación gana")
	assert.Equal(t, 1, conflictos, "la otra recibe el error de cantidad")

	total := decimal.Zero
	for _, asig := range a.asignaciones {
		total = total.Add(asig.Cantidad)
	}
	assert.True(t, total.Equal(decimal.NewFromFloat(2.0)), "nunca se asigna más de lo producido")
}

func TestCreateContainer_NumeracionPorHitoYTipo(t *testing.T) {
	uc, _ := nuevoEscenario()

	c2, err := uc.CreateContainer(context.Background(), "OS-100", "H1", entity.ExpedicionRefrigerado)
	require.NoError(t, err)
	assert.Equal(t, 2, c2.Numero, "ya existía el C1 REFRIGERADO del hito")

	c3, err := uc.CreateContainer(context.Background(), "OS-100", "H1", entity.ExpedicionCongelado)
	require.NoError(t, err)
	assert.Equal(t, 1, c3.Numero, "la numeración es independiente por tipo")
	assert.Equal(t, "OS-100", c3.OsID)
	assert.Equal(t, "H1", c3.HitoID)
}

func TestCreateContainer_AltasConcurrentesNoRepitenNumero(t *testing.T) {
	uc, _ := nuevoEscenario()

	// Dos altas a la vez para el mismo (hito, tipo): cada transacción
	// reserva su propio correlativo.
	var wg sync.WaitGroup
	numeros := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := uc.CreateContainer(context.Background(), "OS-100", "H1", entity.ExpedicionRefrigerado)
			if assert.NoError(t, err) {
				numeros[i] = c.Numero
			}
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, numeros[0], numeros[1], "dos contenedores no pueden compartir correlativo")
	assert.ElementsMatch(t, []int{2, 3}, numeros, "ya existía el C1 REFRIGERADO del hito")
}

func TestCreateContainer_NoReutilizaNumerosTrasBorrar(t *testing.T) {
	uc, _ := nuevoEscenario()

	c2, err := uc.CreateContainer(context.Background(), "OS-100", "H1", entity.ExpedicionRefrigerado)
	require.NoError(t, err)
	require.Equal(t, 2, c2.Numero)
	require.NoError(t, uc.RemoveContainer(context.Background(), c2.ID))

	c3, err := uc.CreateContainer(context.Background(), "OS-100", "H1", entity.ExpedicionRefrigerado)
	require.NoError(t, err)
	assert.Equal(t, 3, c3.Numero, "el correlativo de un contenedor borrado no se reasigna")
}

func TestCreateContainer_ValidaHitoYTipo(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := uc.CreateContainer(context.Background(), "OS-100", "H-INEXISTENTE", entity.ExpedicionSeco)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateContainer(context.Background(), "OS-100", "H1", "AMBIENTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveContainer_SoloVacios(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := asignar(t, uc, 1.0)
	require.NoError(t, err)

	err = uc.RemoveContainer(context.Background(), "C1")
	assert.ErrorIs(t, err, domain.ErrConflict, "con asignaciones dentro no se borra")

	require.NoError(t, uc.RemoveContainer(context.Background(), "C-OTRA-OS"))
}

func TestProyeccion_SeActualizaConCadaEscritura(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := asignar(t, uc, 5.0)
	require.NoError(t, err)
	_, err = asignar(t, uc, 2.0)
	require.NoError(t, err)

	ps, err := uc.GetState(context.Background(), "OS-100")
	require.NoError(t, err)
	assert.Equal(t, 1, ps.TotalContenedores)
	assert.Equal(t, 2, ps.TotalAsignaciones)
	assert.True(t, ps.CantidadAsignada.Equal(decimal.NewFromFloat(7.0)))
}

func TestGetState_SinActividadDevuelvePendiente(t *testing.T) {
	uc, _ := nuevoEscenario()

	ps, err := uc.GetState(context.Background(), "OS-VACIA")
	require.NoError(t, err)
	assert.Equal(t, entity.PickingPendiente, ps.Status)
	assert.Zero(t, ps.TotalContenedores)
}

func TestSetStatus_NoPisaLosContadoresDeLaProyeccion(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := asignar(t, uc, 5.0)
	require.NoError(t, err)

	ps, err := uc.SetStatus(context.Background(), "OS-100", entity.PickingPreparado)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingPreparado, ps.Status)
	assert.Equal(t, 1, ps.TotalContenedores)
	assert.Equal(t, 1, ps.TotalAsignaciones)
	assert.True(t, ps.CantidadAsignada.Equal(decimal.NewFromFloat(5.0)),
		"el cambio de estado no reescribe los contadores")

	// Y al revés: la siguiente asignación actualiza los contadores sin
	// resetear el estado operativo.
	_, err = asignar(t, uc, 2.0)
	require.NoError(t, err)
	ps, err = uc.GetState(context.Background(), "OS-100")
	require.NoError(t, err)
	assert.Equal(t, entity.PickingPreparado, ps.Status)
	assert.Equal(t, 2, ps.TotalAsignaciones)
	assert.True(t, ps.CantidadAsignada.Equal(decimal.NewFromFloat(7.0)))
}

func TestSetStatus_SinActividadCreaProyeccionVacia(t *testing.T) {
	uc, _ := nuevoEscenario()

	ps, err := uc.SetStatus(context.Background(), "OS-NUEVA", entity.PickingEnviado)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingEnviado, ps.Status)
	assert.Zero(t, ps.TotalContenedores)
	assert.True(t, ps.CantidadAsignada.IsZero())
}

func TestSetStatus_ValidaElEstado(t *testing.T) {
	uc, _ := nuevoEscenario()

	_, err := uc.SetStatus(context.Background(), "OS-100", "Volando")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ps, err := uc.SetStatus(context.Background(), "OS-100", entity.PickingPreparado)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingPreparado, ps.Status)
}
