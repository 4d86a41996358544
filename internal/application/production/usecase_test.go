package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lromero/cpr-api/internal/application/planning"
	"github.com/lromero/cpr-api/internal/application/production"
	"github.com/lromero/cpr-api/internal/domain"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeOFRepo struct {
	ofs map[string]*entity.OrdenFabricacion
	// fallosCondicionales hace fallar las próximas N escrituras condicionales
	// para simular escritores concurrentes.
	fallosCondicionales int
}

func newFakeOFRepo() *fakeOFRepo {
	return &fakeOFRepo{ofs: make(map[string]*entity.OrdenFabricacion)}
}

func (r *fakeOFRepo) Create(of *entity.OrdenFabricacion) error {
	copia := *of
	r.ofs[of.ID] = &copia
	return nil
}

func (r *fakeOFRepo) GetByID(id string) (*entity.OrdenFabricacion, error) {
	of, ok := r.ofs[id]
	if !ok {
		return nil, nil
	}
	copia := *of
	return &copia, nil
}

func (r *fakeOFRepo) GetForUpdate(id string) (*entity.OrdenFabricacion, error) {
	return r.GetByID(id)
}

func (r *fakeOFRepo) UpdateConditional(of *entity.OrdenFabricacion, estadoEsperado string, versionEsperada int) (bool, error) {
	if r.fallosCondicionales > 0 {
		r.fallosCondicionales--
		return false, nil
	}
	actual, ok := r.ofs[of.ID]
	if !ok || actual.Estado != estadoEsperado || actual.Version != versionEsperada {
		return false, nil
	}
	copia := *of
	r.ofs[of.ID] = &copia
	return true, nil
}

func (r *fakeOFRepo) List(repository.FiltroOF) ([]*entity.OrdenFabricacion, error) { return nil, nil }

func (r *fakeOFRepo) SumPlanificada(string, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeOFRepo) Delete(id string) error {
	delete(r.ofs, id)
	return nil
}

type fakeAsignaciones struct {
	porOf map[string]int
}

func (r *fakeAsignaciones) Create(*entity.AsignacionContenedor) error            { return nil }
func (r *fakeAsignaciones) GetByID(string) (*entity.AsignacionContenedor, error) { return nil, nil }
func (r *fakeAsignaciones) UpdateCantidad(string, decimal.Decimal) error         { return nil }
func (r *fakeAsignaciones) Delete(string) error                                  { return nil }
func (r *fakeAsignaciones) SumByOf(string) (decimal.Decimal, error)              { return decimal.Zero, nil }
func (r *fakeAsignaciones) SumByOs(string) (decimal.Decimal, error)              { return decimal.Zero, nil }

func (r *fakeAsignaciones) ListByOf(string) ([]*entity.AsignacionContenedor, error) { return nil, nil }

func (r *fakeAsignaciones) ListByContenedor(string) ([]*entity.AsignacionContenedor, error) {
	return nil, nil
}

func (r *fakeAsignaciones) ListByOs(string) ([]*entity.AsignacionContenedor, error) { return nil, nil }
func (r *fakeAsignaciones) CountByContenedor(string) (int, error)                   { return 0, nil }
func (r *fakeAsignaciones) CountByOs(string) (int, error)                           { return 0, nil }

func (r *fakeAsignaciones) ExistsByOf(ofID string) (bool, error) {
	return r.porOf[ofID] > 0, nil
}

type fakeSecuencia struct {
	contadores map[string]int
}

func (r *fakeSecuencia) Next(fecha time.Time) (int, error) {
	if r.contadores == nil {
		r.contadores = make(map[string]int)
	}
	clave := fecha.Format("20060102")
	r.contadores[clave]++
	return r.contadores[clave], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario
// ──────────────────────────────────────────────────────────────────────────────

var fechaPrevista = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

func nuevoUseCase() (*production.UseCase, *fakeOFRepo, *fakeAsignaciones) {
	ofRepo := newFakeOFRepo()
	asignaciones := &fakeAsignaciones{porOf: make(map[string]int)}
	uc := production.NewUseCase(ofRepo, asignaciones, &fakeSecuencia{}).
		WithClock(func() time.Time { return fechaPrevista.Add(8 * time.Hour) })
	return uc, ofRepo, asignaciones
}

func entradaManual() production.CrearManualInput {
	return production.CrearManualInput{
		ElaboracionID:     "E1",
		ElaboracionNombre: "Crema de calabaza",
		Unidad:            "kg",
		CantidadTotal:     decimal.NewFromFloat(8.0),
		Partida:           entity.PartidaCaliente,
		TipoExpedicion:    entity.ExpedicionRefrigerado,
		FechaPrevista:     fechaPrevista,
	}
}

func crearOF(t *testing.T, uc *production.UseCase) *entity.OrdenFabricacion {
	t.Helper()
	of, err := uc.CreateManual(context.Background(), entradaManual(), "user-1")
	require.NoError(t, err)
	return of
}

func TestCreateManual_PendienteConIDDeNegocio(t *testing.T) {
	uc, _, _ := nuevoUseCase()

	of := crearOF(t, uc)

	assert.Equal(t, "OF-20260312-001", of.ID)
	assert.Equal(t, entity.EstadoPendiente, of.Estado)
	assert.Equal(t, "user-1", of.CreatedBy)
	assert.Nil(t, of.CantidadReal, "la cantidad real no existe hasta finalizar")

	otra, err := uc.CreateManual(context.Background(), entradaManual(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "OF-20260312-002", otra.ID, "correlativo por día de producción")
}

func TestCreateManual_ValidaEntrada(t *testing.T) {
	uc, _, _ := nuevoUseCase()

	in := entradaManual()
	in.CantidadTotal = decimal.Zero
	_, err := uc.CreateManual(context.Background(), in, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = entradaManual()
	in.Partida = "HORNO"
	_, err = uc.CreateManual(context.Background(), in, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = entradaManual()
	in.TipoExpedicion = "AMBIENTE"
	_, err = uc.CreateManual(context.Background(), in, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateFromNeeds_OmiteNetasNoPositivas(t *testing.T) {
	uc, _, _ := nuevoUseCase()

	seleccion := []planning.Necesidad{
		{
			ElaboracionID:  "E1",
			Nombre:         "Crema de calabaza",
			Unidad:         "kg",
			Partida:        entity.PartidaCaliente,
			TipoExpedicion: entity.ExpedicionRefrigerado,
			CantidadNeta:   decimal.NewFromFloat(4.5),
			Origenes:       []planning.Origen{{OsID: "OS-100"}, {OsID: "OS-100"}, {OsID: "OS-200"}},
		},
		{
			ElaboracionID: "E2",
			Nombre:        "Ya cubierta por stock",
			CantidadNeta:  decimal.Zero,
		},
	}

	creadas, err := uc.CreateFromNeeds(context.Background(), seleccion, fechaPrevista, "user-1")
	require.NoError(t, err)
	require.Len(t, creadas, 1, "la necesidad con neta cero no genera OF")

	of := creadas[0]
	assert.Equal(t, "E1", of.ElaboracionID)
	assert.True(t, of.CantidadTotal.Equal(decimal.NewFromFloat(4.5)))
	assert.Equal(t, []string{"OS-100", "OS-200"}, of.OsIDs, "OS de origen sin duplicados")
}

func TestCicloCompleto_HastaValidado(t *testing.T) {
	uc, ofRepo, _ := nuevoUseCase()
	of := crearOF(t, uc)

	of, err := uc.Assign(context.Background(), of.ID, "", "Marta")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAsignada, of.Estado)
	assert.Equal(t, "Marta", of.Responsable)

	of, err = uc.Start(context.Background(), of.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnProceso, of.Estado)

	of, err = uc.Finish(context.Background(), of.ID, decimal.NewFromFloat(8.5))
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoFinalizado, of.Estado)
	require.NotNil(t, of.CantidadReal)
	assert.True(t, of.CantidadReal.Equal(decimal.NewFromFloat(8.5)),
		"la cantidad real puede superar la planificada")

	of, err = uc.Validate(context.Background(), of.ID, "Laura")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoValidado, of.Estado)
	assert.Equal(t, "Laura", of.ResponsableCalidad)

	guardada, err := ofRepo.GetByID(of.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoValidado, guardada.Estado)
	assert.Equal(t, 5, guardada.Version, "una escritura condicional por transición")
}

func TestFinish_DesdePendienteSeRechazaSinMutar(t *testing.T) {
	uc, ofRepo, _ := nuevoUseCase()
	of := crearOF(t, uc)

	_, err := uc.Finish(context.Background(), of.ID, decimal.NewFromFloat(8.0))

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	guardada, _ := ofRepo.GetByID(of.ID)
	assert.Equal(t, entity.EstadoPendiente, guardada.Estado, "el estado almacenado no debe cambiar")
	assert.Nil(t, guardada.CantidadReal)
}

func TestReportIncident_TerminalConObservaciones(t *testing.T) {
	uc, _, _ := nuevoUseCase()
	of := crearOF(t, uc)
	_, err := uc.Assign(context.Background(), of.ID, "", "Marta")
	require.NoError(t, err)

	_, err = uc.ReportIncident(context.Background(), of.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la incidencia exige motivo")

	incidentada, err := uc.ReportIncident(context.Background(), of.ID, "rotura de frío en cámara 2")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoIncidencia, incidentada.Estado)
	assert.True(t, incidentada.Incidencia)

	_, err = uc.Start(context.Background(), of.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "Incidencia es terminal")
}

func TestReassign_SoloSobreAsignada(t *testing.T) {
	uc, _, _ := nuevoUseCase()
	of := crearOF(t, uc)

	_, err := uc.Reassign(context.Background(), of.ID, entity.PartidaFrio)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "Pendiente no admite reasignación")

	_, err = uc.Assign(context.Background(), of.ID, "", "Marta")
	require.NoError(t, err)

	reasignada, err := uc.Reassign(context.Background(), of.ID, entity.PartidaFrio)
	require.NoError(t, err)
	assert.Equal(t, entity.PartidaFrio, reasignada.PartidaAsignada)
}

func TestUpdateCantidadReal_ValidadoQuedaBloqueado(t *testing.T) {
	uc, _, _ := nuevoUseCase()
	of := crearOF(t, uc)
	_, err := uc.Assign(context.Background(), of.ID, "", "Marta")
	require.NoError(t, err)
	_, err = uc.Start(context.Background(), of.ID)
	require.NoError(t, err)
	_, err = uc.Finish(context.Background(), of.ID, decimal.NewFromFloat(8.0))
	require.NoError(t, err)

	// Finalizada: la corrección se admite.
	corregida, err := uc.UpdateCantidadReal(context.Background(), of.ID, decimal.NewFromFloat(7.5))
	require.NoError(t, err)
	assert.True(t, corregida.CantidadReal.Equal(decimal.NewFromFloat(7.5)))

	_, err = uc.Validate(context.Background(), of.ID, "Laura")
	require.NoError(t, err)

	// Validada: el lote es inmutable.
	_, err = uc.UpdateCantidadReal(context.Background(), of.ID, decimal.NewFromFloat(9.0))
	assert.ErrorIs(t, err, domain.ErrLotLocked)
}

func TestTransicion_ReintentaAnteEscrituraObsoleta(t *testing.T) {
	uc, ofRepo, _ := nuevoUseCase()
	of := crearOF(t, uc)

	// Dos fallos simulados: el tercer intento dentro del presupuesto gana.
	ofRepo.fallosCondicionales = 2
	asignada, err := uc.Assign(context.Background(), of.ID, "", "Marta")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAsignada, asignada.Estado)
}

func TestTransicion_AgotaReintentosYPropagaConflicto(t *testing.T) {
	uc, ofRepo, _ := nuevoUseCase()
	of := crearOF(t, uc)

	ofRepo.fallosCondicionales = 10
	_, err := uc.Assign(context.Background(), of.ID, "", "Marta")
	assert.ErrorIs(t, err, domain.ErrStaleState)
}

func TestDelete_RechazaOFReferenciada(t *testing.T) {
	uc, _, asignaciones := nuevoUseCase()
	of := crearOF(t, uc)

	asignaciones.porOf[of.ID] = 1
	err := uc.Delete(context.Background(), of.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "con asignaciones vivas no se borra")

	asignaciones.porOf[of.ID] = 0
	require.NoError(t, uc.Delete(context.Background(), of.ID))

	_, err = uc.GetByID(context.Background(), of.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
