package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/dto"
	"github.com/lromero/cpr-api/internal/application/planning"
	"github.com/lromero/cpr-api/internal/application/production"
	"github.com/lromero/cpr-api/internal/domain/entity"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

// OFHandler maneja las peticiones HTTP de órdenes de fabricación.
type OFHandler struct {
	uc *production.UseCase
}

// NewOFHandler construye el handler.
func NewOFHandler(uc *production.UseCase) *OFHandler {
	return &OFHandler{uc: uc}
}

// Create godoc
// @Summary      Crear OF manual
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOFRequest  true  "Datos de la OF"
// @Success      201   {object}  dto.OFResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ofs [post]
func (h *OFHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	fecha, err := time.Parse("2006-01-02", in.FechaPrevista)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechaPrevista debe ser yyyy-mm-dd"})
	}
	of, err := h.uc.CreateManual(c.Context(), production.CrearManualInput{
		ElaboracionID:     in.ElaboracionID,
		ElaboracionNombre: in.ElaboracionNombre,
		Unidad:            in.Unidad,
		CantidadTotal:     in.CantidadTotal,
		Partida:           in.Partida,
		TipoExpedicion:    in.TipoExpedicion,
		FechaPrevista:     fecha,
		OsIDs:             in.OsIDs,
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOFResponse(of))
}

// Generate godoc
// @Summary      Generar OFs desde necesidades
// @Description  Crea una OF Pendiente por cada necesidad seleccionada con cantidad neta positiva.
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerarOFsRequest  true  "Necesidades seleccionadas"
// @Success      201   {array}   dto.OFResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ofs/generar [post]
func (h *OFHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerarOFsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	fecha, err := time.Parse("2006-01-02", in.FechaProduccion)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechaProduccion debe ser yyyy-mm-dd"})
	}
	if len(in.Necesidades) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "necesidades vacías"})
	}

	seleccion := make([]planning.Necesidad, 0, len(in.Necesidades))
	for _, ns := range in.Necesidades {
		origenes := make([]planning.Origen, 0, len(ns.OsIDs))
		for _, osID := range ns.OsIDs {
			origenes = append(origenes, planning.Origen{OsID: osID})
		}
		seleccion = append(seleccion, planning.Necesidad{
			ElaboracionID:  ns.ElaboracionID,
			Nombre:         ns.Nombre,
			Unidad:         ns.Unidad,
			Partida:        ns.Partida,
			TipoExpedicion: ns.TipoExpedicion,
			CantidadNeta:   ns.CantidadNeta,
			Origenes:       origenes,
		})
	}

	creadas, err := h.uc.CreateFromNeeds(c.Context(), seleccion, fecha, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OFResponse, 0, len(creadas))
	for _, of := range creadas {
		out = append(out, toOFResponse(of))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar OFs
// @Tags         ofs
// @Security     Bearer
// @Produce      json
// @Param        q        query  string  false  "Texto (nombre de elaboración, sin acentos)"
// @Param        estado   query  string  false  "Estado"
// @Param        partida  query  string  false  "Partida"
// @Param        desde    query  string  false  "Fecha prevista desde (yyyy-mm-dd)"
// @Param        hasta    query  string  false  "Fecha prevista hasta (yyyy-mm-dd)"
// @Param        limit    query  int     false  "Límite"   default(50)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200      {object}  dto.OFListResponse
// @Router       /api/ofs [get]
func (h *OFHandler) List(c *fiber.Ctx) error {
	filtro := repository.FiltroOF{
		Texto:   c.Query("q"),
		Estado:  c.Query("estado"),
		Partida: c.Query("partida"),
		Limit:   c.QueryInt("limit", 50),
		Offset:  c.QueryInt("offset", 0),
	}
	if s := c.Query("desde"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser yyyy-mm-dd"})
		}
		filtro.Desde = &t
	}
	if s := c.Query("hasta"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser yyyy-mm-dd"})
		}
		filtro.Hasta = &t
	}

	ofs, err := h.uc.List(c.Context(), filtro)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.OFResponse, 0, len(ofs))
	for _, of := range ofs {
		items = append(items, toOFResponse(of))
	}
	return c.JSON(dto.OFListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filtro.Limit, Offset: filtro.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener OF por ID
// @Tags         ofs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OF (OF-YYYYMMDD-NNN)"
// @Success      200  {object}  dto.OFResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ofs/{id} [get]
func (h *OFHandler) GetByID(c *fiber.Ctx) error {
	of, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// Delete godoc
// @Summary      Eliminar OF sin asignaciones
// @Tags         ofs
// @Security     Bearer
// @Param        id   path  string  true  "ID de la OF"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ofs/{id} [delete]
func (h *OFHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign godoc
// @Summary      Asignar partida y responsable (Pendiente → Asignada)
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.AsignarOFRequest  true  "Partida y responsable"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/asignar [post]
func (h *OFHandler) Assign(c *fiber.Ctx) error {
	var in dto.AsignarOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.Assign(c.Context(), c.Params("id"), in.Partida, in.Responsable)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// Start godoc
// @Summary      Iniciar producción (Asignada → En Proceso)
// @Tags         ofs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OF"
// @Success      200  {object}  dto.OFResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/iniciar [post]
func (h *OFHandler) Start(c *fiber.Ctx) error {
	of, err := h.uc.Start(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// Finish godoc
// @Summary      Finalizar producción con cantidad real (En Proceso → Finalizado)
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.FinalizarOFRequest  true  "Cantidad real producida"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/finalizar [post]
func (h *OFHandler) Finish(c *fiber.Ctx) error {
	var in dto.FinalizarOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.Finish(c.Context(), c.Params("id"), in.CantidadReal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// Validate godoc
// @Summary      Validar calidad (Finalizado → Validado)
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.ValidarOFRequest  true  "Responsable de calidad"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/validar [post]
func (h *OFHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidarOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.Validate(c.Context(), c.Params("id"), in.ResponsableCalidad)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// ReportIncident godoc
// @Summary      Abrir incidencia sobre la OF (estado terminal)
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.IncidenciaOFRequest  true  "Observaciones"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/incidencia [post]
func (h *OFHandler) ReportIncident(c *fiber.Ctx) error {
	var in dto.IncidenciaOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.ReportIncident(c.Context(), c.Params("id"), in.Observaciones)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// Reassign godoc
// @Summary      Cambiar la partida propietaria de una OF Asignada
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.ReasignarOFRequest  true  "Nueva partida"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/reasignar [post]
func (h *OFHandler) Reassign(c *fiber.Ctx) error {
	var in dto.ReasignarOFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.Reassign(c.Context(), c.Params("id"), in.Partida)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

// UpdateCantidadReal godoc
// @Summary      Corregir cantidad real de una OF Finalizada
// @Tags         ofs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la OF"
// @Param        body  body  dto.CantidadRealRequest  true  "Cantidad real corregida"
// @Success      200   {object}  dto.OFResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ofs/{id}/cantidad-real [put]
func (h *OFHandler) UpdateCantidadReal(c *fiber.Ctx) error {
	var in dto.CantidadRealRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	of, err := h.uc.UpdateCantidadReal(c.Context(), c.Params("id"), in.CantidadReal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOFResponse(of))
}

func toOFResponse(of *entity.OrdenFabricacion) dto.OFResponse {
	return dto.OFResponse{
		ID:                      of.ID,
		ElaboracionID:           of.ElaboracionID,
		ElaboracionNombre:       of.ElaboracionNombre,
		Unidad:                  of.Unidad,
		CantidadTotal:           of.CantidadTotal,
		CantidadReal:            of.CantidadReal,
		Partida:                 of.PartidaAsignada,
		TipoExpedicion:          of.TipoExpedicion,
		Estado:                  of.Estado,
		Responsable:             of.Responsable,
		ResponsableCalidad:      of.ResponsableCalidad,
		Incidencia:              of.Incidencia,
		IncidenciaObservaciones: of.IncidenciaObservaciones,
		OsIDs:                   of.OsIDs,
		FechaProduccionPrevista: of.FechaProduccionPrevista.Format("2006-01-02"),
		FechaCreacion:           of.FechaCreacion,
		FechaAsignacion:         of.FechaAsignacion,
		FechaInicioProduccion:   of.FechaInicioProduccion,
		FechaFinalizacion:       of.FechaFinalizacion,
		FechaValidacionCalidad:  of.FechaValidacionCalidad,
	}
}
