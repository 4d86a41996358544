package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/dto"
	"github.com/lromero/cpr-api/internal/application/picking"
	"github.com/lromero/cpr-api/internal/domain/entity"
)

// PickingHandler maneja las peticiones HTTP de contenedores y asignaciones.
type PickingHandler struct {
	uc *picking.UseCase
}

// NewPickingHandler construye el handler.
func NewPickingHandler(uc *picking.UseCase) *PickingHandler {
	return &PickingHandler{uc: uc}
}

// CreateContainer godoc
// @Summary      Crear contenedor en un hito de la OS
// @Description  El contenedor queda ligado al hito y numerado correlativamente por (hito, tipo).
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        osId  path  string  true  "ID de la orden de servicio"
// @Param        body  body  dto.CreateContenedorRequest  true  "Hito y tipo"
// @Success      201   {object}  dto.ContenedorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/os/{osId}/contenedores [post]
func (h *PickingHandler) CreateContainer(c *fiber.Ctx) error {
	var in dto.CreateContenedorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cont, err := h.uc.CreateContainer(c.Context(), c.Params("osId"), in.HitoID, in.Tipo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toContenedorResponse(cont))
}

// RemoveContainer godoc
// @Summary      Eliminar contenedor vacío
// @Tags         picking
// @Security     Bearer
// @Param        id   path  string  true  "ID del contenedor"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/contenedores/{id} [delete]
func (h *PickingHandler) RemoveContainer(c *fiber.Ctx) error {
	if err := h.uc.RemoveContainer(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign godoc
// @Summary      Asignar cantidad de un lote validado a un contenedor
// @Description  Solo lotes en estado Validado; la cantidad no puede superar el disponible del lote ni el contenedor estar fuera del alcance de OS del lote.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAsignacionRequest  true  "Lote, contenedor y cantidad"
// @Success      201   {object}  dto.AsignacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/asignaciones [post]
func (h *PickingHandler) Assign(c *fiber.Ctx) error {
	var in dto.CreateAsignacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	asig, err := h.uc.Assign(c.Context(), picking.AssignInput{
		OfID:         in.OfID,
		ContenedorID: in.ContenedorID,
		Cantidad:     in.Cantidad,
		UserID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAsignacionResponse(asig))
}

// UpdateAsignacion godoc
// @Summary      Ajustar la cantidad de una asignación
// @Description  Reducir devuelve cantidad al pool del lote; aumentar vuelve a comprobar el disponible.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la asignación"
// @Param        body  body  dto.UpdateAsignacionRequest  true  "Nueva cantidad"
// @Success      200   {object}  dto.AsignacionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/asignaciones/{id} [put]
func (h *PickingHandler) UpdateAsignacion(c *fiber.Ctx) error {
	var in dto.UpdateAsignacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	asig, err := h.uc.Reduce(c.Context(), c.Params("id"), in.Cantidad)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAsignacionResponse(asig))
}

// Unassign godoc
// @Summary      Eliminar una asignación (devuelve la cantidad al lote)
// @Tags         picking
// @Security     Bearer
// @Param        id   path  string  true  "ID de la asignación"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/asignaciones/{id} [delete]
func (h *PickingHandler) Unassign(c *fiber.Ctx) error {
	if err := h.uc.Unassign(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetState godoc
// @Summary      Proyección de picking de la OS
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        osId  path  string  true  "ID de la orden de servicio"
// @Success      200   {object}  dto.PickingStateResponse
// @Router       /api/os/{osId}/picking [get]
func (h *PickingHandler) GetState(c *fiber.Ctx) error {
	ps, err := h.uc.GetState(c.Context(), c.Params("osId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPickingStateResponse(ps))
}

// SetStatus godoc
// @Summary      Cambiar el estado de picking de la OS
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        osId  path  string  true  "ID de la orden de servicio"
// @Param        body  body  dto.PickingStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.PickingStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/os/{osId}/picking/estado [put]
func (h *PickingHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.PickingStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ps, err := h.uc.SetStatus(c.Context(), c.Params("osId"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPickingStateResponse(ps))
}

func toContenedorResponse(cont *entity.Contenedor) dto.ContenedorResponse {
	return dto.ContenedorResponse{
		ID:        cont.ID,
		OsID:      cont.OsID,
		HitoID:    cont.HitoID,
		Tipo:      cont.Tipo,
		Numero:    cont.Numero,
		CreatedAt: cont.CreatedAt,
	}
}

func toAsignacionResponse(a *entity.AsignacionContenedor) dto.AsignacionResponse {
	return dto.AsignacionResponse{
		ID:           a.ID,
		OfID:         a.OfID,
		ContenedorID: a.ContenedorID,
		OsID:         a.OsID,
		HitoID:       a.HitoID,
		Cantidad:     a.Cantidad,
		CreatedAt:    a.CreatedAt,
	}
}

func toPickingStateResponse(ps *entity.PickingState) dto.PickingStateResponse {
	return dto.PickingStateResponse{
		OsID:              ps.OsID,
		Status:            ps.Status,
		TotalContenedores: ps.TotalContenedores,
		TotalAsignaciones: ps.TotalAsignaciones,
		CantidadAsignada:  ps.CantidadAsignada,
		UpdatedAt:         ps.UpdatedAt,
	}
}
