package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/dto"
	"github.com/lromero/cpr-api/internal/application/planning"
)

// PlanningHandler maneja las peticiones HTTP de planificación de producción.
type PlanningHandler struct {
	uc *planning.UseCase
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(uc *planning.UseCase) *PlanningHandler {
	return &PlanningHandler{uc: uc}
}

// Needs godoc
// @Summary      Calcular necesidades de elaboración
// @Description  Agrega la demanda gastronómica de los briefings del rango y descuenta stock y cantidad ya planificada. Solo lectura: repetir la corrida con los mismos datos produce el mismo resultado.
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "Fecha inicio (yyyy-mm-dd)"
// @Param        hasta  query  string  true  "Fecha fin (yyyy-mm-dd)"
// @Success      200    {object}  dto.NecesidadesResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/planificacion/necesidades [get]
func (h *PlanningHandler) Needs(c *fiber.Ctx) error {
	desde, err := time.Parse("2006-01-02", c.Query("desde"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser yyyy-mm-dd"})
	}
	hasta, err := time.Parse("2006-01-02", c.Query("hasta"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser yyyy-mm-dd"})
	}
	if hasta.Before(desde) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas invertido"})
	}

	resultado, err := h.uc.AggregateNeeds(c.Context(), desde, hasta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toNecesidadesResponse(resultado))
}

func toNecesidadesResponse(r *planning.Resultado) dto.NecesidadesResponse {
	out := dto.NecesidadesResponse{
		Desde:       r.Desde.Format("2006-01-02"),
		Hasta:       r.Hasta.Format("2006-01-02"),
		Necesidades: make([]dto.NecesidadResponse, 0, len(r.Necesidades)),
		Avisos:      r.Avisos,
	}
	for _, n := range r.Necesidades {
		origenes := make([]dto.OrigenNecesidadResponse, 0, len(n.Origenes))
		for _, o := range n.Origenes {
			origenes = append(origenes, dto.OrigenNecesidadResponse{
				OsID:         o.OsID,
				HitoID:       o.HitoID,
				RecetaID:     o.RecetaID,
				RecetaNombre: o.RecetaNombre,
				Cantidad:     o.Cantidad,
			})
		}
		out.Necesidades = append(out.Necesidades, dto.NecesidadResponse{
			ElaboracionID:       n.ElaboracionID,
			Nombre:              n.Nombre,
			Unidad:              n.Unidad,
			Partida:             n.Partida,
			TipoExpedicion:      n.TipoExpedicion,
			Fecha:               n.Fecha.Format("2006-01-02"),
			CantidadNecesaria:   n.CantidadNecesaria,
			StockDisponible:     n.StockDisponible,
			CantidadPlanificada: n.CantidadPlanificada,
			CantidadNeta:        n.CantidadNeta,
			Origenes:            origenes,
		})
	}
	return out
}
