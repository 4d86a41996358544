package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/dto"
	"github.com/lromero/cpr-api/internal/application/trace"
)

// TraceHandler maneja las consultas de trazabilidad.
type TraceHandler struct {
	uc *trace.UseCase
}

// NewTraceHandler construye el handler.
func NewTraceHandler(uc *trace.UseCase) *TraceHandler {
	return &TraceHandler{uc: uc}
}

// Container godoc
// @Summary      Traza de un contenedor
// @Description  Lotes volcados en el contenedor en orden de asignación, con la receta origen ("directo" si la elaboración no aparece en el menú del hito).
// @Tags         trazabilidad
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      200  {object}  dto.TrazaContenedorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trazabilidad/contenedores/{id} [get]
func (h *TraceHandler) Container(c *fiber.Ctx) error {
	traza, err := h.uc.ResolveContainer(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.TrazaContenedorResponse{
		ContenedorID: traza.Contenedor.ID,
		OsID:         traza.OsID,
		HitoID:       traza.HitoID,
		Tipo:         traza.Contenedor.Tipo,
		Numero:       traza.Contenedor.Numero,
		Items:        make([]dto.TrazaItemResponse, 0, len(traza.Items)),
	}
	for _, item := range traza.Items {
		out.Items = append(out.Items, dto.TrazaItemResponse{
			OfID:              item.OfID,
			ElaboracionID:     item.ElaboracionID,
			ElaboracionNombre: item.ElaboracionNombre,
			Unidad:            item.Unidad,
			Cantidad:          item.Cantidad,
			Receta:            item.Receta,
			FechaAsignacion:   item.FechaAsignacion,
		})
	}
	return c.JSON(out)
}

// Lot godoc
// @Summary      Traza de consumo de una OF
// @Description  Contenedores (y por tanto hitos y órdenes de servicio) que consumieron el lote.
// @Tags         trazabilidad
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OF"
// @Success      200  {object}  dto.TrazaLoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trazabilidad/ofs/{id} [get]
func (h *TraceHandler) Lot(c *fiber.Ctx) error {
	traza, err := h.uc.ResolveLot(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.TrazaLoteResponse{
		Of:       toOFResponse(traza.Of),
		Destinos: make([]dto.DestinoLoteResponse, 0, len(traza.Destinos)),
	}
	for _, destino := range traza.Destinos {
		out.Destinos = append(out.Destinos, dto.DestinoLoteResponse{
			ContenedorID: destino.ContenedorID,
			OsID:         destino.OsID,
			HitoID:       destino.HitoID,
			Cantidad:     destino.Cantidad,
		})
	}
	return c.JSON(out)
}
