package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/picking"
	"github.com/lromero/cpr-api/internal/application/planning"
	"github.com/lromero/cpr-api/internal/application/production"
	"github.com/lromero/cpr-api/internal/application/trace"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PlanningUC   *planning.UseCase
	ProductionUC *production.UseCase
	PickingUC    *picking.UseCase
	TraceUC      *trace.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Planificación de producción
	planningHandler := NewPlanningHandler(deps.PlanningUC)
	api.Get("/planificacion/necesidades", planningHandler.Needs)

	// Órdenes de fabricación
	ofs := api.Group("/ofs")
	ofHandler := NewOFHandler(deps.ProductionUC)
	ofs.Post("/", ofHandler.Create)
	ofs.Post("/generar", ofHandler.Generate)
	ofs.Get("/", ofHandler.List)
	ofs.Get("/:id", ofHandler.GetByID)
	ofs.Delete("/:id", ofHandler.Delete)
	ofs.Post("/:id/asignar", ofHandler.Assign)
	ofs.Post("/:id/iniciar", ofHandler.Start)
	ofs.Post("/:id/finalizar", ofHandler.Finish)
	ofs.Post("/:id/validar", ofHandler.Validate)
	ofs.Post("/:id/incidencia", ofHandler.ReportIncident)
	ofs.Post("/:id/reasignar", ofHandler.Reassign)
	ofs.Put("/:id/cantidad-real", ofHandler.UpdateCantidadReal)

	// Picking: contenedores, asignaciones y proyección por OS
	pickingHandler := NewPickingHandler(deps.PickingUC)
	api.Post("/os/:osId/contenedores", pickingHandler.CreateContainer)
	api.Get("/os/:osId/picking", pickingHandler.GetState)
	api.Put("/os/:osId/picking/estado", pickingHandler.SetStatus)
	api.Delete("/contenedores/:id", pickingHandler.RemoveContainer)
	api.Post("/asignaciones", pickingHandler.Assign)
	api.Put("/asignaciones/:id", pickingHandler.UpdateAsignacion)
	api.Delete("/asignaciones/:id", pickingHandler.Unassign)

	// Trazabilidad
	traceHandler := NewTraceHandler(deps.TraceUC)
	api.Get("/trazabilidad/contenedores/:id", traceHandler.Container)
	api.Get("/trazabilidad/ofs/:id", traceHandler.Lot)
}
