package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookingapi/internal/http/middleware"
	"bookingapi/internal/service"
)

// Deps is everything RegisterRoutes wires. A nil Metrics gatherer leaves /metrics unregistered.
type Deps struct {
	Health       []Dependency
	Metrics      prometheus.Gatherer
	Auth         AuthDeps
	Schedules    service.ScheduleService
	SessionTypes service.SessionTypeService
	Chats        service.ChatService
	Usage        service.UsageService
	UserMeta     service.UserMetaService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: they parse input, call one service and map its errors.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Health...))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	a := app.Group("/auth")
	a.Post("/login", Login(d.Auth))
	a.Get("/google", GoogleLogin(d.Auth))
	a.Get("/google/callback", GoogleCallback(d.Auth))
	a.Post("/logout", Logout(d.Auth))

	me := app.Group("/me", middleware.Authenticate(d.Auth.Registry))
	me.Get("/schedules", ListMySchedules(d.Schedules))
	me.Get("/schedules/:id/export", ExportMySchedule(d.Schedules))
	me.Get("/session-types", ListMySessionTypes(d.SessionTypes))
	me.Get("/chats", ListMyChats(d.Chats))
	me.Get("/usage", GetMyUsage(d.Usage))
	me.Put("/mailing-lists/:list", SetMailingList(d.UserMeta, true))
	me.Delete("/mailing-lists/:list", SetMailingList(d.UserMeta, false))
}
