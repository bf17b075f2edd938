package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stockwise/internal/application/dto"
	"github.com/jhoicas/stockwise/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Engine         AlertGenerator
	Lifecycle      AlertLifecycle
	Forecasts      ForecastService
	Transactions   TransactionService
	MetricsHandler http.Handler // nil = sin /metrics
	JWTSecret      string
	JWTVerify      jwt.VerifyOptions
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTVerify))

	alertHandler := NewAlertHandler(deps.Engine, deps.Lifecycle)
	alertsGroup := api.Group("/alerts")
	alertsGroup.Post("/generate", alertHandler.Generate)
	alertsGroup.Post("/mark-all-read", alertHandler.MarkAllRead)
	alertsGroup.Get("/", alertHandler.ListActive)
	alertsGroup.Get("/all", alertHandler.ListAll)
	alertsGroup.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alertsGroup.Post("/:id/resolve", alertHandler.Resolve)
	alertsGroup.Post("/:id/dismiss", alertHandler.Dismiss)

	forecastHandler := NewForecastHandler(deps.Forecasts)
	forecasts := api.Group("/forecasts")
	forecasts.Post("/", forecastHandler.Generate)
	forecasts.Post("/safety-stock", forecastHandler.SafetyStock)
	forecasts.Post("/scenario", forecastHandler.Scenario)
	forecasts.Get("/:productId", forecastHandler.ListStored)

	txHandler := NewTransactionHandler(deps.Transactions)
	transactions := api.Group("/transactions")
	transactions.Post("/", txHandler.Record)
	transactions.Get("/", txHandler.List)
}
