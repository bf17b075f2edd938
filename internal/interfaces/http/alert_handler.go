package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockwise/internal/application/alerts"
	"github.com/jhoicas/stockwise/internal/application/dto"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// AlertGenerator lo implementa *alerts.Engine.
type AlertGenerator interface {
	GenerateAlerts(ctx context.Context) (*alerts.GenerateResult, error)
}

// AlertLifecycle lo implementa *alerts.LifecycleService.
type AlertLifecycle interface {
	Acknowledge(ctx context.Context, id, actor string) (*entity.Alert, error)
	Resolve(ctx context.Context, id, actor string) (*entity.Alert, error)
	Dismiss(ctx context.Context, id, actor string) (*entity.Alert, error)
	MarkAllRead(ctx context.Context, actor string) (alerts.MarkAllReadResult, error)
	ListActive(ctx context.Context) ([]*entity.Alert, error)
	ListAll(ctx context.Context, status string, limit int) ([]*entity.Alert, error)
}

// AlertHandler maneja las peticiones HTTP de alertas de stock (protegido).
type AlertHandler struct {
	engine    AlertGenerator
	lifecycle AlertLifecycle
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine AlertGenerator, lifecycle AlertLifecycle) *AlertHandler {
	return &AlertHandler{engine: engine, lifecycle: lifecycle}
}

// Generate godoc
// @Summary      Evaluar el catálogo y crear alertas nuevas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerateAlertsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/generate [post]
func (h *AlertHandler) Generate(c *fiber.Ctx) error {
	res, err := h.engine.GenerateAlerts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.GenerateAlertsResponse{
		CreatedAlerts: dto.ToAlertResponses(res.CreatedAlerts),
		SkippedAlerts: make([]dto.SkippedAlertDTO, 0, len(res.SkippedAlerts)),
		Summary: dto.AlertSummaryDTO{
			Evaluated:    res.Summary.Evaluated,
			OutOfStock:   res.Summary.OutOfStock,
			StockoutRisk: res.Summary.StockoutRisk,
			LowStock:     res.Summary.LowStock,
			Overstock:    res.Summary.Overstock,
			TotalCreated: res.Summary.TotalCreated,
			TotalSkipped: res.Summary.TotalSkipped,
			Dropped:      res.Summary.Dropped,
			Errors:       res.Summary.Errors,
		},
	}
	for _, s := range res.SkippedAlerts {
		out.SkippedAlerts = append(out.SkippedAlerts, dto.SkippedAlertDTO{ProductID: s.ProductID, Type: s.Type, Reason: s.Reason})
	}
	return c.JSON(out)
}

// ListActive godoc
// @Summary      Feed de alertas activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	list, err := h.lifecycle.ListActive(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponses(list))
}

// ListAll godoc
// @Summary      Alertas de cualquier tipo, filtradas por estado
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active | acknowledged | resolved | dismissed"
// @Param        limit   query  int     false  "máximo de resultados (100 por defecto)"
// @Success      200  {array}   dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts/all [get]
func (h *AlertHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.lifecycle.ListAll(c.Context(), c.Query("status"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponses(list))
}

// Acknowledge godoc
// @Summary      Reconocer una alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.Acknowledge)
}

// Resolve godoc
// @Summary      Resolver una alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.Resolve)
}

// Dismiss godoc
// @Summary      Descartar una alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Router       /api/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	return h.transition(c, h.lifecycle.Dismiss)
}

func (h *AlertHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id, actor string) (*entity.Alert, error)) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	a, err := fn(c.Context(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponse(a))
}

// MarkAllRead godoc
// @Summary      Reconocer todas las alertas activas del feed
// @Tags         alerts
// @Security     Bearer
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/alerts/mark-all-read [post]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	res, err := h.lifecycle.MarkAllRead(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MarkAllReadResponse{Acknowledged: res.Acknowledged, Failed: res.Failed})
}
