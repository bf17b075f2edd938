package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockwise/internal/application/dto"
	"github.com/jhoicas/stockwise/internal/application/forecasting"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
)

// ForecastService lo implementa *forecasting.UseCase.
type ForecastService interface {
	GenerateForecastByModel(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params) ([]entity.ForecastPoint, error)
	SafetyStock(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params, leadTimeDays int, serviceLevel float64) (*forecast.SafetyStockResult, error)
	Scenario(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params, growthPercentage float64) (*forecast.ScenarioResult, error)
	ListStored(ctx context.Context, productID string, model forecast.ModelType) ([]entity.ForecastPoint, error)
}

// ForecastHandler maneja las peticiones HTTP de pronósticos (protegido).
type ForecastHandler struct {
	uc  ForecastService
	now func() time.Time
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc ForecastService) *ForecastHandler {
	return &ForecastHandler{uc: uc, now: time.Now}
}

// Generate godoc
// @Summary      Pronosticar la demanda diaria de un producto
// @Tags         forecasts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForecastRequest  true  "product_id, model (sma | seasonal | promotion), horizon_days"
// @Success      200   {object}  dto.ForecastResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/forecasts [post]
func (h *ForecastHandler) Generate(c *fiber.Ctx) error {
	var in dto.ForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	model, horizon, params, err := forecasting.ParseRequest(in)
	if err != nil {
		return writeError(c, err)
	}
	points, err := h.uc.GenerateForecastByModel(c.Context(), in.ProductID, model, horizon, params)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.response(in.ProductID, model, horizon, points))
}

// SafetyStock godoc
// @Summary      Stock de seguridad y punto de reorden a partir del pronóstico
// @Tags         forecasts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SafetyStockRequest  true  "pronóstico + lead_time_days y service_level"
// @Success      200   {object}  forecast.SafetyStockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/forecasts/safety-stock [post]
func (h *ForecastHandler) SafetyStock(c *fiber.Ctx) error {
	var in dto.SafetyStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	model, horizon, params, err := forecasting.ParseRequest(in.ForecastRequest)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.SafetyStock(c.Context(), in.ProductID, model, horizon, params, in.LeadTimeDays, in.ServiceLevel)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Scenario godoc
// @Summary      Impacto de un crecimiento porcentual sobre el pronóstico
// @Tags         forecasts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScenarioRequest  true  "pronóstico + growth_percentage"
// @Success      200   {object}  forecast.ScenarioResult
// @Router       /api/forecasts/scenario [post]
func (h *ForecastHandler) Scenario(c *fiber.Ctx) error {
	var in dto.ScenarioRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	model, horizon, params, err := forecasting.ParseRequest(in.ForecastRequest)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Scenario(c.Context(), in.ProductID, model, horizon, params, in.GrowthPercentage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ListStored godoc
// @Summary      Último pronóstico persistido de un producto
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        model      query  string  false  "sma (por defecto) | seasonal | promotion"
// @Success      200  {object}  dto.ForecastResponse
// @Router       /api/forecasts/{productId} [get]
func (h *ForecastHandler) ListStored(c *fiber.Ctx) error {
	productID := c.Params("productId")
	model, err := forecast.ParseModelType(c.Query("model"))
	if err != nil {
		return writeError(c, err)
	}
	points, err := h.uc.ListStored(c.Context(), productID, model)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.response(productID, model, len(points), points))
}

func (h *ForecastHandler) response(productID string, model forecast.ModelType, horizon int, points []entity.ForecastPoint) dto.ForecastResponse {
	return dto.ForecastResponse{
		ProductID:   productID,
		Model:       string(model),
		HorizonDays: horizon,
		TotalDemand: forecast.TotalDemand(points),
		Degraded:    forecast.IsDegraded(points),
		GeneratedAt: h.now().UTC(),
		Forecasts:   points,
	}
}
