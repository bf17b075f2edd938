// Package forecasting orquesta los modelos de pronóstico: historial, caché y persistencia.
package forecasting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/application/dto"
	"github.com/jhoicas/stockwise/internal/application/ports"
	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

// Metrics contadores del pronóstico.
type Metrics interface {
	ForecastDegraded(model string)
}

// UseCase genera pronósticos por producto.
type UseCase struct {
	products  repository.ProductRepository
	txs       repository.TransactionRepository
	forecasts repository.ForecastRepository
	cache     ports.ForecastCache
	metrics   Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. forecasts, cache y metrics pueden ser nil.
func NewUseCase(
	products repository.ProductRepository,
	txs repository.TransactionRepository,
	forecasts repository.ForecastRepository,
	cache ports.ForecastCache,
	metrics Metrics,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		products:  products,
		txs:       txs,
		forecasts: forecasts,
		cache:     cache,
		metrics:   metrics,
		log:       log.With().Str("component", "forecasting").Logger(),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Forecast calcula el pronóstico sin validar el producto ni persistir. Nunca falla:
// si el historial no se puede leer devuelve la secuencia degradada con el error.
func (uc *UseCase) Forecast(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params) []entity.ForecastPoint {
	horizonDays = forecast.NormalizeHorizon(horizonDays)
	key := ports.ForecastCacheKey{ProductID: productID, Model: string(model), HorizonDays: horizonDays, Params: paramsKey(params)}
	if uc.cache != nil {
		if points, ok := uc.cache.Get(ctx, key); ok {
			return points
		}
	}

	now := uc.now()
	txs, err := uc.txs.ListByProduct(ctx, productID, model.LookbackDays())
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo leer el historial; pronóstico degradado")
		uc.degraded(model)
		return forecast.Degraded(model, horizonDays, now, entity.Diagnostics{Error: err.Error()})
	}

	points := forecast.Run(model, txs, horizonDays, params, now)
	if forecast.IsDegraded(points) {
		uc.degraded(model)
		uc.log.Warn().Str("product_id", productID).Str("model", string(model)).
			Str("error", points[0].Factors.Diag().Error).Msg("pronóstico degradado")
		return points
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, key, points)
	}
	return points
}

// GenerateForecastByModel valida el producto, calcula el pronóstico y lo persiste (best-effort).
func (uc *UseCase) GenerateForecastByModel(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params) ([]entity.ForecastPoint, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	points := uc.Forecast(ctx, productID, model, horizonDays, params)
	if uc.forecasts != nil && !forecast.IsDegraded(points) {
		if err := uc.forecasts.Upsert(ctx, productID, points); err != nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo guardar el pronóstico")
		}
	}
	return points, nil
}

// SafetyStock pronostica y calcula stock de seguridad y punto de reorden.
func (uc *UseCase) SafetyStock(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params, leadTimeDays int, serviceLevel float64) (*forecast.SafetyStockResult, error) {
	if leadTimeDays < 0 || serviceLevel <= 0 || serviceLevel >= 1 {
		return nil, fmt.Errorf("%w: lead_time_days >= 0 y 0 < service_level < 1", domain.ErrInvalidInput)
	}
	points, err := uc.GenerateForecastByModel(ctx, productID, model, horizonDays, params)
	if err != nil {
		return nil, err
	}
	res := forecast.CalculateDynamicSafetyStock(points, leadTimeDays, serviceLevel)
	return &res, nil
}

// Scenario pronostica y aplica un crecimiento porcentual uniforme.
func (uc *UseCase) Scenario(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params, growthPercentage float64) (*forecast.ScenarioResult, error) {
	points, err := uc.GenerateForecastByModel(ctx, productID, model, horizonDays, params)
	if err != nil {
		return nil, err
	}
	res := forecast.CalculateScenarioImpact(points, growthPercentage)
	return &res, nil
}

// ListStored devuelve el último pronóstico persistido de un producto para un modelo.
func (uc *UseCase) ListStored(ctx context.Context, productID string, model forecast.ModelType) ([]entity.ForecastPoint, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	if uc.forecasts == nil {
		return []entity.ForecastPoint{}, nil
	}
	points, err := uc.forecasts.ListByProduct(ctx, productID, model.Version())
	if err != nil {
		return nil, fmt.Errorf("listar pronósticos: %w", err)
	}
	return points, nil
}

func (uc *UseCase) requireProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *UseCase) degraded(model forecast.ModelType) {
	if uc.metrics != nil {
		uc.metrics.ForecastDegraded(string(model))
	}
}

// paramsKey representación estable de los parámetros para la clave de caché.
func paramsKey(p forecast.Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "w=%d;p=%s", p.Window, p.SeasonalPeriod)
	for _, pr := range p.Promotions {
		fmt.Fprintf(&b, ";%s:%s:%s:%g", pr.Name,
			pr.StartDate.Format(time.DateOnly), pr.EndDate.Format(time.DateOnly), pr.ExpectedLift)
	}
	return b.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Request → parámetros
// ──────────────────────────────────────────────────────────────────────────────

// ParseRequest valida el body HTTP y lo convierte en modelo, horizonte y parámetros.
func ParseRequest(req dto.ForecastRequest) (forecast.ModelType, int, forecast.Params, error) {
	model, err := forecast.ParseModelType(req.Model)
	if err != nil {
		return "", 0, forecast.Params{}, err
	}
	if req.HorizonDays < 0 || req.HorizonDays > forecast.MaxHorizonDays {
		return "", 0, forecast.Params{}, fmt.Errorf("%w: horizon_days entre 1 y %d", domain.ErrInvalidInput, forecast.MaxHorizonDays)
	}
	params := forecast.Params{Window: req.Window, SeasonalPeriod: req.SeasonalPeriod}
	for _, pr := range req.Promotions {
		start, err := time.Parse(time.DateOnly, pr.StartDate)
		if err != nil {
			return "", 0, forecast.Params{}, fmt.Errorf("%w: start_date %q", domain.ErrInvalidInput, pr.StartDate)
		}
		end, err := time.Parse(time.DateOnly, pr.EndDate)
		if err != nil {
			return "", 0, forecast.Params{}, fmt.Errorf("%w: end_date %q", domain.ErrInvalidInput, pr.EndDate)
		}
		params.Promotions = append(params.Promotions, entity.Promotion{
			Name: pr.Name, StartDate: start, EndDate: end, ExpectedLift: pr.ExpectedLift,
		})
	}
	return model, forecast.NormalizeHorizon(req.HorizonDays), params, nil
}
