package forecast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
)

func pointsOf(demands ...int) []entity.ForecastPoint {
	points := make([]entity.ForecastPoint, len(demands))
	for i, d := range demands {
		points[i] = entity.ForecastPoint{
			ForecastDate:     now.AddDate(0, 0, i+1),
			ForecastedDemand: d,
			ConfidenceLevel:  0.8,
			ModelVersion:     entity.ModelVersionSMA,
		}
	}
	return points
}

func TestZScore(t *testing.T) {
	assert.Equal(t, 1.28, forecast.ZScore(0.90))
	assert.Equal(t, 1.645, forecast.ZScore(0.95))
	assert.Equal(t, 2.33, forecast.ZScore(0.99))
	assert.Equal(t, 1.0, forecast.ZScore(0.80))
}

func TestCalculateDynamicSafetyStock(t *testing.T) {
	// media 15, σ 5: ss = ceil(1.645*5*2) = 17; rp = ceil(15*4 + 17) = 77.
	res := forecast.CalculateDynamicSafetyStock(pointsOf(10, 20), 4, 0.95)
	assert.Equal(t, 17, res.SafetyStock)
	assert.Equal(t, 77, res.ReorderPoint)
	assert.InDelta(t, 15.0, res.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 5.0, res.StdDev, 1e-9)
	assert.Equal(t, 1.645, res.ZScore)
	assert.NotEmpty(t, res.Explanation)
}

func TestCalculateDynamicSafetyStock_SinPronostico(t *testing.T) {
	res := forecast.CalculateDynamicSafetyStock(nil, 7, 0.95)
	assert.Equal(t, 0, res.SafetyStock)
	assert.Equal(t, 0, res.ReorderPoint)
	assert.Equal(t, 7, res.LeadTimeDays)
	assert.NotEmpty(t, res.Explanation)
}

func TestCalculateDynamicSafetyStock_DemandaConstante(t *testing.T) {
	res := forecast.CalculateDynamicSafetyStock(pointsOf(6, 6, 6, 6), 3, 0.99)
	assert.Equal(t, 0, res.SafetyStock, "sin variabilidad no hace falta colchón")
	assert.Equal(t, 18, res.ReorderPoint)
}

func TestCalculateScenarioImpact(t *testing.T) {
	res := forecast.CalculateScenarioImpact(pointsOf(10), 50)
	require.Len(t, res.Forecasts, 1)
	assert.Equal(t, 10, res.Forecasts[0].OriginalDemand)
	assert.Equal(t, 15, res.Forecasts[0].AdjustedDemand)
	assert.Equal(t, 5, res.Forecasts[0].Difference)
	assert.Equal(t, 10, res.OriginalTotal)
	assert.Equal(t, 15, res.AdjustedTotal)
	assert.Equal(t, 5, res.DifferenceTotal)
}

func TestCalculateScenarioImpact_Decrecimiento(t *testing.T) {
	res := forecast.CalculateScenarioImpact(pointsOf(10, 4), -150)
	assert.Equal(t, 0, res.AdjustedTotal, "la demanda ajustada nunca es negativa")
	assert.Equal(t, -14, res.DifferenceTotal)
}

func TestForecastPoint_JSONConservaFactoresTipados(t *testing.T) {
	points := forecast.Seasonal(dailySales(7, 27, 0), 1, forecast.Params{}, now)
	raw, err := json.Marshal(points[0])
	require.NoError(t, err)

	var decoded entity.ForecastPoint
	require.NoError(t, json.Unmarshal(raw, &decoded))
	f, ok := decoded.Factors.(entity.SeasonalFactors)
	require.True(t, ok)
	assert.Equal(t, forecast.PeriodWeekday, f.Period)
	assert.Equal(t, 7, decoded.ForecastedDemand)
	assert.True(t, decoded.ForecastDate.Equal(points[0].ForecastDate))
}
