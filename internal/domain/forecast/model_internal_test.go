package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

func TestSafely_PanicDevuelveSecuenciaDegradada(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	points := safely(ModelSeasonal, 7, now, func(int) ([]entity.ForecastPoint, error) {
		var slots []float64
		_ = slots[3]
		return nil, nil
	})

	require.Len(t, points, 7)
	assert.True(t, IsDegraded(points))
	for _, p := range points {
		assert.Equal(t, 0, p.ForecastedDemand)
		assert.Equal(t, 0.5, p.ConfidenceLevel)
		assert.Equal(t, entity.ModelVersionSeasonal, p.ModelVersion)
	}
	f, ok := points[0].Factors.(entity.SeasonalFactors)
	require.True(t, ok)
	assert.Contains(t, f.Error, "panic:")
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), points[0].ForecastDate)
}

func TestSafely_ErrorDevuelveSecuenciaDegradada(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	points := safely(ModelSMA, 0, now, func(h int) ([]entity.ForecastPoint, error) {
		return nil, errors.New("ventana inválida")
	})

	require.Len(t, points, DefaultHorizonDays)
	assert.Equal(t, "ventana inválida", points[0].Factors.Diag().Error)
}
