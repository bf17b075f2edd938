package forecast

import (
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// SMA pronostica con promedio móvil simple sobre los últimos 90 días de salidas.
// Proyección plana: todos los días futuros reciben el promedio de la ventana más reciente.
// Confianza = 0.5 + 0.5 * varianceFactor * historyFactor.
func SMA(txs []entity.Transaction, horizonDays int, params Params, now time.Time) []entity.ForecastPoint {
	return safely(ModelSMA, horizonDays, now, func(h int) ([]entity.ForecastPoint, error) {
		window := params.Window
		if window == 0 {
			window = DefaultSMAWindow
		}
		window = int(clamp(float64(window), MinSMAWindow, MaxSMAWindow))

		series := buildDailySeries(txs, now, SMALookbackDays)
		if series.empty() {
			return Degraded(ModelSMA, h, now, entity.Diagnostics{Reason: ReasonNoHistory}), nil
		}

		tail := series.values
		if len(tail) > window {
			tail = tail[len(tail)-window:]
		}
		latest := mean(tail)

		m := mean(series.values)
		sd := stdDev(series.values)
		daysWithSales := 0
		for _, v := range series.values {
			if v > 0 {
				daysWithSales++
			}
		}
		varianceFactor := clamp(1-sd/(m+1), 0, 1)
		historyFactor := clamp(float64(daysWithSales)/30, 0, 1)
		confidence := clamp(0.5+0.5*varianceFactor*historyFactor, 0.5, 1)

		factors := entity.SMAFactors{
			Window:         window,
			LatestAverage:  latest,
			Mean:           m,
			StdDev:         sd,
			VarianceFactor: varianceFactor,
			HistoryFactor:  historyFactor,
			DaysWithSales:  daysWithSales,
			HistoryDays:    len(series.values),
		}
		demand := nonNegativeRound(latest)
		today := entity.TruncateDay(now)

		points := make([]entity.ForecastPoint, h)
		for i := range points {
			points[i] = entity.ForecastPoint{
				ForecastDate:     today.AddDate(0, 0, i+1),
				ForecastedDemand: demand,
				ConfidenceLevel:  confidence,
				ModelVersion:     entity.ModelVersionSMA,
				Factors:          factors,
			}
		}
		return points, nil
	})
}
