package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// Seasonal combina una tendencia lineal (OLS sobre el índice diario de los últimos 365 días)
// con un multiplicador estacional por día de la semana o del mes.
// demanda = max(0, round(trend(t) * multiplicador(slot))).
func Seasonal(txs []entity.Transaction, horizonDays int, params Params, now time.Time) []entity.ForecastPoint {
	return safely(ModelSeasonal, horizonDays, now, func(h int) ([]entity.ForecastPoint, error) {
		period := params.SeasonalPeriod
		if period == "" {
			period = PeriodWeekday
		}
		slotOf, err := slotFunc(period)
		if err != nil {
			return nil, err
		}

		series := buildDailySeries(txs, now, SeasonalLookbackDays)
		if series.empty() {
			return Degraded(ModelSeasonal, h, now, entity.Diagnostics{Reason: ReasonNoHistory}), nil
		}

		sums := make(map[int]float64)
		counts := make(map[int]int)
		for i, v := range series.values {
			s := slotOf(series.day(i))
			sums[s] += v
			counts[s]++
		}
		overall := mean(series.values)
		multiplier := func(slot int) float64 {
			if counts[slot] == 0 || overall <= 0 {
				return 1
			}
			return (sums[slot] / float64(counts[slot])) / overall
		}

		slope, intercept := linearTrend(series.values)
		confidence := clamp(1-math.Abs(slope)/(math.Abs(slope)+10), 0.6, 1.0)

		n := len(series.values)
		today := entity.TruncateDay(now)
		points := make([]entity.ForecastPoint, h)
		for k := 1; k <= h; k++ {
			date := today.AddDate(0, 0, k)
			t := float64(n - 1 + k)
			trend := intercept + slope*t
			slot := slotOf(date)
			mult := multiplier(slot)
			points[k-1] = entity.ForecastPoint{
				ForecastDate:     date,
				ForecastedDemand: nonNegativeRound(trend * mult),
				ConfidenceLevel:  confidence,
				ModelVersion:     entity.ModelVersionSeasonal,
				Factors: entity.SeasonalFactors{
					Period:     period,
					Slot:       slot,
					Multiplier: mult,
					Trend:      trend,
					Slope:      slope,
					Intercept:  intercept,
				},
			}
		}
		return points, nil
	})
}

func slotFunc(period string) (func(time.Time) int, error) {
	switch period {
	case PeriodWeekday:
		return func(d time.Time) int { return int(d.Weekday()) }, nil
	case PeriodDayOfMonth:
		return func(d time.Time) int { return d.Day() }, nil
	}
	return nil, fmt.Errorf("periodo estacional desconocido: %q", period)
}
