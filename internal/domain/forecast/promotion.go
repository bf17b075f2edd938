package forecast

import (
	"fmt"
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// PromotionAware separa los últimos 180 días en días de promoción y días base.
// Fuera de promoción proyecta el promedio base (confianza 0.7); dentro de una promoción
// conocida lo multiplica por su expected_lift (confianza 0.9).
func PromotionAware(txs []entity.Transaction, horizonDays int, params Params, now time.Time) []entity.ForecastPoint {
	return safely(ModelPromotion, horizonDays, now, func(h int) ([]entity.ForecastPoint, error) {
		promos, err := normalizePromotions(params.Promotions)
		if err != nil {
			return nil, err
		}

		series := buildDailySeries(txs, now, PromotionLookbackDays)
		if series.empty() {
			return Degraded(ModelPromotion, h, now, entity.Diagnostics{Reason: ReasonNoHistory}), nil
		}

		var baseline []float64
		promoDays := 0
		for i, v := range series.values {
			if _, ok := findPromotion(promos, series.day(i)); ok {
				promoDays++
				continue
			}
			baseline = append(baseline, v)
		}
		baselineAvg := mean(baseline)
		if len(baseline) == 0 {
			baselineAvg = mean(series.values)
		}

		today := entity.TruncateDay(now)
		points := make([]entity.ForecastPoint, h)
		for k := 1; k <= h; k++ {
			date := today.AddDate(0, 0, k)
			factors := entity.PromotionFactors{
				BaselineAverage: baselineAvg,
				PromotionDays:   promoDays,
				BaselineDays:    len(baseline),
			}
			demand := baselineAvg
			confidence := 0.7
			if p, ok := findPromotion(promos, date); ok {
				demand = baselineAvg * p.ExpectedLift
				confidence = 0.9
				factors.InPromotion = true
				factors.PromotionName = p.Name
				factors.Lift = p.ExpectedLift
			}
			points[k-1] = entity.ForecastPoint{
				ForecastDate:     date,
				ForecastedDemand: nonNegativeRound(demand),
				ConfidenceLevel:  confidence,
				ModelVersion:     entity.ModelVersionPromotion,
				Factors:          factors,
			}
		}
		return points, nil
	})
}

func normalizePromotions(in []entity.Promotion) ([]entity.Promotion, error) {
	out := make([]entity.Promotion, 0, len(in))
	for _, p := range in {
		if p.EndDate.Before(p.StartDate) {
			return nil, fmt.Errorf("promoción %q: end_date anterior a start_date", p.Name)
		}
		if p.ExpectedLift <= 0 {
			p.ExpectedLift = DefaultLift
		}
		out = append(out, p)
	}
	return out, nil
}

// findPromotion devuelve la primera promoción que contiene el día.
func findPromotion(promos []entity.Promotion, day time.Time) (entity.Promotion, bool) {
	for _, p := range promos {
		if p.Contains(day) {
			return p, true
		}
	}
	return entity.Promotion{}, false
}
