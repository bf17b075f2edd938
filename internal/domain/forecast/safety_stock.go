package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// SafetyStockResult stock de seguridad y punto de reorden derivados de un pronóstico.
type SafetyStockResult struct {
	SafetyStock    int     `json:"safety_stock"`
	ReorderPoint   int     `json:"reorder_point"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	StdDev         float64 `json:"std_dev"`
	ZScore         float64 `json:"z_score"`
	LeadTimeDays   int     `json:"lead_time_days"`
	ServiceLevel   float64 `json:"service_level"`
	Explanation    string  `json:"explanation"`
}

// ZScore aproxima el z-score de un nivel de servicio (0.90, 0.95, 0.99; cualquier otro = 1.0).
func ZScore(serviceLevel float64) float64 {
	const eps = 1e-9
	switch {
	case math.Abs(serviceLevel-0.90) < eps:
		return 1.28
	case math.Abs(serviceLevel-0.95) < eps:
		return 1.645
	case math.Abs(serviceLevel-0.99) < eps:
		return 2.33
	}
	return 1.0
}

// CalculateDynamicSafetyStock calcula:
//
//	safety_stock  = ceil(z * std * sqrt(leadTime))
//	reorder_point = ceil(avgDailyDemand * leadTime + safety_stock)
//
// con media y desviación poblacional de forecasted_demand. Sin datos devuelve ceros.
func CalculateDynamicSafetyStock(points []entity.ForecastPoint, leadTimeDays int, serviceLevel float64) SafetyStockResult {
	res := SafetyStockResult{LeadTimeDays: leadTimeDays, ServiceLevel: serviceLevel, ZScore: ZScore(serviceLevel)}
	if len(points) == 0 {
		res.Explanation = "sin datos de pronóstico: stock de seguridad y punto de reorden en cero"
		return res
	}
	lead := float64(leadTimeDays)
	if lead < 0 {
		lead = 0
	}

	demand := make([]float64, len(points))
	for i, p := range points {
		demand[i] = float64(p.ForecastedDemand)
	}
	res.AvgDailyDemand = mean(demand)
	res.StdDev = stdDev(demand)
	res.SafetyStock = int(math.Ceil(res.ZScore * res.StdDev * math.Sqrt(lead)))
	res.ReorderPoint = int(math.Ceil(res.AvgDailyDemand*lead + float64(res.SafetyStock)))
	res.Explanation = fmt.Sprintf(
		"demanda diaria promedio %.2f (σ %.2f) sobre %d días de pronóstico; z=%.3f para nivel de servicio %.0f%% y lead time de %d días",
		res.AvgDailyDemand, res.StdDev, len(points), res.ZScore, serviceLevel*100, leadTimeDays,
	)
	return res
}

// ScenarioPoint demanda original y ajustada para una fecha.
type ScenarioPoint struct {
	ForecastDate   time.Time `json:"forecast_date"`
	OriginalDemand int       `json:"original_demand"`
	AdjustedDemand int       `json:"adjusted_demand"`
	Difference     int       `json:"difference"`
}

// ScenarioResult impacto de un crecimiento porcentual uniforme sobre el pronóstico.
type ScenarioResult struct {
	GrowthPercentage float64         `json:"growth_percentage"`
	Forecasts        []ScenarioPoint `json:"forecasts"`
	OriginalTotal    int             `json:"original_total"`
	AdjustedTotal    int             `json:"adjusted_total"`
	DifferenceTotal  int             `json:"difference_total"`
}

// CalculateScenarioImpact aplica round(demanda * (1 + growth/100)) a cada punto y compara totales.
func CalculateScenarioImpact(points []entity.ForecastPoint, growthPercentage float64) ScenarioResult {
	res := ScenarioResult{GrowthPercentage: growthPercentage, Forecasts: make([]ScenarioPoint, 0, len(points))}
	factor := 1 + growthPercentage/100
	for _, p := range points {
		adjusted := nonNegativeRound(float64(p.ForecastedDemand) * factor)
		res.Forecasts = append(res.Forecasts, ScenarioPoint{
			ForecastDate:   p.ForecastDate,
			OriginalDemand: p.ForecastedDemand,
			AdjustedDemand: adjusted,
			Difference:     adjusted - p.ForecastedDemand,
		})
		res.OriginalTotal += p.ForecastedDemand
		res.AdjustedTotal += adjusted
	}
	res.DifferenceTotal = res.AdjustedTotal - res.OriginalTotal
	return res
}
