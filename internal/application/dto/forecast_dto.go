package dto

import (
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// PromotionRequest ventana promocional en el body (fechas YYYY-MM-DD).
type PromotionRequest struct {
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	ExpectedLift float64 `json:"expected_lift"`
}

// ForecastRequest body para POST /api/forecasts.
type ForecastRequest struct {
	ProductID      string             `json:"product_id"`
	Model          string             `json:"model"` // sma | seasonal | promotion
	HorizonDays    int                `json:"horizon_days"`
	Window         int                `json:"window,omitempty"`
	SeasonalPeriod string             `json:"seasonal_period,omitempty"`
	Promotions     []PromotionRequest `json:"promotions,omitempty"`
}

// SafetyStockRequest body para POST /api/forecasts/safety-stock.
type SafetyStockRequest struct {
	ForecastRequest
	LeadTimeDays int     `json:"lead_time_days"`
	ServiceLevel float64 `json:"service_level"`
}

// ScenarioRequest body para POST /api/forecasts/scenario.
type ScenarioRequest struct {
	ForecastRequest
	GrowthPercentage float64 `json:"growth_percentage"`
}

// ForecastResponse pronóstico generado.
type ForecastResponse struct {
	ProductID   string                 `json:"product_id"`
	Model       string                 `json:"model"`
	HorizonDays int                    `json:"horizon_days"`
	TotalDemand int                    `json:"total_demand"`
	Degraded    bool                   `json:"degraded"`
	GeneratedAt time.Time              `json:"generated_at"`
	Forecasts   []entity.ForecastPoint `json:"forecasts"`
}
