package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Versiones de modelo de pronóstico (etiqueta model_version de cada punto).
const (
	ModelVersionSMA       = "sma-v1"
	ModelVersionSeasonal  = "seasonal-v1"
	ModelVersionPromotion = "promotion-v1"
)

// ForecastPoint predicción de demanda para un día.
type ForecastPoint struct {
	ForecastDate     time.Time `json:"forecast_date"`
	ForecastedDemand int       `json:"forecasted_demand"`
	ConfidenceLevel  float64   `json:"confidence_level"` // [0.5, 1.0]
	ModelVersion     string    `json:"model_version"`
	Factors          Factors   `json:"factors"`
}

// Factors diagnóstico de un modelo; la forma depende de ModelVersion.
type Factors interface {
	Diag() Diagnostics
}

// Diagnostics campos comunes a todos los modelos.
// Reason explica un resultado degradado esperado (ej. no_history); Error uno inesperado.
type Diagnostics struct {
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SMAFactors diagnóstico del promedio móvil simple.
type SMAFactors struct {
	Diagnostics
	Window         int     `json:"window"`
	LatestAverage  float64 `json:"latest_average"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	VarianceFactor float64 `json:"variance_factor"`
	HistoryFactor  float64 `json:"history_factor"`
	DaysWithSales  int     `json:"days_with_sales"`
	HistoryDays    int     `json:"history_days"`
}

// SeasonalFactors diagnóstico del modelo estacional.
type SeasonalFactors struct {
	Diagnostics
	Period     string  `json:"period"` // weekday | day_of_month
	Slot       int     `json:"slot"`
	Multiplier float64 `json:"multiplier"`
	Trend      float64 `json:"trend"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
}

// PromotionFactors diagnóstico del modelo con promociones.
type PromotionFactors struct {
	Diagnostics
	BaselineAverage float64 `json:"baseline_average"`
	InPromotion     bool    `json:"in_promotion"`
	PromotionName   string  `json:"promotion_name,omitempty"`
	Lift            float64 `json:"lift,omitempty"`
	PromotionDays   int     `json:"promotion_days"`
	BaselineDays    int     `json:"baseline_days"`
}

func (f SMAFactors) Diag() Diagnostics       { return f.Diagnostics }
func (f SeasonalFactors) Diag() Diagnostics  { return f.Diagnostics }
func (f PromotionFactors) Diag() Diagnostics { return f.Diagnostics }

// Promotion ventana promocional conocida, con fechas inclusivas.
type Promotion struct {
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ExpectedLift float64   `json:"expected_lift"` // 0 = usar 1.5
}

// Contains indica si day (truncado a fecha) cae dentro de la promoción.
func (p Promotion) Contains(day time.Time) bool {
	d := TruncateDay(day)
	return !d.Before(TruncateDay(p.StartDate)) && !d.After(TruncateDay(p.EndDate))
}

// TruncateDay normaliza un instante al inicio de su día en UTC.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// UnmarshalJSON decodifica Factors según model_version.
func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	type alias ForecastPoint
	aux := struct {
		*alias
		Factors json.RawMessage `json:"factors"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f, err := DecodeFactors(p.ModelVersion, aux.Factors)
	if err != nil {
		return err
	}
	p.Factors = f
	return nil
}

// DecodeFactors reconstruye los factores tipados a partir de la versión del modelo.
func DecodeFactors(modelVersion string, raw []byte) (Factors, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch modelVersion {
	case ModelVersionSMA:
		var f SMAFactors
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode factors %s: %w", modelVersion, err)
		}
		return f, nil
	case ModelVersionSeasonal:
		var f SeasonalFactors
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode factors %s: %w", modelVersion, err)
		}
		return f, nil
	case ModelVersionPromotion:
		var f PromotionFactors
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode factors %s: %w", modelVersion, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("versión de modelo desconocida: %q", modelVersion)
}
