// Package forecast contiene los modelos de pronóstico de demanda y las calculadoras
// de stock de seguridad. Son funciones puras: reciben el historial de transacciones y
// un instante de referencia, y nunca fallan hacia el llamador.
package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// ModelType etiqueta de selección de modelo.
type ModelType string

const (
	ModelSMA       ModelType = "sma"
	ModelSeasonal  ModelType = "seasonal"
	ModelPromotion ModelType = "promotion"
)

// Ventanas de historial por modelo (días).
const (
	SMALookbackDays       = 90
	SeasonalLookbackDays  = 365
	PromotionLookbackDays = 180
)

const (
	DefaultHorizonDays = 30
	MaxHorizonDays     = 365
	DefaultSMAWindow   = 7
	MinSMAWindow       = 3
	MaxSMAWindow       = 30
	DefaultLift        = 1.5

	ReasonNoHistory = "no_history"
)

// Periodos del perfil estacional.
const (
	PeriodWeekday    = "weekday"
	PeriodDayOfMonth = "day_of_month"
)

// Params parámetros opcionales de los modelos. Los campos que no aplican se ignoran.
type Params struct {
	Window         int                // SMA: ventana del promedio móvil (3-30, 0 = 7)
	SeasonalPeriod string             // Seasonal: weekday | day_of_month ("" = weekday)
	Promotions     []entity.Promotion // Promotion: ventanas promocionales conocidas
}

// ParseModelType valida la etiqueta de modelo.
func ParseModelType(s string) (ModelType, error) {
	switch m := ModelType(strings.ToLower(strings.TrimSpace(s))); m {
	case ModelSMA, ModelSeasonal, ModelPromotion:
		return m, nil
	case "":
		return ModelSMA, nil
	}
	return "", fmt.Errorf("%w: modelo %q", domain.ErrInvalidInput, s)
}

// Version devuelve la etiqueta model_version que llevan los puntos del modelo.
func (m ModelType) Version() string {
	switch m {
	case ModelSeasonal:
		return entity.ModelVersionSeasonal
	case ModelPromotion:
		return entity.ModelVersionPromotion
	}
	return entity.ModelVersionSMA
}

// LookbackDays historial que consume el modelo.
func (m ModelType) LookbackDays() int {
	switch m {
	case ModelSeasonal:
		return SeasonalLookbackDays
	case ModelPromotion:
		return PromotionLookbackDays
	}
	return SMALookbackDays
}

// NormalizeHorizon aplica el horizonte por defecto y el máximo.
func NormalizeHorizon(h int) int {
	if h < 1 {
		return DefaultHorizonDays
	}
	if h > MaxHorizonDays {
		return MaxHorizonDays
	}
	return h
}

// Run ejecuta el modelo indicado. Siempre devuelve NormalizeHorizon(horizonDays) puntos.
func Run(model ModelType, txs []entity.Transaction, horizonDays int, params Params, now time.Time) []entity.ForecastPoint {
	switch model {
	case ModelSMA:
		return SMA(txs, horizonDays, params, now)
	case ModelSeasonal:
		return Seasonal(txs, horizonDays, params, now)
	case ModelPromotion:
		return PromotionAware(txs, horizonDays, params, now)
	}
	return Degraded(ModelSMA, horizonDays, now, entity.Diagnostics{Error: fmt.Sprintf("modelo desconocido: %q", model)})
}

// Degraded devuelve una secuencia plana en cero con confianza 0.5 y el diagnóstico dado.
func Degraded(model ModelType, horizonDays int, now time.Time, d entity.Diagnostics) []entity.ForecastPoint {
	horizonDays = NormalizeHorizon(horizonDays)
	factors := factorsWith(model, d)
	today := entity.TruncateDay(now)
	points := make([]entity.ForecastPoint, horizonDays)
	for i := range points {
		points[i] = entity.ForecastPoint{
			ForecastDate:     today.AddDate(0, 0, i+1),
			ForecastedDemand: 0,
			ConfidenceLevel:  0.5,
			ModelVersion:     model.Version(),
			Factors:          factors,
		}
	}
	return points
}

// IsDegraded indica si la secuencia proviene de un error de cálculo.
func IsDegraded(points []entity.ForecastPoint) bool {
	if len(points) == 0 || points[0].Factors == nil {
		return false
	}
	return points[0].Factors.Diag().Error != ""
}

// TotalDemand suma la demanda pronosticada de la secuencia.
func TotalDemand(points []entity.ForecastPoint) int {
	total := 0
	for _, p := range points {
		total += p.ForecastedDemand
	}
	return total
}

// safely convierte errores y panics del cálculo en la secuencia degradada.
func safely(model ModelType, horizonDays int, now time.Time, fn func(h int) ([]entity.ForecastPoint, error)) (points []entity.ForecastPoint) {
	h := NormalizeHorizon(horizonDays)
	defer func() {
		if r := recover(); r != nil {
			points = Degraded(model, h, now, entity.Diagnostics{Error: fmt.Sprintf("panic: %v", r)})
		}
	}()
	points, err := fn(h)
	if err != nil {
		return Degraded(model, h, now, entity.Diagnostics{Error: err.Error()})
	}
	return points
}

func factorsWith(model ModelType, d entity.Diagnostics) entity.Factors {
	switch model {
	case ModelSeasonal:
		return entity.SeasonalFactors{Diagnostics: d}
	case ModelPromotion:
		return entity.PromotionFactors{Diagnostics: d}
	}
	return entity.SMAFactors{Diagnostics: d}
}
