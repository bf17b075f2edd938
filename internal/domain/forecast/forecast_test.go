package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
)

// now fijo: martes 31/03/2026 al mediodía UTC.
var now = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func out(qty int, at time.Time) entity.Transaction {
	return entity.Transaction{ProductID: "p1", Type: entity.TransactionTypeOut, Quantity: qty, CreatedAt: at}
}

// dailySales genera una salida de qty por día para los días [from, to] hacia atrás.
func dailySales(qty, from, to int) []entity.Transaction {
	var txs []entity.Transaction
	for d := from; d >= to; d-- {
		txs = append(txs, out(qty, daysAgo(d)))
	}
	return txs
}

var allModels = []forecast.ModelType{forecast.ModelSMA, forecast.ModelSeasonal, forecast.ModelPromotion}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades comunes
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_SinHistorial_DevuelveCerosConConfianzaMinima(t *testing.T) {
	for _, m := range allModels {
		t.Run(string(m), func(t *testing.T) {
			points := forecast.Run(m, nil, 14, forecast.Params{}, now)
			require.Len(t, points, 14)
			for _, p := range points {
				assert.Equal(t, 0, p.ForecastedDemand)
				assert.Equal(t, 0.5, p.ConfidenceLevel)
				assert.Equal(t, m.Version(), p.ModelVersion)
				assert.Equal(t, forecast.ReasonNoHistory, p.Factors.Diag().Reason)
			}
			assert.False(t, forecast.IsDegraded(points), "sin historial no es un error de cálculo")
		})
	}
}

func TestRun_SoloEntradasCuentaComoSinHistorial(t *testing.T) {
	txs := []entity.Transaction{
		{Type: entity.TransactionTypeIn, Quantity: 50, CreatedAt: daysAgo(3)},
		{Type: entity.TransactionTypeRestock, Quantity: 20, CreatedAt: daysAgo(1)},
	}
	points := forecast.SMA(txs, 7, forecast.Params{}, now)
	require.Len(t, points, 7)
	assert.Equal(t, 0, forecast.TotalDemand(points))
	assert.Equal(t, forecast.ReasonNoHistory, points[0].Factors.Diag().Reason)
}

func TestRun_NoNegativoYConfianzaEnRango(t *testing.T) {
	histories := map[string][]entity.Transaction{
		"constante":   dailySales(5, 40, 0),
		"decreciente": decreasing(),
		"esporádica":  {out(100, daysAgo(60)), out(1, daysAgo(2))},
		"antigua":     {out(30, daysAgo(170))},
	}
	params := forecast.Params{Promotions: []entity.Promotion{{
		Name: "black-friday", StartDate: now.AddDate(0, 0, 2), EndDate: now.AddDate(0, 0, 4), ExpectedLift: 3,
	}}}
	for name, txs := range histories {
		for _, m := range allModels {
			t.Run(name+"/"+string(m), func(t *testing.T) {
				points := forecast.Run(m, txs, 30, params, now)
				require.Len(t, points, 30)
				for _, p := range points {
					assert.GreaterOrEqual(t, p.ForecastedDemand, 0)
					assert.GreaterOrEqual(t, p.ConfidenceLevel, 0.5)
					assert.LessOrEqual(t, p.ConfidenceLevel, 1.0)
				}
			})
		}
	}
}

// decreasing produce ventas que caen rápido para forzar una tendencia negativa.
func decreasing() []entity.Transaction {
	var txs []entity.Transaction
	for d := 60; d >= 0; d-- {
		txs = append(txs, out(d, daysAgo(d)))
	}
	return txs
}

func TestRun_FechasComienzanMañana(t *testing.T) {
	points := forecast.Run(forecast.ModelSMA, dailySales(3, 10, 0), 3, forecast.Params{}, now)
	require.Len(t, points, 3)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), points[0].ForecastDate)
	assert.Equal(t, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), points[2].ForecastDate)
}

func TestRun_HorizonteInvalidoUsaDefault(t *testing.T) {
	assert.Len(t, forecast.Run(forecast.ModelSMA, nil, 0, forecast.Params{}, now), forecast.DefaultHorizonDays)
	assert.Len(t, forecast.Run(forecast.ModelSMA, nil, 1000, forecast.Params{}, now), forecast.MaxHorizonDays)
}

func TestRun_ModeloDesconocidoDegrada(t *testing.T) {
	points := forecast.Run("arima", dailySales(3, 10, 0), 5, forecast.Params{}, now)
	require.Len(t, points, 5)
	assert.True(t, forecast.IsDegraded(points))
	assert.Equal(t, 0, forecast.TotalDemand(points))
}

func TestParseModelType(t *testing.T) {
	m, err := forecast.ParseModelType(" Seasonal ")
	require.NoError(t, err)
	assert.Equal(t, forecast.ModelSeasonal, m)

	m, err = forecast.ParseModelType("")
	require.NoError(t, err)
	assert.Equal(t, forecast.ModelSMA, m)

	_, err = forecast.ParseModelType("prophet")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// SMA
// ──────────────────────────────────────────────────────────────────────────────

func TestSMA_ProyeccionPlana(t *testing.T) {
	txs := append(dailySales(2, 13, 7), dailySales(9, 6, 0)...)
	txs = append(txs, out(40, daysAgo(20)))
	points := forecast.SMA(txs, 10, forecast.Params{Window: 7}, now)
	require.Len(t, points, 10)
	first := points[0].ForecastedDemand
	for _, p := range points {
		assert.Equal(t, first, p.ForecastedDemand, "todas las predicciones del SMA deben ser iguales")
		assert.Equal(t, points[0].ConfidenceLevel, p.ConfidenceLevel)
	}
	assert.Equal(t, 9, first, "promedio de la última ventana de 7 días")
}

func TestSMA_ConfianzaSegunVarianzaEHistorial(t *testing.T) {
	// 10 días con 10 unidades: varianza 0, historyFactor = 10/30.
	points := forecast.SMA(dailySales(10, 9, 0), 7, forecast.Params{}, now)
	require.Len(t, points, 7)
	assert.Equal(t, 10, points[0].ForecastedDemand)
	assert.InDelta(t, 0.5+0.5*(10.0/30.0), points[0].ConfidenceLevel, 1e-9)

	f, ok := points[0].Factors.(entity.SMAFactors)
	require.True(t, ok)
	assert.Equal(t, 10, f.DaysWithSales)
	assert.Equal(t, 7, f.Window)
	assert.InDelta(t, 1.0, f.VarianceFactor, 1e-9)
}

func TestSMA_IgnoraVentasFueraDeVentana(t *testing.T) {
	txs := []entity.Transaction{out(500, daysAgo(120)), out(4, daysAgo(1))}
	points := forecast.SMA(txs, 3, forecast.Params{Window: 3}, now)
	f := points[0].Factors.(entity.SMAFactors)
	assert.Equal(t, 2, f.HistoryDays, "la serie empieza en la primera salida dentro de los 90 días")
	assert.Equal(t, 1, f.DaysWithSales)
}

func TestSMA_VentanaFueraDeRangoSeAcota(t *testing.T) {
	points := forecast.SMA(dailySales(1, 40, 0), 3, forecast.Params{Window: 90}, now)
	assert.Equal(t, forecast.MaxSMAWindow, points[0].Factors.(entity.SMAFactors).Window)

	points = forecast.SMA(dailySales(1, 40, 0), 3, forecast.Params{Window: 1}, now)
	assert.Equal(t, forecast.MinSMAWindow, points[0].Factors.(entity.SMAFactors).Window)
}

func TestSMA_CuentaEtiquetasDeSalidaHeredadas(t *testing.T) {
	txs := []entity.Transaction{
		{Type: entity.TransactionTypeSold, Quantity: 6, CreatedAt: daysAgo(1)},
		{Type: entity.TransactionTypeTransferOut, Quantity: 6, CreatedAt: daysAgo(0)},
		{Type: entity.TransactionTypeDamaged, Quantity: 100, CreatedAt: daysAgo(0)},
	}
	points := forecast.SMA(txs, 1, forecast.Params{}, now)
	assert.Equal(t, 6, points[0].ForecastedDemand)
}

// ──────────────────────────────────────────────────────────────────────────────
// Seasonal
// ──────────────────────────────────────────────────────────────────────────────

func TestSeasonal_DemandaConstante(t *testing.T) {
	points := forecast.Seasonal(dailySales(7, 27, 0), 14, forecast.Params{}, now)
	require.Len(t, points, 14)
	for _, p := range points {
		assert.Equal(t, 7, p.ForecastedDemand)
		assert.InDelta(t, 1.0, p.ConfidenceLevel, 1e-9, "sin pendiente la confianza es máxima")
	}
}

func TestSeasonal_PerfilSemanal(t *testing.T) {
	// Ventas solo los lunes durante 8 semanas.
	var txs []entity.Transaction
	for w := 0; w < 8; w++ {
		txs = append(txs, out(14, daysAgo(1+7*w)))
	}
	points := forecast.Seasonal(txs, 7, forecast.Params{SeasonalPeriod: forecast.PeriodWeekday}, now)
	require.Len(t, points, 7)
	for _, p := range points {
		if p.ForecastDate.Weekday() == time.Monday {
			assert.Greater(t, p.ForecastedDemand, 0, "los lunes concentran la demanda")
		} else {
			assert.Equal(t, 0, p.ForecastedDemand, "%s sin ventas históricas", p.ForecastDate.Weekday())
		}
	}
}

func TestSeasonal_TendenciaCreciente(t *testing.T) {
	var txs []entity.Transaction
	for d := 59; d >= 0; d-- {
		txs = append(txs, out(60-d, daysAgo(d))) // 1..60
	}
	points := forecast.Seasonal(txs, 10, forecast.Params{SeasonalPeriod: forecast.PeriodDayOfMonth}, now)
	require.Len(t, points, 10)
	assert.Greater(t, points[9].Factors.(entity.SeasonalFactors).Trend, points[0].Factors.(entity.SeasonalFactors).Trend)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.ConfidenceLevel, 0.6)
	}
}

func TestSeasonal_PeriodoDesconocidoDegrada(t *testing.T) {
	points := forecast.Seasonal(dailySales(7, 27, 0), 5, forecast.Params{SeasonalPeriod: "fortnight"}, now)
	require.Len(t, points, 5)
	assert.True(t, forecast.IsDegraded(points))
	assert.Equal(t, 0.5, points[0].ConfidenceLevel)
	assert.Contains(t, points[0].Factors.Diag().Error, "fortnight")
}

// ──────────────────────────────────────────────────────────────────────────────
// Promotion
// ──────────────────────────────────────────────────────────────────────────────

func TestPromotionAware_BaseExcluyeDiasDePromocion(t *testing.T) {
	txs := dailySales(10, 29, 0)
	txs = append(txs, dailySales(20, 14, 10)...) // promo pasada: 30/día
	params := forecast.Params{Promotions: []entity.Promotion{
		{Name: "pasada", StartDate: daysAgo(14), EndDate: daysAgo(10)},
		{Name: "pascua", StartDate: now.AddDate(0, 0, 3), EndDate: now.AddDate(0, 0, 5), ExpectedLift: 2},
	}}
	points := forecast.PromotionAware(txs, 7, params, now)
	require.Len(t, points, 7)

	for i, p := range points {
		day := i + 1
		f := p.Factors.(entity.PromotionFactors)
		assert.InDelta(t, 10.0, f.BaselineAverage, 1e-9)
		assert.Equal(t, 5, f.PromotionDays)
		if day >= 3 && day <= 5 {
			assert.Equal(t, 20, p.ForecastedDemand)
			assert.Equal(t, 0.9, p.ConfidenceLevel)
			assert.Equal(t, "pascua", f.PromotionName)
		} else {
			assert.Equal(t, 10, p.ForecastedDemand)
			assert.Equal(t, 0.7, p.ConfidenceLevel)
			assert.False(t, f.InPromotion)
		}
	}
}

func TestPromotionAware_LiftPorDefecto(t *testing.T) {
	params := forecast.Params{Promotions: []entity.Promotion{
		{Name: "flash", StartDate: now.AddDate(0, 0, 1), EndDate: now.AddDate(0, 0, 1)},
	}}
	points := forecast.PromotionAware(dailySales(4, 9, 0), 2, params, now)
	assert.Equal(t, 6, points[0].ForecastedDemand, "4 * 1.5")
	assert.Equal(t, 4, points[1].ForecastedDemand)
}

func TestPromotionAware_SoloDiasDePromocionUsaPromedioGeneral(t *testing.T) {
	params := forecast.Params{Promotions: []entity.Promotion{
		{Name: "todo", StartDate: daysAgo(30), EndDate: daysAgo(0)},
	}}
	points := forecast.PromotionAware(dailySales(8, 5, 0), 1, params, now)
	assert.Equal(t, 8, points[0].ForecastedDemand)
}

func TestPromotionAware_VentanaInvalidaDegrada(t *testing.T) {
	params := forecast.Params{Promotions: []entity.Promotion{
		{Name: "al-revés", StartDate: now.AddDate(0, 0, 5), EndDate: now.AddDate(0, 0, 1)},
	}}
	points := forecast.PromotionAware(dailySales(8, 5, 0), 4, params, now)
	require.Len(t, points, 4)
	assert.True(t, forecast.IsDegraded(points))
	for _, p := range points {
		assert.Equal(t, 0, p.ForecastedDemand)
		assert.Equal(t, 0.5, p.ConfidenceLevel)
	}
}
