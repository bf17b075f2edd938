package forecast

import (
	"math"
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// dailySeries ventas diarias densas (días sin ventas = 0) desde el primer día con
// salidas dentro de la ventana hasta hoy, inclusive.
type dailySeries struct {
	start  time.Time
	values []float64
}

func (s dailySeries) empty() bool { return len(s.values) == 0 }

func (s dailySeries) day(i int) time.Time { return s.start.AddDate(0, 0, i) }

// buildDailySeries agrega las salidas por día dentro de los últimos lookbackDays.
func buildDailySeries(txs []entity.Transaction, now time.Time, lookbackDays int) dailySeries {
	today := entity.TruncateDay(now)
	from := today.AddDate(0, 0, -lookbackDays)

	sums := make(map[time.Time]float64)
	var first time.Time
	for i := range txs {
		tx := &txs[i]
		if !tx.IsOutbound() {
			continue
		}
		d := entity.TruncateDay(tx.CreatedAt)
		if d.Before(from) || d.After(today) {
			continue
		}
		sums[d] += math.Abs(float64(tx.Quantity))
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	if first.IsZero() {
		return dailySeries{}
	}

	n := daysBetween(first, today) + 1
	values := make([]float64, n)
	for d, v := range sums {
		values[daysBetween(first, d)] = v
	}
	return dailySeries{start: first, values: values}
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev desviación estándar poblacional.
func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var acc float64
	for _, x := range xs {
		acc += (x - m) * (x - m)
	}
	return math.Sqrt(acc / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// nonNegativeRound redondea al entero más cercano con piso en cero.
func nonNegativeRound(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	return int(math.Round(x))
}

// linearTrend ajuste por mínimos cuadrados y = intercept + slope*x sobre x = 0..n-1.
func linearTrend(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if len(ys) < 2 {
		return 0, mean(ys)
	}
	xMean := (n - 1) / 2
	yMean := mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}
