// Package metrics contadores Prometheus del servicio sobre un registry propio.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stockwise/internal/application/alerts"
	"github.com/jhoicas/stockwise/internal/application/forecasting"
	"github.com/jhoicas/stockwise/internal/application/notification"
)

var (
	_ alerts.Metrics       = (*Registry)(nil)
	_ notification.Metrics = (*Registry)(nil)
	_ forecasting.Metrics  = (*Registry)(nil)
)

const namespace = "stockwise"

// Registry agrupa las métricas. Un *Registry nil es válido y no registra nada.
type Registry struct {
	reg *prometheus.Registry

	AlertsCreated       *prometheus.CounterVec
	AlertsSkipped       *prometheus.CounterVec
	DroppedCandidates   prometheus.Counter
	SweepDuration       prometheus.Histogram
	SweepErrors         prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	ForecastsDegraded   *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "alerts_created_total", Help: "Alertas creadas por tipo.",
	}, []string{"type"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "alerts_skipped_total", Help: "Candidatos omitidos por duplicado o enfriamiento.",
	}, []string{"type"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "alerts_dropped_total", Help: "Candidatos descartados por el límite del lote.",
	})
	sweep := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "alerts_sweep_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	sweepErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "alerts_sweep_errors_total",
	})
	sent := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "notifications_sent_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "notifications_failed_total"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "forecasts_degraded_total", Help: "Pronósticos que cayeron al resultado de cero demanda.",
	}, []string{"model"})

	r.MustRegister(created, skipped, dropped, sweep, sweepErrors, sent, failed, degraded)
	return &Registry{
		reg:                 r,
		AlertsCreated:       created,
		AlertsSkipped:       skipped,
		DroppedCandidates:   dropped,
		SweepDuration:       sweep,
		SweepErrors:         sweepErrors,
		NotificationsSent:   sent,
		NotificationsFailed: failed,
		ForecastsDegraded:   degraded,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

func (r *Registry) AlertCreated(alertType string) {
	if r == nil {
		return
	}
	r.AlertsCreated.WithLabelValues(alertType).Inc()
}

func (r *Registry) AlertSkipped(alertType string) {
	if r == nil {
		return
	}
	r.AlertsSkipped.WithLabelValues(alertType).Inc()
}

func (r *Registry) AlertsDropped(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.DroppedCandidates.Add(float64(n))
}

func (r *Registry) SweepCompleted(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.SweepDuration.Observe(d.Seconds())
	if err != nil {
		r.SweepErrors.Inc()
	}
}

func (r *Registry) NotificationSent() {
	if r == nil {
		return
	}
	r.NotificationsSent.Inc()
}

func (r *Registry) NotificationFailed() {
	if r == nil {
		return
	}
	r.NotificationsFailed.Inc()
}

func (r *Registry) ForecastDegraded(model string) {
	if r == nil {
		return
	}
	r.ForecastsDegraded.WithLabelValues(model).Inc()
}
