// Package bootstrap arma el grafo de dependencias compartido por cmd/api y cmd/stockctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/application/alerts"
	"github.com/jhoicas/stockwise/internal/application/forecasting"
	"github.com/jhoicas/stockwise/internal/application/inventory"
	"github.com/jhoicas/stockwise/internal/application/notification"
	"github.com/jhoicas/stockwise/internal/application/ports"
	"github.com/jhoicas/stockwise/internal/infrastructure/cache"
	"github.com/jhoicas/stockwise/internal/infrastructure/metrics"
	"github.com/jhoicas/stockwise/internal/infrastructure/postgres"
	"github.com/jhoicas/stockwise/internal/infrastructure/sms"
	"github.com/jhoicas/stockwise/pkg/config"
)

// Services casos de uso listos para usar. Close libera pool, caché y despachador.
type Services struct {
	Metrics      *metrics.Registry
	Engine       *alerts.Engine
	Lifecycle    *alerts.LifecycleService
	Forecasting  *forecasting.UseCase
	Transactions *inventory.TransactionUseCase
	Dispatcher   *notification.Dispatcher

	pool       *pgxpool.Pool
	closeCache func() error
	log        zerolog.Logger
}

// Build conecta PostgreSQL y Redis y construye los casos de uso. El despachador
// de notificaciones queda iniciado con ctx.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}

	forecastCache, closeCache, err := cache.NewForecastCache(ctx, cfg.Cache, log)
	if err != nil {
		// La caché es opcional: sin Redis se pronostica siempre desde el historial.
		log.Warn().Err(err).Msg("redis no disponible; caché de pronósticos deshabilitada")
		forecastCache, closeCache = cache.NewNoopForecastCache(), func() error { return nil }
	}

	reg := metrics.NewRegistry()
	productRepo := postgres.NewProductRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)

	dispatcher := notification.NewDispatcher(newChannel(cfg.SMS, log), reg, notification.DispatcherConfig{
		Throttle:    cfg.Alerts.DispatchThrottle,
		SendTimeout: cfg.SMS.Timeout,
	}, log)
	dispatcher.Start(ctx)

	forecastUC := forecasting.NewUseCase(productRepo, txRepo, forecastRepo, forecastCache, reg, log)
	engine := alerts.NewEngine(productRepo, alertRepo, forecastUC, dispatcher, reg, alerts.Config{
		Cooldown:            cfg.Alerts.Cooldown,
		BatchCap:            cfg.Alerts.BatchCap,
		DefaultThreshold:    cfg.Alerts.DefaultThreshold,
		ForecastHorizonDays: cfg.Alerts.ForecastHorizonDays,
	}, log)
	transactions := inventory.NewTransactionUseCase(postgres.NewTxRunner(pool), productRepo, txRepo, engine, log).
		WithForecastInvalidator(forecastCache)

	return &Services{
		Metrics:      reg,
		Engine:       engine,
		Lifecycle:    alerts.NewLifecycleService(alertRepo, log),
		Forecasting:  forecastUC,
		Transactions: transactions,
		Dispatcher:   dispatcher,
		pool:         pool,
		closeCache:   closeCache,
		log:          log,
	}, nil
}

func newChannel(cfg config.SMSConfig, log zerolog.Logger) ports.NotificationChannel {
	if !cfg.Enabled {
		log.Info().Msg("SMS deshabilitado; las notificaciones se escriben en el log")
		return sms.NewLogChannel(cfg.Recipient, log)
	}
	return sms.NewHTTPChannel(cfg.Endpoint, cfg.APIKey, cfg.Recipient, cfg.Timeout)
}

// Close drena las notificaciones pendientes y cierra las conexiones.
func (s *Services) Close() {
	s.Dispatcher.Close()
	if err := s.closeCache(); err != nil {
		s.log.Warn().Err(err).Msg("cerrar redis")
	}
	s.pool.Close()
}
