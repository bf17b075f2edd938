package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockwise/internal/bootstrap"
	httpRouter "github.com/jhoicas/stockwise/internal/interfaces/http"
	"github.com/jhoicas/stockwise/internal/scheduler"
	"github.com/jhoicas/stockwise/pkg/config"
	"github.com/jhoicas/stockwise/pkg/jwt"
	"github.com/jhoicas/stockwise/pkg/logger"
)

const sweepJobID = "alerts-sweep"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := bootstrap.Build(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar servicios")
	}

	sched := scheduler.New(log.Component("scheduler"))
	if cfg.Alerts.SweepEnabled {
		err := sched.Start(sweepJobID, cfg.Alerts.SweepInterval, func(ctx context.Context) error {
			_, err := svc.Engine.GenerateAlerts(ctx)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("programar barrido de alertas")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Engine:         svc.Engine,
		Lifecycle:      svc.Lifecycle,
		Forecasts:      svc.Forecasting,
		Transactions:   svc.Transactions,
		MetricsHandler: svc.Metrics.Handler(),
		JWTSecret:      cfg.JWT.Secret,
		JWTVerify:      jwt.VerifyOptions{Issuer: cfg.JWT.Issuer, Audience: cfg.JWT.Audience},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.StopAll()
	svc.Close()

	log.Info().Msg("aplicación detenida")
}
