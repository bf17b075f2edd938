package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/stockwise/internal/bootstrap"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
	"github.com/jhoicas/stockwise/pkg/config"
	"github.com/jhoicas/stockwise/pkg/jwt"
	"github.com/jhoicas/stockwise/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "stockctl",
		Usage: "Operaciones de mantenimiento: barrido de alertas, pronósticos y tokens",
		Commands: []*cli.Command{
			{
				Name:   "sweep",
				Usage:  "Evaluar todo el catálogo y crear alertas nuevas",
				Action: withServices(runSweep),
			},
			{
				Name:   "forecast",
				Usage:  "Pronosticar la demanda diaria de un producto",
				Flags:  forecastFlags(),
				Action: withServices(runForecast),
			},
			{
				Name:  "safety-stock",
				Usage: "Calcular stock de seguridad y punto de reorden",
				Flags: append(forecastFlags(),
					&cli.IntFlag{Name: "lead-time", Usage: "Lead time del proveedor en días", Value: 7},
					&cli.Float64Flag{Name: "service-level", Usage: "Nivel de servicio (0-1)", Value: 0.95},
				),
				Action: withServices(runSafetyStock),
			},
			{
				Name:  "token",
				Usage: "Emitir un JWT de prueba firmado con JWT_SECRET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "sub del token", Required: true},
					&cli.StringFlag{Name: "role", Value: "authenticated"},
					&cli.DurationFlag{Name: "ttl", Value: time.Hour},
				},
				Action: runToken,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func forecastFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "product", Usage: "ID del producto", Required: true},
		&cli.StringFlag{Name: "model", Usage: "sma | seasonal | promotion", Value: string(forecast.ModelSMA)},
		&cli.IntFlag{Name: "horizon", Usage: "Días a pronosticar", Value: forecast.DefaultHorizonDays},
		&cli.IntFlag{Name: "window", Usage: "Ventana del promedio móvil (sma)"},
		&cli.StringFlag{Name: "period", Usage: "weekday | day_of_month (seasonal)"},
	}
}

type action func(c *cli.Context, svc *bootstrap.Services) error

// withServices carga la configuración, arma los servicios y los cierra al terminar.
func withServices(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "stockctl", Out: os.Stderr})
		svc, err := bootstrap.Build(c.Context, cfg, log.Zerolog())
		if err != nil {
			return err
		}
		defer svc.Close()
		return fn(c, svc)
	}
}

func runSweep(c *cli.Context, svc *bootstrap.Services) error {
	res, err := svc.Engine.GenerateAlerts(c.Context)
	if err != nil {
		return err
	}
	return printJSON(res.Summary)
}

func parseForecastFlags(c *cli.Context) (forecast.ModelType, forecast.Params, error) {
	model, err := forecast.ParseModelType(c.String("model"))
	if err != nil {
		return "", forecast.Params{}, err
	}
	return model, forecast.Params{Window: c.Int("window"), SeasonalPeriod: c.String("period")}, nil
}

func runForecast(c *cli.Context, svc *bootstrap.Services) error {
	model, params, err := parseForecastFlags(c)
	if err != nil {
		return err
	}
	points, err := svc.Forecasting.GenerateForecastByModel(c.Context, c.String("product"), model, c.Int("horizon"), params)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"total_demand": forecast.TotalDemand(points),
		"degraded":     forecast.IsDegraded(points),
		"forecasts":    points,
	})
}

func runSafetyStock(c *cli.Context, svc *bootstrap.Services) error {
	model, params, err := parseForecastFlags(c)
	if err != nil {
		return err
	}
	res, err := svc.Forecasting.SafetyStock(c.Context, c.String("product"), model, c.Int("horizon"), params,
		c.Int("lead-time"), c.Float64("service-level"))
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runToken(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret,
		jwt.Identity{UserID: c.String("user"), Role: c.String("role")},
		jwt.VerifyOptions{Issuer: cfg.JWT.Issuer, Audience: cfg.JWT.Audience},
		c.Duration("ttl"),
	)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
