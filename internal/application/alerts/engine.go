// Package alerts implementa el motor de reglas de alertas de stock y su ciclo de vida.
package alerts

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

// SkipReasonDuplicate motivo registrado cuando un candidato se descarta por duplicado.
const SkipReasonDuplicate = "duplicate"

// Forecaster pronóstico por producto; nunca falla (degrada a ceros).
type Forecaster interface {
	Forecast(ctx context.Context, productID string, model forecast.ModelType, horizonDays int, params forecast.Params) []entity.ForecastPoint
}

// Notifier recibe cada alerta recién creada. No debe bloquear al motor.
type Notifier interface {
	Notify(alert *entity.Alert, product *entity.Product)
}

// Metrics contadores que el motor reporta. Ver infrastructure/metrics.
type Metrics interface {
	AlertCreated(alertType string)
	AlertSkipped(alertType string)
	AlertsDropped(n int)
	SweepCompleted(d time.Duration, err error)
}

// Config parámetros del motor.
type Config struct {
	Cooldown            time.Duration // ventana de enfriamiento tras resolver/descartar
	BatchCap            int           // máximo de alertas nuevas por corrida
	DefaultThreshold    int           // umbral cuando el producto no tiene reorder_level
	ForecastHorizonDays int           // horizonte del SMA para riesgo de quiebre
}

// DefaultConfig valores por defecto del motor.
func DefaultConfig() Config {
	return Config{
		Cooldown:            4 * time.Hour,
		BatchCap:            50,
		DefaultThreshold:    entity.DefaultReorderThreshold,
		ForecastHorizonDays: 7,
	}
}

// SkippedAlert candidato descartado.
type SkippedAlert struct {
	ProductID string
	Type      string
	Reason    string
}

// Summary contadores de una corrida. Los contadores por tipo cuentan alertas creadas.
type Summary struct {
	Evaluated    int
	OutOfStock   int
	StockoutRisk int
	LowStock     int
	Overstock    int
	TotalCreated int
	TotalSkipped int
	Dropped      int
	Errors       int
}

// GenerateResult resultado de GenerateAlerts.
type GenerateResult struct {
	CreatedAlerts []*entity.Alert
	SkippedAlerts []SkippedAlert
	Summary       Summary
}

// candidate alerta propuesta antes de la supresión de duplicados.
type candidate struct {
	product  *entity.Product
	alertTyp string
	severity string
	metadata entity.AlertMetadata
}

// Engine evalúa productos y crea alertas.
type Engine struct {
	products   repository.ProductRepository
	alerts     repository.AlertRepository
	forecaster Forecaster
	notifier   Notifier
	metrics    Metrics
	cfg        Config
	log        zerolog.Logger
	now        func() time.Time
}

// NewEngine construye el motor. notifier y metrics pueden ser nil.
func NewEngine(
	products repository.ProductRepository,
	alerts repository.AlertRepository,
	forecaster Forecaster,
	notifier Notifier,
	metrics Metrics,
	cfg Config,
	log zerolog.Logger,
) *Engine {
	def := DefaultConfig()
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.BatchCap <= 0 {
		cfg.BatchCap = def.BatchCap
	}
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = def.DefaultThreshold
	}
	if cfg.ForecastHorizonDays <= 0 {
		cfg.ForecastHorizonDays = def.ForecastHorizonDays
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Engine{
		products:   products,
		alerts:     alerts,
		forecaster: forecaster,
		notifier:   notifier,
		metrics:    metrics,
		cfg:        cfg,
		log:        log.With().Str("component", "alert_engine").Logger(),
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj del motor (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Barrido completo
// ──────────────────────────────────────────────────────────────────────────────

// GenerateAlerts evalúa todos los productos en orden, uno a la vez, y crea las alertas nuevas.
// Solo devuelve error si no se puede leer el catálogo; los fallos por producto se registran.
func (e *Engine) GenerateAlerts(ctx context.Context) (res *GenerateResult, err error) {
	start := time.Now()
	defer func() { e.metrics.SweepCompleted(time.Since(start), err) }()

	products, err := e.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	res = &GenerateResult{CreatedAlerts: []*entity.Alert{}, SkippedAlerts: []SkippedAlert{}}
	var candidates []candidate
	for _, p := range products {
		res.Summary.Evaluated++
		c, evalErr := e.safeEvaluate(ctx, p)
		if evalErr != nil {
			res.Summary.Errors++
			e.log.Error().Err(evalErr).Str("product_id", p.ID).Msg("error evaluando producto")
			continue
		}
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	for _, c := range candidates {
		dup, dupErr := e.isDuplicate(ctx, c)
		switch {
		case dupErr != nil:
			res.Summary.Errors++
			e.log.Error().Err(dupErr).Str("product_id", c.product.ID).Str("alert_type", c.alertTyp).
				Msg("error verificando duplicados")
			continue
		case dup:
			res.Summary.TotalSkipped++
			res.SkippedAlerts = append(res.SkippedAlerts, SkippedAlert{
				ProductID: c.product.ID, Type: c.alertTyp, Reason: SkipReasonDuplicate,
			})
			continue
		}

		// El límite cuenta solo alertas nuevas: los duplicados no ocupan cupo.
		if res.Summary.TotalCreated >= e.cfg.BatchCap {
			res.Summary.Dropped++
			continue
		}
		alert, createErr := e.create(ctx, c)
		if createErr != nil {
			res.Summary.Errors++
			e.log.Error().Err(createErr).Str("product_id", c.product.ID).Str("alert_type", c.alertTyp).
				Msg("error creando alerta")
			continue
		}
		res.CreatedAlerts = append(res.CreatedAlerts, alert)
		res.Summary.TotalCreated++
		countByType(&res.Summary, alert.Type)
	}

	if res.Summary.Dropped > 0 {
		e.metrics.AlertsDropped(res.Summary.Dropped)
		e.log.Warn().Int("dropped", res.Summary.Dropped).Int("cap", e.cfg.BatchCap).
			Msg("límite de alertas por corrida alcanzado; el resto se evaluará en el próximo barrido")
	}

	e.log.Info().
		Int("evaluated", res.Summary.Evaluated).
		Int("created", res.Summary.TotalCreated).
		Int("skipped", res.Summary.TotalSkipped).
		Int("dropped", res.Summary.Dropped).
		Int("errors", res.Summary.Errors).
		Dur("elapsed", time.Since(start)).
		Msg("generación de alertas completada")
	return res, nil
}

// CheckProduct re-evalúa el umbral de un solo producto (ruta interactiva tras un movimiento).
// Devuelve la alerta creada o nil si no corresponde ninguna (o era duplicada).
func (e *Engine) CheckProduct(ctx context.Context, productID string) (*entity.Alert, error) {
	p, err := e.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	c := e.thresholdCandidate(p)
	if c == nil {
		return nil, nil
	}
	dup, err := e.isDuplicate(ctx, *c)
	if err != nil || dup {
		return nil, err
	}
	return e.create(ctx, *c)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas
// ──────────────────────────────────────────────────────────────────────────────

func (e *Engine) safeEvaluate(ctx context.Context, p *entity.Product) (c *candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("panic evaluando producto: %v", r)
		}
	}()
	return e.evaluate(ctx, p), nil
}

// evaluate aplica las reglas en orden de precedencia:
// out_of_stock > stockout_risk > low_stock > overstock. Como máximo un candidato por producto.
func (e *Engine) evaluate(ctx context.Context, p *entity.Product) *candidate {
	if p.Quantity <= 0 {
		return &candidate{
			product:  p,
			alertTyp: entity.AlertTypeOutOfStock,
			severity: entity.SeverityCritical,
			metadata: entity.OutOfStockMetadata{CurrentStock: p.Quantity, Threshold: p.Threshold(e.cfg.DefaultThreshold)},
		}
	}

	horizon := e.cfg.ForecastHorizonDays
	points := e.forecaster.Forecast(ctx, p.ID, forecast.ModelSMA, horizon, forecast.Params{})
	if forecast.IsDegraded(points) {
		e.log.Warn().Str("product_id", p.ID).Str("error", points[0].Factors.Diag().Error).
			Msg("pronóstico degradado; se continúa con la regla de umbral")
	}
	total := forecast.TotalDemand(points)
	if p.Quantity < total {
		return &candidate{
			product:  p,
			alertTyp: entity.AlertTypeStockoutRisk,
			severity: entity.SeverityHigh,
			metadata: entity.StockoutRiskMetadata{
				CurrentStock:      p.Quantity,
				TotalDemand:       total,
				HorizonDays:       horizon,
				DaysUntilStockout: daysUntilStockout(p.Quantity, total, horizon),
				ModelVersion:      entity.ModelVersionSMA,
			},
		}
	}

	if c := e.thresholdCandidate(p); c != nil {
		return c
	}

	if p.MaxStockLevel > 0 && p.Quantity > p.MaxStockLevel {
		return &candidate{
			product:  p,
			alertTyp: entity.AlertTypeOverstock,
			severity: entity.SeverityMedium,
			metadata: entity.OverstockMetadata{CurrentStock: p.Quantity, MaxStockLevel: p.MaxStockLevel},
		}
	}
	return nil
}

// thresholdCandidate regla simple de umbral: stock <= umbral.
// Un stock exactamente igual al umbral es low_stock; out_of_stock queda reservado para cero.
func (e *Engine) thresholdCandidate(p *entity.Product) *candidate {
	threshold := p.Threshold(e.cfg.DefaultThreshold)
	if p.Quantity > threshold {
		return nil
	}
	if p.Quantity <= 0 {
		return &candidate{
			product:  p,
			alertTyp: entity.AlertTypeOutOfStock,
			severity: entity.SeverityCritical,
			metadata: entity.OutOfStockMetadata{CurrentStock: p.Quantity, Threshold: threshold},
		}
	}
	return &candidate{
		product:  p,
		alertTyp: entity.AlertTypeLowStock,
		severity: entity.SeverityHigh,
		metadata: entity.LowStockMetadata{CurrentStock: p.Quantity, Threshold: threshold},
	}
}

// daysUntilStockout = floor(stock / (totalDemand / horizonDays)).
func daysUntilStockout(stock, totalDemand, horizonDays int) int {
	if totalDemand <= 0 || horizonDays <= 0 {
		return 0
	}
	daily := float64(totalDemand) / float64(horizonDays)
	return int(math.Floor(float64(stock) / daily))
}

// ──────────────────────────────────────────────────────────────────────────────
// Supresión de duplicados y creación
// ──────────────────────────────────────────────────────────────────────────────

// isDuplicate consulta si existe una alerta abierta o resuelta dentro de la ventana de
// enfriamiento para (producto, tipo). La consulta y el insert posterior no son atómicos:
// dos evaluaciones concurrentes del mismo producto pueden crear dos alertas.
func (e *Engine) isDuplicate(ctx context.Context, c candidate) (bool, error) {
	existing, err := e.alerts.FindActive(ctx, c.product.ID, c.alertTyp)
	if err != nil {
		return false, fmt.Errorf("buscar alerta activa: %w", err)
	}
	if existing == nil {
		existing, err = e.alerts.FindResolvedSince(ctx, c.product.ID, c.alertTyp, e.now().Add(-e.cfg.Cooldown))
		if err != nil {
			return false, fmt.Errorf("buscar alerta resuelta: %w", err)
		}
	}
	if existing == nil {
		return false, nil
	}
	e.metrics.AlertSkipped(c.alertTyp)
	e.log.Debug().Str("product_id", c.product.ID).Str("alert_type", c.alertTyp).
		Str("existing_alert_id", existing.ID).Msg("alerta omitida: duplicada")
	return true, nil
}

// create inserta la alerta y la entrega al notificador.
func (e *Engine) create(ctx context.Context, c candidate) (*entity.Alert, error) {
	title, message := describe(c)
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: c.product.ID,
		Type:      c.alertTyp,
		Severity:  c.severity,
		Title:     title,
		Message:   message,
		Status:    entity.AlertStatusActive,
		Metadata:  c.metadata,
		CreatedAt: e.now(),
	}
	if err := e.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("crear alerta: %w", err)
	}
	e.metrics.AlertCreated(alert.Type)
	e.log.Info().Str("alert_id", alert.ID).Str("product_id", alert.ProductID).
		Str("alert_type", alert.Type).Str("severity", alert.Severity).Msg("alerta creada")

	e.notifier.Notify(alert, c.product)
	return alert, nil
}

func describe(c candidate) (title, message string) {
	p := c.product
	switch m := c.metadata.(type) {
	case entity.OutOfStockMetadata:
		return fmt.Sprintf("Sin stock: %s", p.Name),
			fmt.Sprintf("%s (SKU %s) no tiene unidades disponibles.", p.Name, p.SKU)
	case entity.StockoutRiskMetadata:
		return fmt.Sprintf("Riesgo de quiebre: %s", p.Name),
			fmt.Sprintf("Demanda estimada de %d unidades en %d días frente a %d en stock; se agotaría en unos %d días.",
				m.TotalDemand, m.HorizonDays, m.CurrentStock, m.DaysUntilStockout)
	case entity.LowStockMetadata:
		return fmt.Sprintf("Stock bajo: %s", p.Name),
			fmt.Sprintf("Quedan %d unidades de %s (umbral %d).", m.CurrentStock, p.Name, m.Threshold)
	case entity.OverstockMetadata:
		return fmt.Sprintf("Sobrestock: %s", p.Name),
			fmt.Sprintf("Hay %d unidades de %s, por encima del máximo de %d.", m.CurrentStock, p.Name, m.MaxStockLevel)
	}
	return p.Name, c.alertTyp
}

func countByType(s *Summary, alertType string) {
	switch alertType {
	case entity.AlertTypeOutOfStock:
		s.OutOfStock++
	case entity.AlertTypeStockoutRisk:
		s.StockoutRisk++
	case entity.AlertTypeLowStock:
		s.LowStock++
	case entity.AlertTypeOverstock:
		s.Overstock++
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(*entity.Alert, *entity.Product) {}

type noopMetrics struct{}

func (noopMetrics) AlertCreated(string)                 {}
func (noopMetrics) AlertSkipped(string)                 {}
func (noopMetrics) AlertsDropped(int)                   {}
func (noopMetrics) SweepCompleted(time.Duration, error) {}
