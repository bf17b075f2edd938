package alerts

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

// markAllReadConcurrency máximo de reconocimientos simultáneos en MarkAllRead.
const markAllReadConcurrency = 8

// defaultListLimit límite de ListAll cuando no se indica.
const defaultListLimit = 100

// LifecycleService transiciones de estado de alertas y lecturas para la UI.
type LifecycleService struct {
	alerts repository.AlertRepository
	log    zerolog.Logger
	now    func() time.Time
}

// NewLifecycleService construye el servicio.
func NewLifecycleService(alerts repository.AlertRepository, log zerolog.Logger) *LifecycleService {
	return &LifecycleService{
		alerts: alerts,
		log:    log.With().Str("component", "alert_lifecycle").Logger(),
		now:    time.Now,
	}
}

// WithClock reemplaza el reloj del servicio (tests).
func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// MarkAllReadResult conteo de un "marcar todo como leído".
type MarkAllReadResult struct {
	Acknowledged int
	Failed       int
}

// Acknowledge active → acknowledged.
func (s *LifecycleService) Acknowledge(ctx context.Context, id, actor string) (*entity.Alert, error) {
	return s.transition(ctx, id, func(a *entity.Alert, now time.Time) error { return a.Acknowledge(actor, now) })
}

// Resolve active|acknowledged → resolved. Abre la ventana de enfriamiento.
func (s *LifecycleService) Resolve(ctx context.Context, id, actor string) (*entity.Alert, error) {
	return s.transition(ctx, id, func(a *entity.Alert, now time.Time) error { return a.Resolve(actor, now) })
}

// Dismiss active|acknowledged → dismissed. Cuenta como resuelta para el enfriamiento.
func (s *LifecycleService) Dismiss(ctx context.Context, id, actor string) (*entity.Alert, error) {
	return s.transition(ctx, id, func(a *entity.Alert, now time.Time) error { return a.Dismiss(actor, now) })
}

func (s *LifecycleService) transition(ctx context.Context, id string, apply func(*entity.Alert, time.Time) error) (*entity.Alert, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener alerta: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	from := a.Status
	if err := apply(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.alerts.UpdateStatus(ctx, a, from); err != nil {
		return nil, fmt.Errorf("actualizar estado de alerta: %w", err)
	}
	s.log.Info().Str("alert_id", a.ID).Str("from", from).Str("to", a.Status).Msg("estado de alerta actualizado")
	return a, nil
}

// MarkAllRead reconoce en paralelo todas las alertas activas visibles.
// Best-effort: los fallos individuales se registran y cuentan, no abortan el resto.
func (s *LifecycleService) MarkAllRead(ctx context.Context, actor string) (MarkAllReadResult, error) {
	active, err := s.ListActive(ctx)
	if err != nil {
		return MarkAllReadResult{}, err
	}

	var acked, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(markAllReadConcurrency)
	for _, a := range active {
		id := a.ID
		g.Go(func() error {
			if _, err := s.Acknowledge(gctx, id, actor); err != nil {
				failed.Add(1)
				s.log.Warn().Err(err).Str("alert_id", id).Msg("no se pudo reconocer la alerta")
				return nil
			}
			acked.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return MarkAllReadResult{Acknowledged: int(acked.Load()), Failed: int(failed.Load())}, nil
}

// ListActive alertas activas de los tipos que muestra el feed principal.
func (s *LifecycleService) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	list, err := s.alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar alertas activas: %w", err)
	}
	out := make([]*entity.Alert, 0, len(list))
	for _, a := range list {
		if entity.IsDisplayType(a.Type) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListAll alertas de cualquier tipo filtradas por estado (vacío = todas).
func (s *LifecycleService) ListAll(ctx context.Context, status string, limit int) ([]*entity.Alert, error) {
	if status != "" && !entity.IsValidAlertStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	list, err := s.alerts.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}
	return list, nil
}
