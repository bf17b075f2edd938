package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/application/ports"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

const defaultQueueSize = 256

// Metrics contadores de entregas.
type Metrics interface {
	NotificationSent()
	NotificationFailed()
}

// DispatcherConfig parámetros del despachador.
type DispatcherConfig struct {
	Throttle    time.Duration // pausa entre envíos consecutivos
	SendTimeout time.Duration // timeout de cada llamada al canal; 0 = sin límite propio
	QueueSize   int
}

type job struct {
	alert   *entity.Alert
	product *entity.Product
}

// Dispatcher entrega notificaciones con una cola y un único worker.
// Notify nunca bloquea: si la cola está llena el mensaje se descarta con un warning.
// Los fallos del canal se registran y no afectan a la alerta ya persistida.
type Dispatcher struct {
	channel ports.NotificationChannel
	metrics Metrics
	cfg     DispatcherConfig
	log     zerolog.Logger

	queue     chan job
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewDispatcher construye el despachador. metrics puede ser nil.
func NewDispatcher(channel ports.NotificationChannel, metrics Metrics, cfg DispatcherConfig, log zerolog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Dispatcher{
		channel: channel,
		metrics: metrics,
		cfg:     cfg,
		log:     log.With().Str("component", "notification_dispatcher").Logger(),
		queue:   make(chan job, cfg.QueueSize),
	}
}

// Start lanza el worker. ctx se usa como base de cada envío; cancelarlo aborta los envíos en curso.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.run(ctx)
	})
}

// Notify encola la alerta para envío.
func (d *Dispatcher) Notify(alert *entity.Alert, product *entity.Product) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("alert_id", alert.ID).Msg("despachador cerrado; notificación descartada")
		return
	}
	select {
	case d.queue <- job{alert: alert, product: product}:
	default:
		d.metrics.NotificationFailed()
		d.log.Warn().Str("alert_id", alert.ID).Int("queue_size", cap(d.queue)).
			Msg("cola de notificaciones llena; notificación descartada")
	}
}

// Close deja de aceptar notificaciones, drena la cola y espera al worker.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	first := true
	for j := range d.queue {
		if !first && d.cfg.Throttle > 0 {
			select {
			case <-time.After(d.cfg.Throttle):
			case <-ctx.Done():
			}
		}
		first = false
		d.deliver(ctx, j)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	sendCtx := ctx
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}
	msg := FormatStockAlert(j.alert, j.product)
	res, err := SendSMS(sendCtx, d.channel, msg)
	if err != nil {
		d.metrics.NotificationFailed()
		d.log.Error().Err(err).Str("alert_id", j.alert.ID).Str("product_id", j.alert.ProductID).
			Msg("fallo enviando notificación")
		return
	}
	d.metrics.NotificationSent()
	d.log.Info().Str("alert_id", j.alert.ID).Str("message_id", res.MessageID).Str("recipient", res.Recipient).
		Msg("notificación enviada")
}

type noopMetrics struct{}

func (noopMetrics) NotificationSent()   {}
func (noopMetrics) NotificationFailed() {}
