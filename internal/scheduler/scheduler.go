// Package scheduler ejecuta trabajos periódicos identificados por nombre.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrJobExists       = errors.New("scheduler: ya existe un trabajo con ese id")
	ErrInvalidInterval = errors.New("scheduler: el intervalo debe ser > 0")
)

// JobFunc cuerpo de un trabajo. El ctx no se cancela al detenerlo: una ejecución
// en curso siempre termina.
type JobFunc func(ctx context.Context) error

type job struct {
	stop chan struct{}
	done chan struct{}
}

// Scheduler cada trabajo corre en su propia goroutine con un ticker; una ejecución
// nunca se solapa con la siguiente del mismo trabajo.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		jobs: make(map[string]*job),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start programa fn cada interval. La primera ejecución ocurre tras un intervalo.
func (s *Scheduler) Start(id string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; ok {
		return ErrJobExists
	}
	j := &job{stop: make(chan struct{}), done: make(chan struct{})}
	s.jobs[id] = j

	go s.loop(j, id, interval, fn)
	s.log.Info().Str("job", id).Dur("interval", interval).Msg("trabajo programado")
	return nil
}

func (s *Scheduler) loop(j *job, id string, interval time.Duration, fn JobFunc) {
	defer close(j.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			// Stop pudo llegar junto con el tick: no se inicia otra ejecución.
			select {
			case <-j.stop:
				return
			default:
			}
			s.run(context.Background(), id, fn)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, id string, fn JobFunc) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", id).Interface("panic", r).Msg("panic en trabajo programado")
		}
	}()
	start := time.Now()
	if err := fn(ctx); err != nil {
		s.log.Error().Err(err).Str("job", id).Msg("trabajo programado falló")
		return
	}
	s.log.Debug().Str("job", id).Dur("took", time.Since(start)).Msg("trabajo programado completado")
}

// Stop detiene el ticker y espera a que termine la ejecución en curso, sin cancelarla.
// Devuelve false si el id no existía.
func (s *Scheduler) Stop(id string) bool {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	close(j.stop)
	<-j.done
	s.log.Info().Str("job", id).Msg("trabajo detenido")
	return true
}

// StopAll detiene todos los trabajos.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Stop(id)
	}
}

func (s *Scheduler) Running(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	return ok
}
