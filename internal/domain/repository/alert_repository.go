package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para alertas de stock.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// ListActive alertas con status = active, más recientes primero.
	ListActive(ctx context.Context) ([]*entity.Alert, error)
	// ListByStatus filtra por estado; status vacío lista todas.
	ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Alert, error)
	// FindActive devuelve una alerta abierta (active o acknowledged) del par (producto, tipo) o nil.
	FindActive(ctx context.Context, productID, alertType string) (*entity.Alert, error)
	// FindResolvedSince devuelve una alerta del par con resolved_at >= since o nil.
	FindResolvedSince(ctx context.Context, productID, alertType string, since time.Time) (*entity.Alert, error)
	// UpdateStatus persiste la transición ya validada por la entidad. Solo actualiza si el
	// estado almacenado sigue siendo fromStatus; si no, devuelve domain.ErrConflict.
	UpdateStatus(ctx context.Context, alert *entity.Alert, fromStatus string) error
}
