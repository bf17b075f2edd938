package alerts_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/forecast"
)

// ── Productos ────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products []*entity.Product
	err      error
}

func (f *fakeProductRepo) GetAll(context.Context) ([]*entity.Product, error) {
	return f.products, f.err
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProductRepo) UpdateStock(context.Context, string, int) error { return nil }

func (f *fakeProductRepo) UpdateCost(context.Context, string, decimal.Decimal) error { return nil }

// ── Alertas ──────────────────────────────────────────────────────────────────

type fakeAlertRepo struct {
	mu      sync.Mutex
	alerts  map[string]*entity.Alert
	order   []string
	failFor string // product_id cuyo Create falla
	failIDs map[string]bool
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: map[string]*entity.Alert{}, failIDs: map[string]bool{}}
}

func (f *fakeAlertRepo) Create(_ context.Context, a *entity.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ProductID == f.failFor {
		return errors.New("db caída")
	}
	cp := *a
	f.alerts[a.ID] = &cp
	f.order = append(f.order, a.ID)
	return nil
}

func (f *fakeAlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAlertRepo) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	return f.ListByStatus(ctx, entity.AlertStatusActive, 0)
}

func (f *fakeAlertRepo) ListByStatus(_ context.Context, status string, limit int) ([]*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Alert
	for _, id := range f.order {
		a := f.alerts[id]
		if status == "" || a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAlertRepo) FindActive(_ context.Context, productID, alertType string) (*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		a := f.alerts[id]
		if a.ProductID == productID && a.Type == alertType &&
			(a.Status == entity.AlertStatusActive || a.Status == entity.AlertStatusAcknowledged) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAlertRepo) FindResolvedSince(_ context.Context, productID, alertType string, since time.Time) (*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		a := f.alerts[id]
		if a.ProductID == productID && a.Type == alertType && a.ResolvedAt != nil && !a.ResolvedAt.Before(since) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAlertRepo) UpdateStatus(_ context.Context, a *entity.Alert, from string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[a.ID] {
		return errors.New("timeout")
	}
	stored, ok := f.alerts[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != from {
		return domain.ErrConflict
	}
	cp := *a
	f.alerts[a.ID] = &cp
	return nil
}

func (f *fakeAlertRepo) byType(alertType string) []*entity.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Alert
	for _, id := range f.order {
		if f.alerts[id].Type == alertType {
			out = append(out, f.alerts[id])
		}
	}
	return out
}

// ── Pronóstico ───────────────────────────────────────────────────────────────

// fakeForecaster devuelve una demanda diaria fija por producto (0 si no se configuró).
// Entra en panic para panicFor.
type fakeForecaster struct {
	daily    map[string]int
	panicFor string
}

func (f *fakeForecaster) Forecast(_ context.Context, productID string, model forecast.ModelType, horizonDays int, _ forecast.Params) []entity.ForecastPoint {
	if productID == f.panicFor {
		panic("índice fuera de rango")
	}
	points := make([]entity.ForecastPoint, horizonDays)
	for i := range points {
		points[i] = entity.ForecastPoint{
			ForecastedDemand: f.daily[productID],
			ConfidenceLevel:  0.8,
			ModelVersion:     model.Version(),
			Factors:          entity.SMAFactors{},
		}
	}
	return points
}

// ── Notificaciones ───────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []*entity.Alert
}

func (r *recordingNotifier) Notify(a *entity.Alert, _ *entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}
