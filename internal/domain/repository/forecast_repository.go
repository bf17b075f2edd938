package repository

import (
	"context"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// ForecastRepository persiste pronósticos (demand_forecasts).
type ForecastRepository interface {
	// Upsert reemplaza los puntos existentes de (producto, model_version, fecha).
	Upsert(ctx context.Context, productID string, points []entity.ForecastPoint) error
	ListByProduct(ctx context.Context, productID, modelVersion string) ([]entity.ForecastPoint, error)
}
