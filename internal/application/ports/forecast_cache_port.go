package ports

import (
	"context"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// ForecastCacheKey identifica un pronóstico cacheable.
type ForecastCacheKey struct {
	ProductID   string
	Model       string
	HorizonDays int
	// Params representación estable de los parámetros del modelo (ventana, periodo, promociones).
	Params string
}

// ForecastCache puerto de caché de pronósticos. Get devuelve ok=false en un miss.
// Las implementaciones no deben fallar la operación del caller por errores del backend.
type ForecastCache interface {
	Get(ctx context.Context, key ForecastCacheKey) ([]entity.ForecastPoint, bool)
	Set(ctx context.Context, key ForecastCacheKey, points []entity.ForecastPoint)
	// InvalidateProduct descarta todos los pronósticos cacheados del producto.
	InvalidateProduct(ctx context.Context, productID string)
}
