package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo persistencia de pronósticos (tabla demand_forecasts).
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador. Pasar pool o tx (Querier).
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

// Upsert inserta o reemplaza cada punto por (product_id, model_version, forecast_date).
func (r *ForecastRepo) Upsert(ctx context.Context, productID string, points []entity.ForecastPoint) error {
	query := `
		INSERT INTO demand_forecasts (product_id, forecast_date, forecasted_demand, confidence_level, model_version, factors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (product_id, model_version, forecast_date)
		DO UPDATE SET forecasted_demand = EXCLUDED.forecasted_demand,
		              confidence_level = EXCLUDED.confidence_level,
		              factors = EXCLUDED.factors,
		              created_at = EXCLUDED.created_at`
	for _, p := range points {
		factors, err := json.Marshal(p.Factors)
		if err != nil {
			return fmt.Errorf("marshal forecast factors: %w", err)
		}
		if _, err := r.q.Exec(ctx, query, productID, p.ForecastDate, p.ForecastedDemand,
			p.ConfidenceLevel, p.ModelVersion, factors); err != nil {
			return fmt.Errorf("upsert forecast: %w", err)
		}
	}
	return nil
}

// ListByProduct pronósticos futuros guardados de un producto para una versión de modelo.
func (r *ForecastRepo) ListByProduct(ctx context.Context, productID, modelVersion string) ([]entity.ForecastPoint, error) {
	query := `
		SELECT forecast_date, forecasted_demand, confidence_level, model_version, factors
		FROM demand_forecasts
		WHERE product_id = $1 AND model_version = $2 AND forecast_date > CURRENT_DATE
		ORDER BY forecast_date ASC`
	rows, err := r.q.Query(ctx, query, productID, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()
	var list []entity.ForecastPoint
	for rows.Next() {
		var p entity.ForecastPoint
		var factors []byte
		if err := rows.Scan(&p.ForecastDate, &p.ForecastedDemand, &p.ConfidenceLevel, &p.ModelVersion, &factors); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		f, err := entity.DecodeFactors(p.ModelVersion, factors)
		if err != nil {
			return nil, err
		}
		p.Factors = f
		list = append(list, p)
	}
	return list, rows.Err()
}
