package entity

import (
	"encoding/json"
	"fmt"
)

// AlertMetadata datos de diagnóstico de una alerta. Cada tipo de alerta tiene su propia forma.
type AlertMetadata interface {
	AlertType() string
}

// OutOfStockMetadata stock agotado.
type OutOfStockMetadata struct {
	CurrentStock int `json:"current_stock"`
	Threshold    int `json:"threshold"`
}

// StockoutRiskMetadata la demanda pronosticada supera el stock actual dentro del horizonte.
type StockoutRiskMetadata struct {
	CurrentStock      int    `json:"current_stock"`
	TotalDemand       int    `json:"total_demand"`
	HorizonDays       int    `json:"horizon_days"`
	DaysUntilStockout int    `json:"days_until_stockout"`
	ModelVersion      string `json:"model_version"`
}

// LowStockMetadata stock en o por debajo del umbral de reorden.
type LowStockMetadata struct {
	CurrentStock int `json:"current_stock"`
	Threshold    int `json:"threshold"`
}

// OverstockMetadata stock por encima del máximo configurado.
type OverstockMetadata struct {
	CurrentStock  int `json:"current_stock"`
	MaxStockLevel int `json:"max_stock_level"`
}

func (OutOfStockMetadata) AlertType() string   { return AlertTypeOutOfStock }
func (StockoutRiskMetadata) AlertType() string { return AlertTypeStockoutRisk }
func (LowStockMetadata) AlertType() string     { return AlertTypeLowStock }
func (OverstockMetadata) AlertType() string    { return AlertTypeOverstock }

// DecodeAlertMetadata reconstruye la metadata tipada a partir del tipo de alerta y el JSON persistido.
// raw vacío o "null" devuelve nil sin error.
func DecodeAlertMetadata(alertType string, raw []byte) (AlertMetadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var md AlertMetadata
	switch alertType {
	case AlertTypeOutOfStock:
		var m OutOfStockMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", alertType, err)
		}
		md = m
	case AlertTypeStockoutRisk:
		var m StockoutRiskMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", alertType, err)
		}
		md = m
	case AlertTypeLowStock:
		var m LowStockMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", alertType, err)
		}
		md = m
	case AlertTypeOverstock:
		var m OverstockMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", alertType, err)
		}
		md = m
	default:
		return nil, fmt.Errorf("tipo de alerta desconocido: %q", alertType)
	}
	return md, nil
}
