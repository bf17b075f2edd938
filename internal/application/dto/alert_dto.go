package dto

import (
	"time"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// AlertResponse alerta expuesta por la API.
type AlertResponse struct {
	ID             string               `json:"id"`
	ProductID      string               `json:"product_id"`
	Type           string               `json:"type"`
	Severity       string               `json:"severity"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	Status         string               `json:"status"`
	Metadata       entity.AlertMetadata `json:"metadata,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	AcknowledgedBy string               `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time           `json:"acknowledged_at,omitempty"`
	ResolvedBy     string               `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time           `json:"resolved_at,omitempty"`
}

// ToAlertResponse mapea la entidad al DTO.
func ToAlertResponse(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		Type:           a.Type,
		Severity:       a.Severity,
		Title:          a.Title,
		Message:        a.Message,
		Status:         a.Status,
		Metadata:       a.Metadata,
		CreatedAt:      a.CreatedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
	}
}

// ToAlertResponses mapea una lista de entidades.
func ToAlertResponses(list []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAlertResponse(a))
	}
	return out
}

// SkippedAlertDTO candidato descartado por supresión de duplicados.
type SkippedAlertDTO struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

// AlertSummaryDTO contadores de una corrida de generación.
type AlertSummaryDTO struct {
	Evaluated    int `json:"evaluated"`
	OutOfStock   int `json:"out_of_stock"`
	StockoutRisk int `json:"stockout_risk"`
	LowStock     int `json:"low_stock"`
	Overstock    int `json:"overstock"`
	TotalCreated int `json:"total_created"`
	TotalSkipped int `json:"total_skipped"`
	Dropped      int `json:"dropped"`
	Errors       int `json:"errors"`
}

// GenerateAlertsResponse respuesta de POST /api/alerts/generate.
type GenerateAlertsResponse struct {
	CreatedAlerts []AlertResponse   `json:"created_alerts"`
	SkippedAlerts []SkippedAlertDTO `json:"skipped_alerts"`
	Summary       AlertSummaryDTO   `json:"summary"`
}

// MarkAllReadResponse resultado de POST /api/alerts/mark-all-read.
type MarkAllReadResponse struct {
	Acknowledged int `json:"acknowledged"`
	Failed       int `json:"failed"`
}
