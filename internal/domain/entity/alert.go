package entity

import (
	"time"

	"github.com/jhoicas/stockwise/internal/domain"
)

// Tipos de alerta de stock.
const (
	AlertTypeLowStock     = "low_stock"
	AlertTypeOutOfStock   = "out_of_stock"
	AlertTypeStockoutRisk = "stockout_risk"
	AlertTypeOverstock    = "overstock"
)

// Severidades.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Estados del ciclo de vida de una alerta.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusDismissed    = "dismissed"
	AlertStatusResolved     = "resolved"
)

// DisplayAlertTypes tipos que se muestran en el feed principal de la UI.
var DisplayAlertTypes = []string{AlertTypeLowStock, AlertTypeOutOfStock, AlertTypeStockoutRisk}

// Alert representa una alerta de stock para un producto.
// Como máximo debe existir una alerta activa por (ProductID, Type); la garantía es best-effort.
type Alert struct {
	ID             string
	ProductID      string
	Type           string
	Severity       string
	Title          string
	Message        string
	Status         string
	Metadata       AlertMetadata
	CreatedAt      time.Time
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	ResolvedBy     string
	ResolvedAt     *time.Time // también se fija al descartar (ventana de enfriamiento)
}

// IsDisplayType indica si el tipo de alerta aparece en el feed principal.
func IsDisplayType(alertType string) bool {
	for _, t := range DisplayAlertTypes {
		if t == alertType {
			return true
		}
	}
	return false
}

// IsValidAlertStatus valida un estado de alerta.
func IsValidAlertStatus(s string) bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusDismissed, AlertStatusResolved:
		return true
	}
	return false
}

// Acknowledge marca la alerta como vista. Solo desde active.
func (a *Alert) Acknowledge(actor string, now time.Time) error {
	if a.Status != AlertStatusActive {
		return domain.ErrInvalidTransition
	}
	a.Status = AlertStatusAcknowledged
	a.AcknowledgedBy = actor
	a.AcknowledgedAt = &now
	return nil
}

// Resolve cierra la alerta (terminal). Permitido desde active o acknowledged.
func (a *Alert) Resolve(actor string, now time.Time) error {
	if !a.isOpen() {
		return domain.ErrInvalidTransition
	}
	a.Status = AlertStatusResolved
	a.ResolvedBy = actor
	a.ResolvedAt = &now
	return nil
}

// Dismiss descarta la alerta. Para la supresión de duplicados cuenta igual que resolved.
func (a *Alert) Dismiss(actor string, now time.Time) error {
	if !a.isOpen() {
		return domain.ErrInvalidTransition
	}
	a.Status = AlertStatusDismissed
	a.ResolvedBy = actor
	a.ResolvedAt = &now
	return nil
}

func (a *Alert) isOpen() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}
