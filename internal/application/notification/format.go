// Package notification formatea alertas y las entrega al canal externo sin bloquear al motor.
package notification

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockwise/internal/application/ports"
	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// FormatStockAlert arma el texto del SMS. Si product es nil se omite el bloque del producto.
func FormatStockAlert(alert *entity.Alert, product *entity.Product) string {
	if product == nil {
		return fmt.Sprintf("STOCK ALERT: %s. Please reorder soon.", alert.Title)
	}
	return fmt.Sprintf("STOCK ALERT: %s. Product: %s (SKU: %s). Please reorder soon.",
		alert.Title, product.Name, product.SKU)
}

// SendSMS envía un mensaje por el canal y convierte una respuesta sin éxito en error.
func SendSMS(ctx context.Context, ch ports.NotificationChannel, message string) (*ports.SendResult, error) {
	res, err := ch.Send(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("enviar sms: %w", err)
	}
	if res == nil || !res.Success {
		detail := ""
		if res != nil && res.Error != "" {
			detail = ": " + res.Error
		}
		return res, fmt.Errorf("%w%s", domain.ErrNotificationFailed, detail)
	}
	return res, nil
}
