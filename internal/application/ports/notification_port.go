package ports

import (
	"context"
	"time"
)

// SendResult respuesta del canal de notificación para un mensaje.
type SendResult struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Recipient string    `json:"recipient"`
	Error     string    `json:"error,omitempty"`
}

// NotificationChannel define el puerto de salida hacia el proveedor de mensajería (SMS).
// Un mensaje por llamada, hacia el único destinatario configurado en el adaptador.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type NotificationChannel interface {
	Send(ctx context.Context, message string) (*SendResult, error)
}
