package sms

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/application/ports"
)

var _ ports.NotificationChannel = (*LogChannel)(nil)

// LogChannel canal de desarrollo: escribe el mensaje en el log en lugar de enviarlo.
type LogChannel struct {
	recipient string
	log       zerolog.Logger
}

func NewLogChannel(recipient string, log zerolog.Logger) *LogChannel {
	return &LogChannel{recipient: recipient, log: log.With().Str("component", "sms_log").Logger()}
}

func (c *LogChannel) Send(_ context.Context, message string) (*ports.SendResult, error) {
	res := &ports.SendResult{
		Success:   true,
		MessageID: uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Recipient: c.recipient,
	}
	c.log.Info().Str("message_id", res.MessageID).Str("to", c.recipient).Msg(Normalize(message))
	return res, nil
}
