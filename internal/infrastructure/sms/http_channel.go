// Package sms adaptador HTTP del canal de notificaciones por SMS.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stockwise/internal/application/ports"
)

// Verificar en tiempo de compilación que HTTPChannel implementa NotificationChannel.
var _ ports.NotificationChannel = (*HTTPChannel)(nil)

// maxMessageLen límite de un SMS concatenado (3 segmentos GSM-7).
const maxMessageLen = 459

// HTTPChannel envía un SMS por llamada al endpoint del proveedor, siempre al mismo destinatario.
type HTTPChannel struct {
	endpoint   string
	apiKey     string
	recipient  string
	httpClient *http.Client
}

// NewHTTPChannel construye el adaptador. timeout <= 0 usa 10 s.
func NewHTTPChannel(endpoint, apiKey, recipient string, timeout time.Duration) *HTTPChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChannel{
		endpoint:   endpoint,
		apiKey:     apiKey,
		recipient:  recipient,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Protocolo del proveedor ──────────────────────────────────────────────────

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Send normaliza el texto, lo envía y traduce la respuesta.
// Un HTTP 2xx con success=false se devuelve como resultado sin éxito, no como error.
func (c *HTTPChannel) Send(ctx context.Context, message string) (*ports.SendResult, error) {
	if c.endpoint == "" || c.recipient == "" {
		return nil, fmt.Errorf("SMS: endpoint o destinatario no configurado")
	}
	body, err := json.Marshal(sendRequest{To: c.recipient, Message: Normalize(message)})
	if err != nil {
		return nil, fmt.Errorf("SMS: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("SMS: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("SMS: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("SMS: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return nil, fmt.Errorf("SMS: leer respuesta: %w", err)
	}

	var out sendResponse
	jsonErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if jsonErr == nil && out.Error != "" {
			return nil, fmt.Errorf("SMS: proveedor HTTP %d: %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("SMS: proveedor HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("SMS: deserializar respuesta: %w", jsonErr)
	}

	return &ports.SendResult{
		Success:   out.Success,
		MessageID: out.MessageID,
		Timestamp: time.Now().UTC(),
		Recipient: c.recipient,
		Error:     out.Error,
	}, nil
}

// Normalize quita tildes y diacríticos (muchas operadoras no soportan UCS-2),
// colapsa espacios y recorta al máximo de un SMS concatenado.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Join(strings.Fields(out), " ")
	if r := []rune(out); len(r) > maxMessageLen {
		out = string(r[:maxMessageLen])
	}
	return out
}
