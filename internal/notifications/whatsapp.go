package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier announces a newly submitted request batch. Implementations are
// best-effort: callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, recipients []string, text string) error
}

// WhatsAppNotifier posts text messages through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client  *http.Client
	baseURL string
	token   string
	phoneID string
	log     *zap.Logger
}

func NewWhatsAppNotifier(token, phoneID string, log *zap.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://graph.facebook.com/v19.0",
		token:   token,
		phoneID: phoneID,
		log:     log,
	}
}

type textMessage struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	Body string `json:"body"`
}

// Send delivers the message to every recipient, continuing past individual
// failures and reporting the last one.
func (n *WhatsAppNotifier) Send(ctx context.Context, recipients []string, text string) error {
	var lastErr error
	for _, recipient := range recipients {
		if err := n.sendOne(ctx, recipient, text); err != nil {
			n.log.Warn("whatsapp notification failed",
				zap.String("recipient", recipient),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (n *WhatsAppNotifier) sendOne(ctx context.Context, recipient, text string) error {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               recipient,
		Type:             "text",
		Text:             textPayload{Body: text},
	})
	if err != nil {
		return fmt.Errorf("unable to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", n.baseURL, n.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to call whatsapp api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// NoopNotifier is used when the WhatsApp settings are not configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, []string, string) error {
	return nil
}
