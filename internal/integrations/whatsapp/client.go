package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент WhatsApp Business Cloud API
type Client struct {
	baseURL       string
	phoneNumberID string
	token         string
	httpClient    *http.Client
	log           Logger
}

// NewClient создает новый экземпляр клиента WhatsApp
func NewClient(baseURL, phoneNumberID, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		phoneNumberID: phoneNumberID,
		token:         token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendText отправляет текстовое сообщение и возвращает ID сообщения
func (c *Client) SendText(ctx context.Context, phone, body string) (string, error) {
	to, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textMessage{Body: body},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: %s", ErrUnauthorized, apiError(resp.Body))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, apiError(resp.Body))
	default:
		return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, apiError(resp.Body))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInternal, err)
	}
	if len(out.Messages) == 0 {
		return "", fmt.Errorf("%w: empty messages in response", ErrInternal)
	}

	c.log.Info("WhatsApp message sent: to=%s, id=%s", to, out.Messages[0].ID)
	return out.Messages[0].ID, nil
}

// NormalizePhone оставляет только цифры номера (формат E.164 без "+")
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}

func apiError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var e ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(raw)
}
