package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// TelegramPublisher alerts a chat whenever the engine emits a recommendation.
type TelegramPublisher struct {
	BotToken string
	ChatID   string
	Client   *http.Client
	Retries  int
}

// NewTelegramPublisher creates a publisher for the given bot and chat.
func NewTelegramPublisher(botToken, chatID string) *TelegramPublisher {
	return &TelegramPublisher{
		BotToken: botToken,
		ChatID:   chatID,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Retries:  3,
	}
}

func (t *TelegramPublisher) Name() string { return "telegram" }

// Publish formats the recommendation and sends it with retry.
func (t *TelegramPublisher) Publish(ctx context.Context, rec *model.TradeRecommendation) error {
	return t.SendWithRetry(ctx, FormatRecommendation(rec), t.Retries)
}

// Send sends a message to the configured chat.
func (t *TelegramPublisher) Send(text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramPublisher) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("telegram send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
