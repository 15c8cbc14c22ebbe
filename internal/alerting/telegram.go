package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tathienbao/trading-server/internal/types"
)

// TelegramConfig holds the credentials of the bot that delivers messages.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

// TelegramNotifier sends trade summaries and operational warnings to a
// Telegram chat. Sends are rate limited; messages over the limit are dropped
// and logged instead.
type TelegramNotifier struct {
	cfg     TelegramConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
}

// NewTelegramNotifier creates a notifier for the given bot.
func NewTelegramNotifier(cfg TelegramConfig, logger *slog.Logger) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramNotifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 5),
		logger:  logger,
		baseURL: "https://api.telegram.org",
	}
}

// TradeCompleted implements TraderNotifier.
func (n *TelegramNotifier) TradeCompleted(trade types.CompletedTrade) {
	state := "canceled"
	if trade.WasOpened() {
		state = "closed"
	}
	n.send(fmt.Sprintf("Trade %s %s: %s %s, volume %d",
		trade.ID, state, trade.Type, trade.Symbol, trade.Volume))
}

// InformalEvent implements AdminNotifier. Informational events stay off the
// chat; they would drown out the messages that matter.
func (n *TelegramNotifier) InformalEvent(string) {}

// UnexpectedEvent implements AdminNotifier.
func (n *TelegramNotifier) UnexpectedEvent(message string, cause error) {
	if cause != nil {
		message = fmt.Sprintf("%s (%v)", message, cause)
	}
	n.send("Unexpected: " + message)
}

// UnrecoverableError implements AdminNotifier.
func (n *TelegramNotifier) UnrecoverableError(message string, cause error) {
	n.send(fmt.Sprintf("FATAL: %s (%v)", message, cause))
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (n *TelegramNotifier) send(text string) {
	if !n.limiter.Allow() {
		n.logger.Warn("dropping telegram message, rate limit reached", "text", text)
		return
	}
	if err := n.post(text); err != nil {
		n.logger.Warn("failed to deliver telegram message", "err", err)
	}
}

func (n *TelegramNotifier) post(text string) error {
	body, err := json.Marshal(telegramMessage{ChatID: n.cfg.ChatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var parsed telegramResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram api: %s", parsed.Description)
	}
	return nil
}
