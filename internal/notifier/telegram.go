package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// botAPI is the subset of *tgbotapi.BotAPI the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot           botAPI
	chatID        int64
	maxRetries    uint64
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewTelegramNotifier authorizes the bot, optionally through a proxy.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string, logger *zap.Logger) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	client := &http.Client{Timeout: 75 * time.Second, Transport: transport}

	api, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("authorized on telegram", zap.String("username", api.Self.UserName))
	return newTelegramNotifier(api, chatID, logger), nil
}

func newTelegramNotifier(bot botAPI, chatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:           bot,
		chatID:        chatID,
		maxRetries:    3,
		retryInterval: time.Second,
		logger:        logger.With(zap.String("component", "telegram")),
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Send sends text to the configured chat, retrying with exponential backoff.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.chatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	attempt := 0
	op := func() error {
		attempt++
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Warn("telegram send failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, t.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("send telegram message after %d attempts: %w", attempt, err)
	}
	return nil
}
