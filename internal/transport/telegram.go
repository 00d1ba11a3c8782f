package transport

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Telegram delivers notifications to a Telegram chat. The recipient address
// is the numeric chat ID.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegram creates a Telegram transport from a bot token.
func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = false

	logger.Info("Telegram transport ready", zap.String("account", api.Self.UserName))
	return &Telegram{api: api, logger: logger}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Send(ctx context.Context, recipient, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return apperrors.New(apperrors.ErrTransportFailure.Code,
			fmt.Sprintf("invalid telegram chat id %q", recipient))
	}

	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, body)); err != nil {
		return apperrors.Wrap(err, apperrors.ErrTransportFailure.Code, "telegram send failed")
	}
	return nil
}
