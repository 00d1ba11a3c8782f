package transport

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Discord delivers notifications to a Discord channel. The recipient
// address is the channel ID.
type Discord struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewDiscord creates a Discord transport from a bot token.
func NewDiscord(token string, logger *zap.Logger) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord session: %w", err)
	}

	logger.Info("Discord transport ready")
	return &Discord{session: session, logger: logger}, nil
}

func (d *Discord) Name() string {
	return "discord"
}

func (d *Discord) Send(ctx context.Context, recipient, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := d.session.ChannelMessageSend(recipient, body); err != nil {
		return apperrors.Wrap(err, apperrors.ErrTransportFailure.Code, "discord send failed")
	}
	return nil
}

// Close shuts down the underlying session.
func (d *Discord) Close() error {
	return d.session.Close()
}
