package notify

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// TelegramAlerter posts operator alerts to a single chat.
type TelegramAlerter struct {
	bot    *tele.Bot
	chatID int64
}

// NewTelegramAlerter returns nil when the bot token or chat id is not set.
func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	return newTelegramAlerter("", token, chatID)
}

// An empty apiURL selects the public Bot API.
func newTelegramAlerter(apiURL, token string, chatID int64) (*TelegramAlerter, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	b, err := tele.NewBot(tele.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramAlerter{bot: b, chatID: chatID}, nil
}

func (a *TelegramAlerter) Alert(ctx context.Context, text string) error {
	if _, err := a.bot.Send(tele.ChatID(a.chatID), text); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}
