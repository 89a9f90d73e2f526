package telegram

import (
	"context"

	domainTelegram "tutorhub/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements domainTelegram.Client on top of telebot.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

func (a *TelebotAdapter) Send(ctx context.Context, m domainTelegram.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.bot.Send(telebot.ChatID(m.ChatID), m.Text, sendOptions(m))
	return err
}

func sendOptions(m domainTelegram.Message) *telebot.SendOptions {
	opts := &telebot.SendOptions{DisableWebPagePreview: true}
	if len(m.Buttons) == 0 {
		return opts
	}
	row := make([]telebot.InlineButton, 0, len(m.Buttons))
	for _, b := range m.Buttons {
		row = append(row, telebot.InlineButton{Text: b.Text, Data: b.Data})
	}
	opts.ReplyMarkup = &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}
	return opts
}
