package services

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bdlove4you1/telygram-bot/internal/models"
)

// Keyboard labels. handleChoice matches on lowercase "contact"/"otp", so the
// button texts and the dispatch stay in sync through these constants.
const (
	BtnShareContact = "Share Contact ✅"
	BtnVerifyOTP    = "Verify with OTP (SMS) 🔐"
	BtnCancel       = "Cancel ❌"
	BtnSendMyPhone  = "Send my phone"
	BtnBack         = "Back ⬅️"
)

// TelegramBot — thin wrapper over the Bot API client: sends replies with the
// right reply markup and runs the long-polling loop.
type TelegramBot struct {
	api *tgbotapi.BotAPI
}

func NewTelegramBot(token string) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Printf("[tg] authorized as @%s", api.Self.UserName)
	return &TelegramBot{api: api}, nil
}

// SendReply — one sendMessage per reply, markup derived from the directive.
func (b *TelegramBot) SendReply(chatID int64, reply models.Reply) error {
	if reply.None() {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	switch reply.Keyboard {
	case models.KeyboardChoice:
		msg.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnShareContact)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnVerifyOTP)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)),
		)
	case models.KeyboardContact:
		msg.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(BtnSendMyPhone)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
		)
	case models.KeyboardRemove:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// SetWebhook — registers the public webhook URL with Telegram.
func (b *TelegramBot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	log.Printf("[tg] webhook set: %s", url)
	return nil
}

// DeleteWebhook — required before switching back to long polling.
func (b *TelegramBot) DeleteWebhook() error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}

// RunPolling — consumes updates sequentially until ctx is cancelled.
// Sequential consumption is what gives per-user ordering in polling mode.
func (b *TelegramBot) RunPolling(ctx context.Context, handle func(context.Context, tgbotapi.Update)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	log.Printf("[tg] polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Printf("[tg] polling stopped")
			return
		case up, ok := <-updates:
			if !ok {
				return
			}
			handle(ctx, up)
		}
	}
}
