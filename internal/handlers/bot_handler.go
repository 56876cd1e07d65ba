package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bdlove4you1/telygram-bot/internal/models"
	"github.com/bdlove4you1/telygram-bot/internal/services"
)

// ReplySender — outbound side of the chat gateway; *services.TelegramBot in
// production, a fake in tests.
type ReplySender interface {
	SendReply(chatID int64, reply models.Reply) error
}

// BotHandler — classifies incoming Telegram updates and routes them into the
// conversation state machine. Shared by both transports: the polling loop
// calls HandleUpdate directly, the webhook handler goes through gin first.
type BotHandler struct {
	Bot    ReplySender
	Verify *services.VerificationService
	Disp   *services.Dispatcher
}

func NewBotHandler(bot ReplySender, verify *services.VerificationService) *BotHandler {
	return &BotHandler{Bot: bot, Verify: verify, Disp: services.NewDispatcher()}
}

// HandleUpdate — one update in, at most one reply out. Updates for the same
// user are serialized through the dispatcher so a phone submission is fully
// stored before the next message can be read as an OTP guess.
func (h *BotHandler) HandleUpdate(ctx context.Context, up tgbotapi.Update) {
	msg := up.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	h.Disp.Do(userID, func() {
		var reply models.Reply
		switch {
		case msg.IsCommand() && msg.Command() == "start":
			reply = h.Verify.Start(ctx, userID)
		case msg.IsCommand() && msg.Command() == "cancel":
			reply = h.Verify.Cancel(ctx, userID)
		case msg.IsCommand():
			return // unknown commands are ignored
		case msg.Contact != nil:
			reply = h.Verify.HandleContact(ctx, userID, msg.Contact.PhoneNumber)
		case msg.Text != "":
			reply = h.Verify.HandleText(ctx, userID, msg.Text)
		default:
			return // stickers, photos etc
		}

		if reply.None() {
			return
		}
		if err := h.Bot.SendReply(chatID, reply); err != nil {
			log.Printf("[tg][update] reply failed: chat_id=%d err=%v", chatID, err)
		}
	})
}
