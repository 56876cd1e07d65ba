package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler — Telegram pushes updates here when the bot runs in webhook
// mode. Always answers 200: a non-2xx makes Telegram redeliver the same
// update in a loop, which the conversation logic has no use for.
type WebhookHandler struct {
	Bot *BotHandler
}

func NewWebhookHandler(bot *BotHandler) *WebhookHandler {
	return &WebhookHandler{Bot: bot}
}

func (h *WebhookHandler) Webhook(c *gin.Context) {
	var up tgbotapi.Update
	if err := c.ShouldBindJSON(&up); err != nil {
		log.Printf("[tg][webhook] bind json error: %v", err)
		c.Status(http.StatusOK)
		return
	}

	h.Bot.HandleUpdate(c.Request.Context(), up)
	c.Status(http.StatusOK)
}

// Healthz — liveness probe for the webhook deployment.
func (h *WebhookHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
