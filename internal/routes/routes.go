package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bdlove4you1/telygram-bot/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	webhookHandler *handlers.WebhookHandler,
) *gin.Engine {

	r.GET("/healthz", webhookHandler.Healthz)
	r.POST("/telegram/webhook", webhookHandler.Webhook)

	return r
}
