package app

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/bdlove4you1/telygram-bot/internal/config"
	"github.com/bdlove4you1/telygram-bot/internal/handlers"
	"github.com/bdlove4you1/telygram-bot/internal/repositories"
	"github.com/bdlove4you1/telygram-bot/internal/routes"
	"github.com/bdlove4you1/telygram-bot/internal/services"
	"github.com/bdlove4you1/telygram-bot/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Repos ===
	var otpRepo repositories.OTPRepository
	switch cfg.OTP.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("[app] redis ping failed: %v", err)
		}
		otpRepo = repositories.NewRedisOTPRepository(rdb)
		log.Printf("[app] otp store: redis (%s)", cfg.Redis.Addr)
	default:
		otpRepo = repositories.NewMemoryOTPRepository()
		log.Printf("[app] otp store: memory")
	}
	sessionRepo := repositories.NewSessionRepository()

	// === Services ===
	smsClient := utils.NewTwilioClient(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber,
		cfg.Twilio.DryRun,
	)
	otpService := services.NewOTPService(otpRepo, smsClient, time.Duration(cfg.OTP.TTLSeconds)*time.Second)
	verifyService := services.NewVerificationService(sessionRepo, otpService)

	bot, err := services.NewTelegramBot(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("[app] telegram init failed: %v", err)
	}

	// === Handlers ===
	botHandler := handlers.NewBotHandler(bot, verifyService)

	switch cfg.Telegram.Mode {
	case "webhook":
		if cfg.Telegram.WebhookURL == "" {
			log.Fatal("[app] webhook mode requires webhook_url / WEBHOOK_URL")
		}
		if err := bot.SetWebhook(cfg.Telegram.WebhookURL); err != nil {
			log.Fatalf("[app] %v", err)
		}
		webhookHandler := handlers.NewWebhookHandler(botHandler)

		router := gin.Default()
		routes.SetupRoutes(router, webhookHandler)

		listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Printf("[app] webhook server on %s", listenAddr)
		if err := router.Run(listenAddr); err != nil {
			log.Fatalf("[app] server failed: %v", err)
		}
	default:
		// polling: Telegram rejects getUpdates while a webhook is registered
		if err := bot.DeleteWebhook(); err != nil {
			log.Printf("[app] deleteWebhook: %v", err)
		}
		bot.RunPolling(ctx, botHandler.HandleUpdate)
	}
}
