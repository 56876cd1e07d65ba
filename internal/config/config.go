package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type TelegramConfig struct {
	BotToken   string `yaml:"bot_token"`
	Mode       string `yaml:"mode"` // "polling" (default) or "webhook"
	WebhookURL string `yaml:"webhook_url"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	DryRun     bool   `yaml:"dry_run"`
}

type OTPConfig struct {
	TTLSeconds int    `yaml:"ttl_seconds"`
	Store      string `yaml:"store"` // "memory" (default) or "redis"
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	OTP      OTPConfig      `yaml:"otp"`
	Redis    RedisConfig    `yaml:"redis"`
}

// LoadConfig — config/config.yaml first, then .env / environment on top.
// Secrets are expected from the environment; the yaml file is optional and
// holds the non-secret knobs.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Telegram.Mode = "polling"
	cfg.OTP.TTLSeconds = 300
	cfg.OTP.Store = "memory"
	cfg.Redis.Addr = "localhost:6379"

	if f, err := os.Open("config/config.yaml"); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			panic("Failed to parse config.yaml: " + err.Error())
		}
	} else {
		log.Printf("[config] config/config.yaml not found, using defaults + env")
	}

	// .env is optional, плюс переменные окружения поверх yaml
	_ = godotenv.Load()
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Telegram.WebhookURL = v
	}
	if v := os.Getenv("TWILIO_SID"); v != "" {
		cfg.Twilio.AccountSID = v
	}
	if v := os.Getenv("TWILIO_TOKEN"); v != "" {
		cfg.Twilio.AuthToken = v
	}
	if v := os.Getenv("TWILIO_FROM"); v != "" {
		cfg.Twilio.FromNumber = v
	}
	if v := os.Getenv("TWILIO_DRY_RUN"); v != "" {
		cfg.Twilio.DryRun, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if cfg.OTP.TTLSeconds <= 0 {
		cfg.OTP.TTLSeconds = 300
	}
	return cfg
}
