package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bdlove4you1/telygram-bot/internal/models"
	"github.com/bdlove4you1/telygram-bot/internal/repositories"
)

var (
	ErrNoRequest   = errors.New("no otp request")
	ErrCodeExpired = errors.New("code expired")
	ErrCodeInvalid = errors.New("code invalid")
)

const defaultOTPTTL = 5 * time.Minute

// SMSSender — the notification gateway. One shot, pass or fail, no retry.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type OTPService struct {
	Repo    repositories.OTPRepository
	SMS     SMSSender
	CodeTTL time.Duration // 0 — берём defaultOTPTTL
}

func NewOTPService(repo repositories.OTPRepository, sms SMSSender, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &OTPService{Repo: repo, SMS: sms, CodeTTL: ttl}
}

// generateOTP — random 6-digit code in [100000, 999999], no leading zero.
func generateOTP() string {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%d", 100000+rnd.Intn(900000))
}

// Send — generates a fresh code, stores the challenge (replacing any prior one
// for this user) and sends the SMS. Only the bcrypt hash of the code is kept.
// The record is written before the send attempt; a failed send leaves it to
// age out by TTL.
func (s *OTPService) Send(ctx context.Context, userID int64, phone string) error {
	code := generateOTP()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	sentAt := time.Now()
	rec := &models.OTPRecord{
		UserID:    userID,
		Phone:     phone,
		CodeHash:  string(hash),
		SentAt:    sentAt,
		ExpiresAt: sentAt.Add(s.CodeTTL),
	}
	if err := s.Repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s", code)
	if err := s.SMS.SendSMS(ctx, phone, body); err != nil {
		return err
	}

	log.Printf("[otp][send] ok: user_id=%d phone=%s ttl=%s", userID, phone, s.CodeTTL)
	return nil
}

// Confirm — checks a 6-digit guess against the stored challenge.
// Returns the verified phone on success. Sentinels:
//   - ErrNoRequest — no live record (never issued, already consumed, or purged);
//   - ErrCodeExpired — past TTL; the record is deleted so it cannot be retried;
//   - ErrCodeInvalid — wrong guess; the record stays untouched until expiry.
func (s *OTPService) Confirm(ctx context.Context, userID int64, code string) (string, error) {
	rec, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get otp: %w", err)
	}
	if rec == nil {
		return "", ErrNoRequest
	}
	if rec.Expired(time.Now()) {
		if err := s.Repo.Delete(ctx, userID); err != nil {
			return "", fmt.Errorf("delete expired otp: %w", err)
		}
		return "", ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return "", ErrCodeInvalid
	}

	// single use: consume before reporting success
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return "", fmt.Errorf("delete otp: %w", err)
	}
	log.Printf("[otp][confirm] OK user_id=%d", userID)
	return rec.Phone, nil
}
