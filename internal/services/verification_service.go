package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/bdlove4you1/telygram-bot/internal/models"
	"github.com/bdlove4you1/telygram-bot/internal/repositories"
)

// User-facing texts. Kept in one place so the handlers and tests share them.
const (
	MsgWelcome       = "Welcome! Choose verification method:"
	MsgTapToShare    = "Tap the button to share your phone."
	MsgSendPhone     = "Send your phone number (+8801XXXX)."
	MsgCancelled     = "Cancelled."
	MsgInvalidPhone  = "❌ Invalid format. Example: +8801XXXXXXXXX"
	MsgOTPSent       = "📩 OTP sent. Enter the 6-digit code."
	MsgNoRequest     = "No OTP request. Send /start."
	MsgExpired       = "⏰ OTP expired. Restart with /start."
	MsgWrongOTP      = "❌ Wrong OTP. Try again."
	MsgInternalError = "Something went wrong. Try again."
)

var otpRe = regexp.MustCompile(`^\d{6}$`)

// VerificationService — the conversation state machine. Every handled update
// produces at most one reply; state lives in the session repository, pending
// challenges in the OTP service. All failures are translated into a reply
// right here, nothing escapes to the transport.
type VerificationService struct {
	Sessions *repositories.SessionRepository
	OTP      *OTPService
}

func NewVerificationService(sessions *repositories.SessionRepository, otp *OTPService) *VerificationService {
	return &VerificationService{Sessions: sessions, OTP: otp}
}

// Start — /start always opens a fresh conversation, even mid-flow.
// A previously verified phone is kept on the session.
func (v *VerificationService) Start(_ context.Context, userID int64) models.Reply {
	v.Sessions.SetState(userID, models.StateChoosing)
	log.Printf("[verify][start] user_id=%d", userID)
	return models.Reply{Text: MsgWelcome, Keyboard: models.KeyboardChoice}
}

// Cancel — /cancel works as a fallback from any state.
func (v *VerificationService) Cancel(_ context.Context, userID int64) models.Reply {
	v.Sessions.SetState(userID, models.StateEnded)
	log.Printf("[verify][cancel] user_id=%d", userID)
	return models.Reply{Text: MsgCancelled, Keyboard: models.KeyboardRemove}
}

// HandleText — free text dispatched on the current state. Text outside an
// active conversation, in WAIT_CONTACT, or not matching the 6-digit shape in
// WAIT_OTP is ignored without a reply.
func (v *VerificationService) HandleText(ctx context.Context, userID int64, text string) models.Reply {
	s := v.Sessions.Get(userID)
	if s == nil || s.State == models.StateEnded {
		return models.Reply{}
	}

	switch s.State {
	case models.StateChoosing:
		return v.handleChoice(userID, text)
	case models.StateWaitPhone:
		return v.handlePhone(ctx, userID, text)
	case models.StateWaitOTP:
		return v.handleGuess(ctx, userID, text)
	default: // StateWaitContact — only a contact payload moves it forward
		return models.Reply{}
	}
}

// HandleContact — structured contact-share; meaningful only in WAIT_CONTACT.
func (v *VerificationService) HandleContact(_ context.Context, userID int64, phone string) models.Reply {
	s := v.Sessions.Get(userID)
	if s == nil || s.State != models.StateWaitContact {
		return models.Reply{}
	}
	v.Sessions.SetVerified(userID, phone)
	log.Printf("[verify][contact] OK user_id=%d phone=%s", userID, phone)
	return models.Reply{
		Text:     fmt.Sprintf("✅ Verified by contact: %s", phone),
		Keyboard: models.KeyboardRemove,
	}
}

func (v *VerificationService) handleChoice(userID int64, text string) models.Reply {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "contact"):
		v.Sessions.SetState(userID, models.StateWaitContact)
		return models.Reply{Text: MsgTapToShare, Keyboard: models.KeyboardContact}
	case strings.Contains(t, "otp"):
		v.Sessions.SetState(userID, models.StateWaitPhone)
		return models.Reply{Text: MsgSendPhone, Keyboard: models.KeyboardRemove}
	default:
		v.Sessions.SetState(userID, models.StateEnded)
		return models.Reply{Text: MsgCancelled, Keyboard: models.KeyboardRemove}
	}
}

func (v *VerificationService) handlePhone(ctx context.Context, userID int64, text string) models.Reply {
	phone := strings.TrimSpace(text)
	if !validPhone(phone) {
		// retry in place, session is not lost
		return models.Reply{Text: MsgInvalidPhone}
	}

	if err := v.OTP.Send(ctx, userID, phone); err != nil {
		log.Printf("[verify][phone] send failed: user_id=%d err=%v", userID, err)
		v.Sessions.SetState(userID, models.StateEnded)
		return models.Reply{Text: fmt.Sprintf("SMS failed: %v", err)}
	}

	v.Sessions.SetState(userID, models.StateWaitOTP)
	return models.Reply{Text: MsgOTPSent}
}

func (v *VerificationService) handleGuess(ctx context.Context, userID int64, text string) models.Reply {
	guess := strings.TrimSpace(text)
	if !otpRe.MatchString(guess) {
		return models.Reply{}
	}

	phone, err := v.OTP.Confirm(ctx, userID, guess)
	switch {
	case errors.Is(err, ErrNoRequest):
		v.Sessions.SetState(userID, models.StateEnded)
		return models.Reply{Text: MsgNoRequest}
	case errors.Is(err, ErrCodeExpired):
		v.Sessions.SetState(userID, models.StateEnded)
		return models.Reply{Text: MsgExpired}
	case errors.Is(err, ErrCodeInvalid):
		return models.Reply{Text: MsgWrongOTP}
	case err != nil:
		// store backend failure (redis etc), keep the session alive
		log.Printf("[verify][guess] confirm error: user_id=%d err=%v", userID, err)
		return models.Reply{Text: MsgInternalError}
	}

	v.Sessions.SetVerified(userID, phone)
	return models.Reply{Text: fmt.Sprintf("✅ Verified: %s", phone)}
}

// validPhone — deliberately minimal: "+" followed by digits only. No length
// or country-code checks, this is not a security boundary.
func validPhone(s string) bool {
	if len(s) < 2 || s[0] != '+' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
