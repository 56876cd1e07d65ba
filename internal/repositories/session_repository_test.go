package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdlove4you1/telygram-bot/internal/models"
)

func TestSessionRepository_GetMissing(t *testing.T) {
	repo := NewSessionRepository()
	assert.Nil(t, repo.Get(42))
}

func TestSessionRepository_SetStateCreatesAndUpdates(t *testing.T) {
	repo := NewSessionRepository()

	repo.SetState(42, models.StateChoosing)
	s := repo.Get(42)
	require.NotNil(t, s)
	assert.Equal(t, models.StateChoosing, s.State)

	repo.SetState(42, models.StateWaitPhone)
	assert.Equal(t, models.StateWaitPhone, repo.Get(42).State)
}

func TestSessionRepository_SetVerifiedEndsConversation(t *testing.T) {
	repo := NewSessionRepository()
	repo.SetState(42, models.StateWaitOTP)

	repo.SetVerified(42, "+8801234567890")

	s := repo.Get(42)
	require.NotNil(t, s)
	assert.Equal(t, models.StateEnded, s.State)
	assert.Equal(t, "+8801234567890", s.VerifiedPhone)
}

func TestSessionRepository_SetStateKeepsVerifiedPhone(t *testing.T) {
	repo := NewSessionRepository()
	repo.SetVerified(42, "+111")

	repo.SetState(42, models.StateChoosing)

	s := repo.Get(42)
	require.NotNil(t, s)
	assert.Equal(t, "+111", s.VerifiedPhone)
}

func TestSessionRepository_GetReturnsCopy(t *testing.T) {
	repo := NewSessionRepository()
	repo.SetState(42, models.StateChoosing)

	s := repo.Get(42)
	s.State = models.StateEnded

	assert.Equal(t, models.StateChoosing, repo.Get(42).State)
}
