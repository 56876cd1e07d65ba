package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdlove4you1/telygram-bot/internal/repositories"
)

type sentSMS struct {
	To   string
	Body string
}

type smsSpy struct {
	sent []sentSMS
	err  error
}

func (s *smsSpy) SendSMS(_ context.Context, to, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentSMS{To: to, Body: body})
	return nil
}

// lastCode pulls the plaintext code out of the last SMS body. The stored side
// is bcrypt-hashed, so tests recover the code the same way a user would: from
// the message.
func (s *smsSpy) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.sent)
	body := s.sent[len(s.sent)-1].Body
	code := strings.TrimPrefix(body, "Your verification code is ")
	require.NotEqual(t, body, code, "unexpected SMS body: %q", body)
	return code
}

func newTestOTPService(spy *smsSpy) (*OTPService, *repositories.MemoryOTPRepository) {
	repo := repositories.NewMemoryOTPRepository()
	return NewOTPService(repo, spy, 300*time.Second), repo
}

func TestGenerateOTP_Shape(t *testing.T) {
	for i := 0; i < 500; i++ {
		code := generateOTP()
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err, "code must be all digits: %q", code)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestOTPService_Send(t *testing.T) {
	spy := &smsSpy{}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	before := time.Now()
	require.NoError(t, svc.Send(ctx, 42, "+8801234567890"))

	require.Len(t, spy.sent, 1)
	assert.Equal(t, "+8801234567890", spy.sent[0].To)
	assert.True(t, strings.HasPrefix(spy.sent[0].Body, "Your verification code is "))

	rec, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "+8801234567890", rec.Phone)
	assert.NotEmpty(t, rec.CodeHash)
	assert.WithinDuration(t, before.Add(300*time.Second), rec.ExpiresAt, 2*time.Second)
}

func TestOTPService_SendReplacesPrior(t *testing.T) {
	spy := &smsSpy{}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, 42, "+111"))
	firstCode := spy.lastCode(t)
	require.NoError(t, svc.Send(ctx, 42, "+222"))

	rec, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "+222", rec.Phone, "new request replaces the old record")

	// the first code is dead even if it happens to differ from the second
	if firstCode != spy.lastCode(t) {
		_, err = svc.Confirm(ctx, 42, firstCode)
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}
}

func TestOTPService_ConfirmSuccessConsumesRecord(t *testing.T) {
	spy := &smsSpy{}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, 42, "+8801234567890"))
	code := spy.lastCode(t)

	phone, err := svc.Confirm(ctx, 42, code)
	require.NoError(t, err)
	assert.Equal(t, "+8801234567890", phone)

	rec, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, rec, "confirmed code is single use")

	_, err = svc.Confirm(ctx, 42, code)
	assert.ErrorIs(t, err, ErrNoRequest, "replay of a consumed code must fail")
}

func TestOTPService_ConfirmWrongCodeKeepsRecord(t *testing.T) {
	spy := &smsSpy{}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, 42, "+8801234567890"))
	code := spy.lastCode(t)

	// generated codes never start with 0, so this guess is always wrong
	_, err := svc.Confirm(ctx, 42, "000000")
	assert.ErrorIs(t, err, ErrCodeInvalid)

	rec, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, rec, "wrong guess must not consume the record")

	// the real code still works afterwards
	phone, err := svc.Confirm(ctx, 42, code)
	require.NoError(t, err)
	assert.Equal(t, "+8801234567890", phone)
}

func TestOTPService_ConfirmNoRequest(t *testing.T) {
	svc, _ := newTestOTPService(&smsSpy{})

	_, err := svc.Confirm(context.Background(), 42, "123456")
	assert.ErrorIs(t, err, ErrNoRequest)
}

func TestOTPService_ConfirmExpiredPurges(t *testing.T) {
	spy := &smsSpy{}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, 42, "+8801234567890"))
	code := spy.lastCode(t)

	// age the record past its TTL
	rec, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	rec.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, repo.Put(ctx, rec))

	_, err = svc.Confirm(ctx, 42, code)
	assert.ErrorIs(t, err, ErrCodeExpired)

	gone, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, gone, "expired record must be purged on detection")

	_, err = svc.Confirm(ctx, 42, code)
	assert.ErrorIs(t, err, ErrNoRequest, "after the purge the request is simply gone")
}

func TestOTPService_SendFailurePropagates(t *testing.T) {
	spy := &smsSpy{err: errors.New("twilio error 21211: invalid 'To' number")}
	svc, repo := newTestOTPService(spy)
	ctx := context.Background()

	err := svc.Send(ctx, 42, "+999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")

	// the record is written before the send attempt and stays behind to age
	// out by TTL
	rec, repoErr := repo.Get(ctx, 42)
	require.NoError(t, repoErr)
	assert.NotNil(t, rec)
}
