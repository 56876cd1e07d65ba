package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bdlove4you1/telygram-bot/internal/models"
)

// RedisOTPRepository — optional backend for multi-instance deployments.
// The record carries its own ExpiresAt and the service decides expiry from it;
// the redis key TTL is only a safety net, set to twice the logical TTL so a
// late guess still gets the "expired" reply instead of "no request".
type RedisOTPRepository struct {
	rdb *redis.Client
}

func NewRedisOTPRepository(rdb *redis.Client) *RedisOTPRepository {
	return &RedisOTPRepository{rdb: rdb}
}

func otpKey(userID int64) string {
	return fmt.Sprintf("otp:%d", userID)
}

func (r *RedisOTPRepository) Put(ctx context.Context, rec *models.OTPRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	ttl := 2 * time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := r.rdb.Set(ctx, otpKey(rec.UserID), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set otp: %w", err)
	}
	return nil
}

func (r *RedisOTPRepository) Get(ctx context.Context, userID int64) (*models.OTPRecord, error) {
	b, err := r.rdb.Get(ctx, otpKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}
	var rec models.OTPRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	return &rec, nil
}

func (r *RedisOTPRepository) Delete(ctx context.Context, userID int64) error {
	if err := r.rdb.Del(ctx, otpKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del otp: %w", err)
	}
	return nil
}
