package sms

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrOtpNotFound means no live code exists for the mobile number.
	ErrOtpNotFound = errors.New("otp not found or expired")
	// ErrTooManyAttempts means the verification budget is exhausted.
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// OtpStore keeps bcrypt-hashed OTP codes in Redis with a TTL and a
// bounded attempt counter per mobile number.
type OtpStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxAttempts int64
}

// NewOtpStore builds the store.
func NewOtpStore(client *redis.Client, ttl time.Duration, maxAttempts int) *OtpStore {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &OtpStore{client: client, ttl: ttl, maxAttempts: int64(maxAttempts)}
}

func otpKey(mobile string) string {
	return "otp:" + mobile
}

// Save replaces any pending code for the mobile and resets attempts.
func (s *OtpStore) Save(ctx context.Context, mobile, codeHash string) error {
	key := otpKey(mobile)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "hash", codeHash, "attempts", 0)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Hash returns the stored code hash after charging one attempt.
func (s *OtpStore) Hash(ctx context.Context, mobile string) (string, error) {
	key := otpKey(mobile)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return "", err
	}
	if exists == 0 {
		return "", ErrOtpNotFound
	}

	attempts, err := s.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return "", err
	}
	if attempts > s.maxAttempts {
		return "", ErrTooManyAttempts
	}

	hash, err := s.client.HGet(ctx, key, "hash").Result()
	if err == redis.Nil {
		return "", ErrOtpNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Delete clears a consumed code.
func (s *OtpStore) Delete(ctx context.Context, mobile string) error {
	return s.client.Del(ctx, otpKey(mobile)).Err()
}
