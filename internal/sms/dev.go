package sms

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mento-services/marketplace-api/internal/events"
)

// DevProvider implements the OTP flow locally: it generates a code,
// stores only its bcrypt hash, and announces the code through the event
// dispatcher so the notification path can deliver it by email. Meant for
// environments without an SMS account.
type DevProvider struct {
	store      *OtpStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	otpLength  int
	bcryptCost int
}

// NewDevProvider builds the provider.
func NewDevProvider(store *OtpStore, dispatcher events.Dispatcher, logger *zap.Logger, otpLength, bcryptCost int) *DevProvider {
	if otpLength <= 0 {
		otpLength = 6
	}
	return &DevProvider{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		otpLength:  otpLength,
		bcryptCost: bcryptCost,
	}
}

func (p *DevProvider) SendOtp(ctx context.Context, mobile string) error {
	code, err := randomCode(p.otpLength)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), p.bcryptCost)
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, mobile, string(hash)); err != nil {
		return err
	}

	p.logger.Debug("otp issued", zap.String("mobile", mobile))

	if p.dispatcher != nil {
		_ = p.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOtpIssued,
			Timestamp: time.Now(),
			Payload:   events.OtpIssuedPayload{Mobile: mobile, Code: code},
		})
	}
	return nil
}

func (p *DevProvider) ResendOtp(ctx context.Context, mobile string) error {
	return p.SendOtp(ctx, mobile)
}

func (p *DevProvider) VerifyOtp(ctx context.Context, mobile, code string) error {
	hash, err := p.store.Hash(ctx, mobile)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return errors.New("incorrect otp")
	}
	return p.store.Delete(ctx, mobile)
}

func randomCode(length int) (string, error) {
	code := ""
	for i := 0; i < length; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += fmt.Sprintf("%d", digit.Int64())
	}
	return code, nil
}
