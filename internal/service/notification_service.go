package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/mailer"
	"github.com/mento-services/marketplace-api/internal/repository"
)

// NotificationService turns domain events into best-effort email. Send
// failures are logged and dropped; a notification never fails a request.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mail       mailer.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mail mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mail:       mail,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventOtpIssued, n.handleOtpIssued)
	n.dispatcher.Subscribe(events.EventKycReviewed, n.handleKycReviewed)
	n.dispatcher.Subscribe(events.EventSubscriptionActivated, n.handleSubscriptionActivated)
	n.dispatcher.Subscribe(events.EventWorkerVerified, n.handleWorkerVerified)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.String("mobile", payload.Mobile))

	if payload.Email == nil {
		return nil
	}
	name := ""
	if payload.Name != nil {
		name = *payload.Name
	}
	if err := n.mail.SendWelcomeEmail(*payload.Email, name); err != nil {
		n.logger.Warn("welcome email failed", zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleOtpIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OtpIssuedPayload)
	if !ok {
		return nil
	}

	user, err := n.users.GetByMobile(ctx, payload.Mobile)
	if err != nil {
		if err != pgx.ErrNoRows {
			n.logger.Warn("otp email lookup failed", zap.Error(err))
		}
		return nil
	}
	if user.Email == nil {
		return nil
	}
	if err := n.mail.SendOtpEmail(*user.Email, payload.Code); err != nil {
		n.logger.Warn("otp email failed", zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleKycReviewed(ctx context.Context, event events.Event) error {
	n.logger.Info("KycReviewed", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSubscriptionActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("SubscriptionActivated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleWorkerVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkerVerified", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}
