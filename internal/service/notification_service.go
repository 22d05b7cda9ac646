package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blood-drive-service/internal/config"
	"github.com/spec-kit/blood-drive-service/internal/events"
)

// NotificationService handles emitting notifications for donor lifecycle
// events. Delivery is stubbed: targets are logged, not called.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDonorRegistered, n.handleDonorRegistered)
	n.dispatcher.Subscribe(events.EventDonorStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventDonationCompleted, n.handleDonationCompleted)
}

func (n *NotificationService) handleDonorRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("DonorRegistered", zap.String("donor_id", event.DonorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("DonorStatusChanged", zap.String("donor_id", event.DonorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDonationCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DonationCompleted", zap.String("donor_id", event.DonorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("donor_id", event.DonorID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("donor_id", event.DonorID),
		zap.String("event_type", string(event.Type)))
}
