package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/events"
)

// NotificationService emits notifications for query lifecycle events.
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
	n.dispatcher.Subscribe(events.EventQueryCreated, n.handleQueryCreated)
	n.dispatcher.Subscribe(events.EventQueryStatusChanged, n.handleQueryStatusChanged)
	n.dispatcher.Subscribe(events.EventQueryTransferred, n.handleQueryTransferred)
	n.dispatcher.Subscribe(events.EventQueryResponseAdded, n.handleQueryResponseAdded)
}

func (n *NotificationService) handleQueryCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("QueryCreated", zap.Int64("query_id", event.QueryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleQueryStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("QueryStatusChanged", zap.Int64("query_id", event.QueryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleQueryTransferred(ctx context.Context, event events.Event) error {
	n.logger.Info("QueryTransferred", zap.Int64("query_id", event.QueryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleQueryResponseAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("QueryResponseAdded", zap.Int64("query_id", event.QueryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("query_id", event.QueryID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("query_id", event.QueryID),
		zap.String("event_type", string(event.Type)))
}
