package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/persistence"
)

// AuditService records auth events for later inspection. Entries go to the
// structured log and, when Redis is reachable, to a capped Redis list.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redis,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleEvent)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("email", event.Email),
	)
	a.appendToTrail(ctx, event)
	return nil
}

// appendToTrail pushes the event onto the Redis audit list, trimming it to the
// configured size. Failures are logged and swallowed; the audit trail is best
// effort and must never affect the auth flow.
func (a *AuditService) appendToTrail(ctx context.Context, event events.Event) {
	if a.redis == nil || a.redis.Client == nil {
		return
	}

	entry, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("audit entry marshal failed", zap.Error(err))
		return
	}

	if err := a.redis.Client.LPush(ctx, a.cfg.RedisKey, entry).Err(); err != nil {
		a.logger.Warn("audit trail push failed", zap.Error(err))
		return
	}
	if a.cfg.MaxEntries > 0 {
		if err := a.redis.Client.LTrim(ctx, a.cfg.RedisKey, 0, a.cfg.MaxEntries-1).Err(); err != nil {
			a.logger.Warn("audit trail trim failed", zap.Error(err))
		}
	}
}
