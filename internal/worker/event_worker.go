package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/cache"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/service"
)

// StartAuditWorker registers audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

// StartCacheInvalidation drops cached products whenever they change.
func StartCacheInvalidation(dispatcher events.Dispatcher, productCache *cache.ProductCache, logger *zap.Logger) {
	if dispatcher == nil || productCache == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		if err := productCache.Invalidate(ctx, event.ResourceID); err != nil {
			logger.Warn("product cache invalidation failed",
				zap.Int64("product_id", event.ResourceID), zap.Error(err))
			return err
		}
		return nil
	}
	dispatcher.Subscribe(events.EventProductUpdated, invalidate)
	dispatcher.Subscribe(events.EventProductDeleted, invalidate)
}
