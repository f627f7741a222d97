package worker

import (
	"context"

	"github.com/spec-kit/band-site/internal/ratelimit"
	"github.com/spec-kit/band-site/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRateLimitJanitor evicts expired counters from an in-process store until
// ctx is cancelled. Other stores expire their own keys.
func StartRateLimitJanitor(ctx context.Context, store ratelimit.Store) {
	if mem, ok := store.(*ratelimit.MemoryStore); ok {
		mem.StartJanitor(ctx)
	}
}
