package worker

import (
	"github.com/spec-kit/blood-drive-service/internal/events"
	"github.com/spec-kit/blood-drive-service/internal/service"
)

// StartEventWorkers registers event subscribers: notification stubs and
// dashboard cache invalidation.
func StartEventWorkers(dispatcher events.Dispatcher, notifications *service.NotificationService, dashboard *service.DashboardService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if dashboard != nil {
		dashboard.RegisterInvalidation(dispatcher)
	}
}
