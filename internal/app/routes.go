package app

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/activity"
	"github.com/plumbline-app/plumbline/internal/plugins/auth"
	"github.com/plumbline-app/plumbline/internal/plugins/clients"
	"github.com/plumbline-app/plumbline/internal/plugins/notify"
	"github.com/plumbline-app/plumbline/internal/plugins/orders"
	"github.com/plumbline-app/plumbline/internal/plugins/schedule"
)

// RegisterRoutes constructs every plugin's repository/service/handler stack
// and mounts the routes. This is the single place where plugins are wired
// to each other.
func (a *App) RegisterRoutes() {
	// Auth first: every other plugin's routes hang off its session middleware.
	userRepo := auth.NewUserRepository(a.DB)
	authSvc := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)
	authHandler := auth.NewHandler(authSvc, a.Config.Auth.SessionTTL, !a.Config.IsDevelopment())
	auth.RegisterRoutes(a.Echo, authHandler, authSvc)

	// Activity feed; consumes the auth service for actor names.
	activityRepo := activity.NewActivityRepository(a.DB)
	activitySvc := activity.NewActivityService(activityRepo, authSvc)
	activity.RegisterRoutes(a.Echo, activity.NewHandler(activitySvc), authSvc)

	if a.Config.Activity.Retention > 0 {
		if err := activity.RegisterRetentionJob(a.Cron, activitySvc,
			a.Config.Activity.Retention, a.Config.Activity.PruneSchedule); err != nil {
			slog.Error("failed to schedule activity retention", slog.Any("error", err))
		}
	}

	// Client directory.
	clientRepo := clients.NewClientRepository(a.DB)
	clientSvc := clients.NewClientService(clientRepo)
	clients.RegisterRoutes(a.Echo, clients.NewHandler(clientSvc), authSvc)

	// Orders; validates clients through the directory and records to the feed.
	orderRepo := orders.NewOrderRepository(a.DB)
	orderSvc := orders.NewOrderService(orderRepo, clientSvc, activitySvc)
	orders.RegisterRoutes(a.Echo, orders.NewHandler(orderSvc), authSvc)

	// Notification preferences.
	prefRepo := notify.NewPreferenceRepository(a.DB)
	prefSvc := notify.NewPreferenceService(prefRepo, a.Redis)
	notify.RegisterRoutes(a.Echo, notify.NewHandler(prefSvc), authSvc)

	// Schedule: the calendar pipeline over the order event source.
	scheduleSvc := schedule.NewScheduleService(orders.NewEventSource(orderRepo))
	schedule.RegisterRoutes(a.Echo, schedule.NewHandler(scheduleSvc), authSvc)

	// Liveness probe for container orchestration.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
