package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/aiops/api/handler"
	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/internal/middleware"
	"github.com/fastygo/aiops/usecase/access"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Views   *apiHandler.ViewsHandler
	Actions *apiHandler.ActionsHandler
	Feed    *apiHandler.FeedHandler
	Health  *apiHandler.HealthHandler
}

// New wires the routes. session must resolve the caller and apply the
// authentication gate; role and permission gates are layered per route.
func New(handlers Handlers, session middleware.Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/api/v1/feed/incidents", handlers.Feed.Incidents)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)
	r.GET("/api/v1/auth/session", handlers.Auth.Session)

	// Views
	r.GET("/api/v1/navigation", session(handlers.Views.Navigation))
	r.GET("/api/v1/views", session(handlers.Views.List))
	r.GET("/api/v1/views/{name}", session(handlers.Views.Get))

	// Actions
	r.POST("/api/v1/automation/runbooks/{id}/run", middleware.Chain(handlers.Actions.RunRunbook,
		session,
		middleware.RequireRole(access.ViewRoles(access.ViewAutomation)...),
		middleware.Can(domain.PermRunAutomation),
	))
	r.GET("/api/v1/analytics/export", middleware.Chain(handlers.Actions.ExportAnalytics,
		session,
		middleware.RequireRole(access.ViewRoles(access.ViewAnalytics)...),
		middleware.Can(domain.PermExportAnalytics),
	))
	r.POST("/api/v1/chatops/messages", middleware.Chain(handlers.Actions.PostMessage,
		session,
		middleware.Can(domain.PermPostChatOps),
	))
	r.POST("/api/v1/admin/anomalies", middleware.Chain(handlers.Actions.InjectAnomaly,
		session,
		middleware.RequireRole(access.ViewRoles(access.ViewAdmin)...),
		middleware.Can(domain.PermInjectSynthetic),
	))
	r.POST("/api/v1/admin/incidents", middleware.Chain(handlers.Actions.InjectIncident,
		session,
		middleware.RequireRole(access.ViewRoles(access.ViewAdmin)...),
		middleware.Can(domain.PermInjectSynthetic),
	))

	return r
}
