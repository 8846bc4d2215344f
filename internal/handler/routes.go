package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/middleware"
	"github.com/studioplan/lessongrid-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Participants *ParticipantHandler
	Availability *AvailabilityHandler
	Assignments  *AssignmentHandler
	Placement    *PlacementHandler
	Analysis     *AnalysisHandler
	Export       *ExportHandler
	Metrics      *MetricsHandler
}

// Register mounts all routes. Everything except auth, health and metrics
// sits behind the JWT guard.
func Register(r *gin.Engine, h Handlers, auth *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	api := r.Group("/", middleware.JWT(auth))
	{
		api.POST("/auth/logout", h.Auth.Logout)
		api.PUT("/auth/password", h.Auth.ChangePassword)

		api.GET("/participants", h.Participants.List)
		api.POST("/participants", h.Participants.Create)
		api.GET("/participants/:id", h.Participants.Get)
		api.PUT("/participants/:id", h.Participants.Update)
		api.DELETE("/participants/:id", h.Participants.Delete)

		api.GET("/availability/owner", h.Availability.GetOwner)
		api.PUT("/availability/owner", h.Availability.PutOwner)
		api.GET("/availability/participants/:id", h.Availability.GetParticipant)
		api.PUT("/availability/participants/:id", h.Availability.PutParticipant)
		api.GET("/availability/drop-zones", h.Availability.DropZones)
		api.GET("/availability/drop-positions", h.Availability.DropPositions)

		api.GET("/assignments", h.Assignments.List)
		api.POST("/assignments/solve", h.Assignments.Solve)
		api.POST("/assignments/solve-batch", h.Assignments.SolveBatch)
		api.DELETE("/assignments/:id", h.Assignments.Delete)

		api.POST("/placement/session", h.Placement.CreateSession)
		api.POST("/placement/session/:sessionId/cancel", h.Placement.Cancel)
		api.POST("/placement/selection/begin", h.Placement.BeginSelection)
		api.POST("/placement/selection/update", h.Placement.UpdateSelection)
		api.POST("/placement/selection/end", h.Placement.EndSelection)
		api.POST("/placement/drag", h.Placement.BeginDrag)
		api.POST("/placement/preview", h.Placement.Preview)
		api.POST("/placement/drop", h.Placement.Drop)

		api.GET("/analysis/conflicts", h.Analysis.Conflicts)
		api.GET("/analysis/utilization", h.Analysis.Utilization)

		api.GET("/export/ics", h.Export.ICS)
		api.GET("/export/csv", h.Export.CSV)
		api.GET("/export/pdf", h.Export.PDF)
	}
}
