package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/middleware"
)

// Handlers groups the endpoints mounted under the API prefix. AuditLogger may be nil.
type Handlers struct {
	Users         *UserHandler
	Auth          *AuthHandler
	Announcements *AnnouncementHandler
	Locations     *LocationHandler
	AuditLogger   *zap.Logger
}

// RegisterRoutes mounts the wire contract consumed by the sync client's remote adapter.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	audit := func(action string) gin.HandlerFunc { return middleware.Audit(h.AuditLogger, action) }

	api.POST("/register", audit("user.register"), h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	api.GET("/users", h.Users.List)
	api.GET("/users/export", h.Users.Export)
	api.PUT("/users/:id/approve", audit("user.approve"), h.Users.Approve)
	api.PUT("/users/:id/reject", audit("user.reject"), h.Users.Reject)
	api.DELETE("/users/:id", audit("user.delete"), h.Users.Delete)

	api.GET("/announcements", h.Announcements.List)
	api.POST("/announcements", audit("announcement.create"), h.Announcements.Create)
	api.DELETE("/announcements/:id", audit("announcement.delete"), h.Announcements.Delete)

	api.GET("/locations", h.Locations.List)
	api.POST("/locations", audit("location.create"), h.Locations.Create)
}
