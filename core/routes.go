package core

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the admin API under /api behind the session and admin gate.
func RegisterRoutes(router gin.IRouter, h Handlers, sessions *SessionParser, adminRole string) {
	api := router.Group("/api", SessionMiddleware(sessions), RequireAdmin(adminRole))

	api.GET("/navigation", h.Navigation)
	api.GET("/dashboard", h.Dashboard)
	api.GET("/calendar", h.Calendar)

	registerResource(api.Group("/events"), h.Events(), true)
	registerResource(api.Group("/hackathons"), h.Hackathons(), true)

	scholarships := api.Group("/scholarships")
	scholarships.POST("/relay", h.RelayScholarship)
	registerResource(scholarships, h.Scholarships(), false)

	clubs := api.Group("/student-clubs")
	clubs.GET("/options", h.StudentClubOptions)
	registerResource(clubs, h.StudentClubs(), false)

	signups := api.Group("/signups")
	signups.GET("", h.Signups().List)
	signups.DELETE("/:id", h.Signups().Delete)
}

func registerResource(group *gin.RouterGroup, r ResourceHandlers, highlight bool) {
	group.GET("", r.List)
	group.GET("/:id", r.Get)
	group.POST("", r.Post)
	group.PUT("/:id", r.Put)
	group.DELETE("/:id", r.Delete)

	if highlight {
		group.PATCH("/:id/highlight", r.ToggleHighlight)
	}
}
