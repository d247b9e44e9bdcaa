package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ibercasa/ibercasa/internal/api/handlers"
	"github.com/ibercasa/ibercasa/internal/api/middleware"
)

type Deps struct {
	Advice    *handlers.AdviceHandler
	Admin     *handlers.AdminHandler
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/advice/generate", d.Advice.Generate)

	r.POST("/admin/login", d.Admin.Login)
	r.POST("/admin/verify", d.Admin.Verify)

	// Dashboard reads (bearer credential)
	admin := r.Group("/admin")
	admin.Use(middleware.AdminJWT(d.JWTSecret), middleware.RequireAdmin())

	admin.GET("/analytics", d.Admin.Analytics)
	admin.GET("/interactions", d.Admin.Interactions)
	admin.GET("/queries", d.Admin.QueryLogs)
	admin.GET("/preferences", d.Admin.Preferences)
}
