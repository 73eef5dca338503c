package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/rentals")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/me", h.ListMine)
		group.GET("/availability", h.CheckAvailability)
		group.GET("/cost", h.CalculateCost)
		group.GET("/:id", h.Get)
		group.POST("/:id/complete", h.Complete)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/extend", h.Extend)
	}
}
