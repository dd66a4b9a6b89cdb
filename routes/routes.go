package routes

import (
	"log"
	"net/http"

	"truckbot/handlers"
	"truckbot/middleware"
	"truckbot/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the map feed is public and read-only
	},
}

func SetupRoutes(
	router *gin.Engine,
	adminHandler *handlers.AdminHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		api.POST("/admin/login", adminHandler.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret))
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/players/:id", adminHandler.GetPlayer)
			admin.GET("/top/:key", adminHandler.GetTop)
			admin.GET("/companies", adminHandler.GetCompanies)
		}
	}

	// WebSocket endpoint for the live map feed
	router.GET("/ws/map", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}
		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
