package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deniz/looking4/internal/app/controllers"
	"github.com/deniz/looking4/internal/middleware"
	"github.com/deniz/looking4/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	postController *controllers.PostController,
	chatController *controllers.ChatController,
	notificationController *controllers.NotificationController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Metrics endpoint outside the API group; scraped, not consumed by clients
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint. Authentication happens over the first frame, not
	// the upgrade request, so no JWT middleware here.
	router.GET("/ws", wsHandler.HandleConnection)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	v1.GET("/categories", postController.ListCategories)
	v1.GET("/posts", postController.ListPosts)
	v1.GET("/posts/:id", postController.GetPost)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		posts := authenticated.Group("/posts")
		{
			posts.POST("", postController.CreatePost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)
			posts.POST("/:id/respond", postController.RespondToPost)
			posts.POST("/:id/close", postController.ClosePost)
			posts.GET("/:id/response", postController.CheckUserResponse)
		}

		chats := authenticated.Group("/chats")
		{
			chats.GET("/rooms/my-rooms", chatController.GetUserRooms)
			chats.GET("/:id", chatController.GetRoom)
			chats.GET("/:id/messages", chatController.GetMessages)
			chats.POST("/:id/messages", chatController.SendMessage)
			chats.POST("/:id/leave", chatController.LeaveRoom)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.PUT("/:id/read", notificationController.MarkNotificationRead)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}
	}
}
