package routes

import (
	"RoomLink/config"
	"RoomLink/handlers"
	"RoomLink/middleware"
	"RoomLink/store"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo) {
	users := store.NewMongoUserStore(config.GetCollection("users"))
	properties := store.NewMongoPropertyStore(config.GetCollection("properties"))
	conversations := store.NewMongoConversationStore(config.GetCollection("conversations"))
	otps := store.NewMongoOTPStore(config.GetCollection("otps"))

	auth := handlers.NewAuthController(users, otps)
	uc := handlers.NewUserController(users, properties)
	pc := handlers.NewPropertyController(properties, users)
	cc := handlers.NewConversationController(conversations, users)

	requireAuth := middleware.RequireAuth(users)

	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", "uploads")

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/forgot-password", auth.ForgotPassword)
	authGroup.POST("/reset-password", auth.ResetPassword)

	userGroup := api.Group("/users")
	userGroup.GET("", uc.ListUsers)
	userGroup.GET("/me", uc.GetProfile, requireAuth)
	userGroup.PUT("/me", uc.UpdateProfile, requireAuth, echomw.BodyLimit("6M"))
	userGroup.GET("/me/notifications", uc.GetNotifications, requireAuth)
	userGroup.PUT("/notifications/:id", uc.MarkNotificationRead, requireAuth)
	userGroup.GET("/me/saved", uc.GetSavedProperties, requireAuth)
	userGroup.POST("/me/saved/:propertyId", uc.SaveProperty, requireAuth)
	userGroup.DELETE("/me/saved/:propertyId", uc.UnsaveProperty, requireAuth)
	userGroup.GET("/:id", uc.GetUser)

	propertyGroup := api.Group("/properties")
	propertyGroup.GET("", pc.ListProperties)
	propertyGroup.POST("", pc.CreateProperty, requireAuth)
	propertyGroup.GET("/:id", pc.GetProperty)
	propertyGroup.PUT("/:id", pc.UpdateProperty, requireAuth)
	propertyGroup.DELETE("/:id", pc.DeleteProperty, requireAuth)

	conversationGroup := api.Group("/conversations", requireAuth)
	conversationGroup.POST("", cc.CreateConversation)
	conversationGroup.GET("", cc.ListConversations)
	conversationGroup.GET("/:id", cc.GetConversation)
	conversationGroup.PUT("/:id/read", cc.MarkConversationRead)
	conversationGroup.PUT("/:id/message", cc.RecordMessage)
}
