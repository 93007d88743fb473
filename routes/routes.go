package routes

import (
	"DuoPlay/config"
	"DuoPlay/controllers"
	"DuoPlay/middleware"
	"DuoPlay/services/activity"
	"DuoPlay/services/auth"
	"DuoPlay/services/invites"
	"DuoPlay/services/notifications"
	"DuoPlay/services/partnerships"
	utils "DuoPlay/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services groups everything the HTTP controllers depend on
type Services struct {
	Auth          *auth.Service
	Partnerships  *partnerships.Store
	Invites       *invites.Registry
	Feed          *activity.Feed
	Notifications *notifications.Service
}

// Limiters are the per-IP rate limiters of the API
type Limiters struct {
	Global *middleware.IPRateLimiter
	Auth   *middleware.IPRateLimiter
}

func NewLimiters(cfg config.RateLimitConfig) *Limiters {
	return &Limiters{
		Global: middleware.NewIPRateLimiter(cfg.RequestsPerWindow, cfg.Window),
		Auth:   middleware.NewIPRateLimiter(cfg.AuthPerWindow, cfg.Window),
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.AppConfig, svc *Services, limiters *Limiters) {
	// utils global
	router.Use(utils.ErrorHandler(cfg.Production))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(middleware.RateLimitByIP(limiters.Global))

	api.GET("", controllers.Info)
	api.GET("/health", controllers.Health)

	requireAuth := middleware.AuthRequired(svc.Auth.Tokens())
	requirePartnership := middleware.RequirePartnership(svc.Partnerships)

	authentication := api.Group("/auth")
	{
		strict := middleware.RateLimitByIP(limiters.Auth)
		authentication.POST("/register", strict, controllers.Register(svc.Auth))
		authentication.POST("/login", strict, controllers.Login(svc.Auth))
		authentication.POST("/refresh", controllers.Refresh(svc.Auth))
		authentication.POST("/logout", controllers.Logout(svc.Auth))
		authentication.GET("/verify-email/:token", controllers.VerifyEmail(svc.Auth))

		authentication.GET("/me", requireAuth, controllers.Me(svc.Auth))
		authentication.POST("/change-password", requireAuth, controllers.ChangePassword(svc.Auth))
	}

	partnership := api.Group("/partnerships")
	partnership.Use(requireAuth)
	{
		partnership.POST("/create-invite", controllers.CreateInvite(svc.Invites))
		partnership.POST("/join", controllers.JoinPartnership(svc.Invites))
		partnership.GET("/current", controllers.CurrentPartnership(svc.Partnerships))

		partnership.GET("/activity-feed", requirePartnership, controllers.ListActivityFeed(svc.Feed))
		partnership.POST("/activity-feed", requirePartnership, controllers.AppendActivity(svc.Feed))
	}

	notification := api.Group("/notifications")
	notification.Use(requireAuth)
	{
		notification.GET("", controllers.ListNotifications(svc.Notifications))
		notification.GET("/unread-count", controllers.UnreadCount(svc.Notifications))
		notification.PATCH("/read-all", controllers.MarkAllNotificationsRead(svc.Notifications))
		notification.PATCH("/:id/read", controllers.MarkNotificationRead(svc.Notifications))
	}
}
